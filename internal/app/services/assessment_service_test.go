package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListAssessments(t *testing.T) {
	users := newFakeUserRepo()
	assessments := newFakeAssessmentRepo()
	svc := NewAssessmentService(users, assessments, nil, zerolog.Nop())

	recruiter := users.addUser(&models.User{Email: "r@example.com", RoleType: models.RoleRecruiter})

	created, err := svc.Create(context.Background(), recruiter.ID, &dto.CreateAssessmentRequest{
		Name:            "Go Fundamentals",
		Description:     "Screening quiz",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, recruiter.ID, created.CreatedBy)

	list, err := svc.GetMine(context.Background(), recruiter.ID)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Go Fundamentals", list.Assessments[0].Name)
}

func TestAssignIsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	assessments := newFakeAssessmentRepo()
	svc := NewAssessmentService(users, assessments, nil, zerolog.Nop())

	recruiter := users.addUser(&models.User{Email: "r@example.com", RoleType: models.RoleRecruiter})
	student := users.addUser(&models.User{Email: "s@example.com", RoleType: models.RoleStudent})

	created, err := svc.Create(context.Background(), recruiter.ID, &dto.CreateAssessmentRequest{
		Name: "Quiz", DurationMinutes: 30,
	})
	require.NoError(t, err)

	already, err := svc.Assign(context.Background(), recruiter.ID, created.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = svc.Assign(context.Background(), recruiter.ID, created.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, already)

	assigned, err := assessments.GetAssignedIDsByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Len(t, assigned, 1)
}

func TestAssignRejectsNonOwner(t *testing.T) {
	users := newFakeUserRepo()
	assessments := newFakeAssessmentRepo()
	svc := NewAssessmentService(users, assessments, nil, zerolog.Nop())

	owner := users.addUser(&models.User{Email: "o@example.com", RoleType: models.RoleRecruiter})
	intruder := users.addUser(&models.User{Email: "i@example.com", RoleType: models.RoleRecruiter})
	student := users.addUser(&models.User{Email: "s@example.com", RoleType: models.RoleStudent})

	created, err := svc.Create(context.Background(), owner.ID, &dto.CreateAssessmentRequest{
		Name: "Quiz", DurationMinutes: 30,
	})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), intruder.ID, created.ID, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAssessmentOwner)
}

func TestAssignRejectsNonStudentTarget(t *testing.T) {
	users := newFakeUserRepo()
	assessments := newFakeAssessmentRepo()
	svc := NewAssessmentService(users, assessments, nil, zerolog.Nop())

	recruiter := users.addUser(&models.User{Email: "r@example.com", RoleType: models.RoleRecruiter})
	other := users.addUser(&models.User{Email: "x@example.com", RoleType: models.RoleRecruiter})

	created, err := svc.Create(context.Background(), recruiter.ID, &dto.CreateAssessmentRequest{
		Name: "Quiz", DurationMinutes: 30,
	})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), recruiter.ID, created.ID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
