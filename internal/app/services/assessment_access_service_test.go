package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessFixture struct {
	users       *fakeUserRepo
	links       *fakeLinkRepo
	assessments *fakeAssessmentRepo
	svc         AssessmentAccessService

	student *models.User
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	users := newFakeUserRepo()
	links := newFakeLinkRepo(users)
	assessments := newFakeAssessmentRepo()

	f := &accessFixture{
		users:       users,
		links:       links,
		assessments: assessments,
		svc:         NewAssessmentAccessService(links, assessments, nil, zerolog.Nop()),
	}
	f.student = users.addUser(&models.User{
		Email: "student@example.com", RoleType: models.RoleStudent,
	})
	return f
}

func (f *accessFixture) addRecruiterWithAssessments(t *testing.T, email string, count int) (*models.User, []int64) {
	t.Helper()
	recruiter := f.users.addUser(&models.User{Email: email, RoleType: models.RoleRecruiter})
	var ids []int64
	for i := 0; i < count; i++ {
		id, err := f.assessments.Create(context.Background(), &models.Assessment{
			Name: "Assessment", CreatedBy: recruiter.ID,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return recruiter, ids
}

func TestVisibleAssessmentsUnionOfDirectAndLinked(t *testing.T) {
	f := newAccessFixture(t)
	recruiter, owned := f.addRecruiterWithAssessments(t, "r1@example.com", 2)

	_, err := f.links.Upsert(context.Background(), f.student.ID, recruiter.ID)
	require.NoError(t, err)

	// Direct assignment of an assessment owned by an unlinked recruiter
	other, otherOwned := f.addRecruiterWithAssessments(t, "r2@example.com", 1)
	_, err = f.assessments.AssignToStudent(context.Background(), f.student.ID, otherOwned[0], &other.ID)
	require.NoError(t, err)

	ids, err := f.svc.VisibleAssessmentIDs(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, append(owned, otherOwned[0]), ids)
}

func TestVisibleAssessmentsDeduplicatesOverlap(t *testing.T) {
	f := newAccessFixture(t)
	recruiter, owned := f.addRecruiterWithAssessments(t, "r1@example.com", 2)

	_, err := f.links.Upsert(context.Background(), f.student.ID, recruiter.ID)
	require.NoError(t, err)

	// Direct assignment of an assessment also reachable through the link
	_, err = f.assessments.AssignToStudent(context.Background(), f.student.ID, owned[0], &recruiter.ID)
	require.NoError(t, err)

	ids, err := f.svc.VisibleAssessmentIDs(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.ElementsMatch(t, owned, ids)
}

func TestVisibleAssessmentsSortedAndStable(t *testing.T) {
	f := newAccessFixture(t)
	recruiter, _ := f.addRecruiterWithAssessments(t, "r1@example.com", 5)

	_, err := f.links.Upsert(context.Background(), f.student.ID, recruiter.ID)
	require.NoError(t, err)

	first, err := f.svc.VisibleAssessmentIDs(context.Background(), f.student.ID)
	require.NoError(t, err)
	second, err := f.svc.VisibleAssessmentIDs(context.Background(), f.student.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
}

func TestVisibleAssessmentsEmptyRecruiterContributesNothing(t *testing.T) {
	f := newAccessFixture(t)
	empty, _ := f.addRecruiterWithAssessments(t, "empty@example.com", 0)

	_, err := f.links.Upsert(context.Background(), f.student.ID, empty.ID)
	require.NoError(t, err)

	ids, err := f.svc.VisibleAssessmentIDs(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestVisibleAssessmentsNoLinksNoAssignments(t *testing.T) {
	f := newAccessFixture(t)

	resp, err := f.svc.VisibleAssessments(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Assessments)
}

func TestVisibleAssessmentsLoadsFullRecords(t *testing.T) {
	f := newAccessFixture(t)
	recruiter, owned := f.addRecruiterWithAssessments(t, "r1@example.com", 3)

	_, err := f.links.Upsert(context.Background(), f.student.ID, recruiter.ID)
	require.NoError(t, err)

	resp, err := f.svc.VisibleAssessments(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, len(owned), resp.Total)
	for i, a := range resp.Assessments {
		assert.Equal(t, owned[i], a.ID)
		assert.Equal(t, recruiter.ID, a.CreatedBy)
	}
}
