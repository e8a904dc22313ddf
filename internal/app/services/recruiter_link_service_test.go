package services

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type linkFixture struct {
	users       *fakeUserRepo
	links       *fakeLinkRepo
	assessments *fakeAssessmentRepo
	svc         RecruiterLinkService

	student   *models.User
	recruiter *models.User
}

func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()
	users := newFakeUserRepo()
	links := newFakeLinkRepo(users)
	assessments := newFakeAssessmentRepo()

	f := &linkFixture{
		users:       users,
		links:       links,
		assessments: assessments,
		svc:         NewRecruiterLinkService(users, links, assessments, nil, zerolog.Nop()),
	}

	f.student = users.addUser(&models.User{
		Email: "student@example.com", FirstName: "Sam", LastName: "Student",
		RoleType: models.RoleStudent,
	})
	f.recruiter = users.addUser(&models.User{
		Email: "recruiter@example.com", FirstName: "Rita", LastName: "Recruiter",
		RoleType: models.RoleRecruiter, RecruiterCode: strPtr("K7M2PQXT"),
	})
	return f
}

func TestValidateCodeKnownCode(t *testing.T) {
	f := newLinkFixture(t)

	resp, err := f.svc.ValidateCode(context.Background(), "K7M2PQXT")
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Equal(t, f.recruiter.ID, resp.RecruiterID)
	assert.Equal(t, "Rita Recruiter", resp.RecruiterName)
}

func TestValidateCodeNormalizesInput(t *testing.T) {
	f := newLinkFixture(t)

	resp, err := f.svc.ValidateCode(context.Background(), "  k7m2pqxt  ")
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Equal(t, f.recruiter.ID, resp.RecruiterID)
}

func TestValidateCodeUnknownIsNegativeNotError(t *testing.T) {
	f := newLinkFixture(t)

	resp, err := f.svc.ValidateCode(context.Background(), "ZZZZZZZZ")
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	assert.NotEmpty(t, resp.Message)
}

func TestValidateCodeMalformedIsNegativeNotError(t *testing.T) {
	f := newLinkFixture(t)

	for _, code := range []string{"", "SHORT", "K7M2PQX0", "TOOLONGCODE"} {
		resp, err := f.svc.ValidateCode(context.Background(), code)
		require.NoError(t, err, "code %q", code)
		assert.False(t, resp.IsValid, "code %q", code)
	}
}

func TestValidateCodeHasNoSideEffects(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.svc.ValidateCode(context.Background(), "K7M2PQXT")
	require.NoError(t, err)
	assert.Zero(t, f.links.linkCount())
}

func TestLinkCreatesAssociation(t *testing.T) {
	f := newLinkFixture(t)
	f.assessments.Create(context.Background(), &models.Assessment{Name: "Go Quiz", CreatedBy: f.recruiter.ID})

	resp, err := f.svc.Link(context.Background(), f.student.ID, "k7m2pqxt")
	require.NoError(t, err)
	assert.Equal(t, f.recruiter.ID, resp.RecruiterID)
	assert.False(t, resp.AlreadyLinked)
	assert.Len(t, resp.LinkedAssessmentIDs, 1)
	assert.Equal(t, 1, f.links.linkCount())
}

func TestLinkIsIdempotent(t *testing.T) {
	f := newLinkFixture(t)

	first, err := f.svc.Link(context.Background(), f.student.ID, "K7M2PQXT")
	require.NoError(t, err)
	assert.False(t, first.AlreadyLinked)

	second, err := f.svc.Link(context.Background(), f.student.ID, "K7M2PQXT")
	require.NoError(t, err)
	assert.True(t, second.AlreadyLinked)
	assert.Equal(t, first.RecruiterID, second.RecruiterID)
	assert.Equal(t, 1, f.links.linkCount())
}

func TestLinkRejectsInvalidCode(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.svc.Link(context.Background(), f.student.ID, "ZZZZZZZZ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRecruiterCode)
}

func TestLinkRejectsSelfLink(t *testing.T) {
	f := newLinkFixture(t)

	// A recruiter-role account presenting its own code is stopped by the
	// student-role precondition first; the self-link guard covers the case
	// where a student account somehow holds a code
	f.users.mu.Lock()
	f.users.users[f.student.ID].RecruiterCode = strPtr("AAAABBBB")
	f.users.mu.Unlock()

	_, err := f.svc.Link(context.Background(), f.student.ID, "AAAABBBB")
	assert.ErrorIs(t, err, apperrors.ErrSelfLinkNotAllowed)
}

func TestLinkRejectsNonStudentCaller(t *testing.T) {
	f := newLinkFixture(t)
	other := f.users.addUser(&models.User{
		Email: "other@example.com", FirstName: "Oz", LastName: "Other",
		RoleType: models.RoleRecruiter, RecruiterCode: strPtr("CCCCDDDD"),
	})

	_, err := f.svc.Link(context.Background(), other.ID, "K7M2PQXT")
	assert.ErrorIs(t, err, apperrors.ErrOnlyStudentsMayLink)
}

func TestLinkConcurrentDuplicatesProduceOneRow(t *testing.T) {
	f := newLinkFixture(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Link(context.Background(), f.student.ID, "K7M2PQXT")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, 1, f.links.linkCount())
}

func TestGetRecruitersForOrderedByLinkCreation(t *testing.T) {
	f := newLinkFixture(t)
	second := f.users.addUser(&models.User{
		Email: "second@example.com", FirstName: "Sue", LastName: "Second",
		RoleType: models.RoleRecruiter, RecruiterCode: strPtr("EEEEFFFF"),
	})

	_, err := f.svc.Link(context.Background(), f.student.ID, "K7M2PQXT")
	require.NoError(t, err)
	_, err = f.svc.Link(context.Background(), f.student.ID, "EEEEFFFF")
	require.NoError(t, err)

	recruiters, err := f.svc.GetRecruitersFor(context.Background(), f.student.ID)
	require.NoError(t, err)
	require.Len(t, recruiters, 2)
	assert.Equal(t, f.recruiter.ID, recruiters[0].RecruiterID)
	assert.Equal(t, second.ID, recruiters[1].RecruiterID)
	assert.Equal(t, "Rita Recruiter", recruiters[0].RecruiterName)
}

func TestGetRecruitersForEmpty(t *testing.T) {
	f := newLinkFixture(t)

	recruiters, err := f.svc.GetRecruitersFor(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Empty(t, recruiters)
}
