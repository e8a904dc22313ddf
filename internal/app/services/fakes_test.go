package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
)

// The fakes below enforce the same unique constraints the real schema does,
// constraint names included, so the services' collision handling paths run
// against them exactly as they would against postgres.

func duplicateError(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User

	// createHook runs inside CreateUser before uniqueness checks, letting
	// tests inject collisions at precise moments
	createHook func(user *models.User) error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createHook != nil {
		if err := f.createHook(user); err != nil {
			return 0, err
		}
	}

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if user.RecruiterCode != nil && existing.RecruiterCode != nil &&
			*existing.RecruiterCode == *user.RecruiterCode {
			return 0, duplicateError(repositories.RecruiterCodeConstraint)
		}
	}

	f.nextID++
	stored := *user
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.users[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeUserRepo) addUser(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	stored.IsActive = true
	f.users[stored.ID] = &stored
	return &stored
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByRecruiterCode(_ context.Context, code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.RecruiterCode != nil && *user.RecruiterCode == code {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) RecruiterCodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.RecruiterCode != nil && *user.RecruiterCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type tokenRecord struct {
	userID     int64
	expiryDate time.Time
	revoked    bool
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*tokenRecord
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*tokenRecord)}
}

var _ repositories.ITokenRepository = (*fakeTokenRepo)(nil)

func (f *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &tokenRecord{userID: userID, expiryDate: expiryDate}
	return nil
}

func (f *fakeTokenRepo) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if record.revoked {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if record.expiryDate.Before(time.Now()) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return record.userID, record.expiryDate, nil
}

func (f *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	record.revoked = true
	return nil
}

type linkPair struct {
	studentID   int64
	recruiterID int64
}

type fakeLinkRepo struct {
	mu     sync.Mutex
	nextID int64
	links  map[linkPair]*models.RecruiterLink
	order  []linkPair

	users *fakeUserRepo
}

func newFakeLinkRepo(users *fakeUserRepo) *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[linkPair]*models.RecruiterLink), users: users}
}

var _ repositories.IRecruiterLinkRepository = (*fakeLinkRepo)(nil)

func (f *fakeLinkRepo) Upsert(_ context.Context, studentID, recruiterID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair := linkPair{studentID, recruiterID}
	if _, ok := f.links[pair]; ok {
		return false, nil
	}
	f.nextID++
	f.links[pair] = &models.RecruiterLink{
		ID:          f.nextID,
		StudentID:   studentID,
		RecruiterID: recruiterID,
		CreatedAt:   time.Now(),
	}
	f.order = append(f.order, pair)
	return true, nil
}

func (f *fakeLinkRepo) GetLink(_ context.Context, studentID, recruiterID int64) (*models.RecruiterLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[linkPair{studentID, recruiterID}]
	if !ok {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (f *fakeLinkRepo) GetLinksByStudent(ctx context.Context, studentID int64) ([]*models.RecruiterLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var links []*models.RecruiterLink
	for _, pair := range f.order {
		if pair.studentID != studentID {
			continue
		}
		copied := *f.links[pair]
		if f.users != nil {
			if recruiter, ok := f.users.users[pair.recruiterID]; ok {
				recruiterCopy := *recruiter
				copied.Recruiter = &recruiterCopy
			}
		}
		links = append(links, &copied)
	}
	return links, nil
}

func (f *fakeLinkRepo) GetRecruiterIDsByStudent(_ context.Context, studentID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, pair := range f.order {
		if pair.studentID == studentID {
			ids = append(ids, pair.recruiterID)
		}
	}
	return ids, nil
}

func (f *fakeLinkRepo) linkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.links)
}

type assignmentPair struct {
	studentID    int64
	assessmentID int64
}

type fakeAssessmentRepo struct {
	mu          sync.Mutex
	nextID      int64
	assessments map[int64]*models.Assessment
	assignments map[assignmentPair]*models.StudentAssessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: make(map[int64]*models.Assessment),
		assignments: make(map[assignmentPair]*models.StudentAssessment),
	}
}

var _ repositories.IAssessmentRepository = (*fakeAssessmentRepo)(nil)

func (f *fakeAssessmentRepo) Create(_ context.Context, assessment *models.Assessment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *assessment
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.assessments[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeAssessmentRepo) GetByID(_ context.Context, id int64) (*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assessment, ok := f.assessments[id]
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}
	copied := *assessment
	return &copied, nil
}

func (f *fakeAssessmentRepo) GetByOwner(_ context.Context, ownerID int64) ([]*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Assessment
	for _, assessment := range f.assessments {
		if assessment.CreatedBy == ownerID {
			copied := *assessment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAssessmentRepo) GetIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, assessment := range f.assessments {
		if assessment.CreatedBy == ownerID {
			ids = append(ids, assessment.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeAssessmentRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Assessment
	for _, id := range ids {
		if assessment, ok := f.assessments[id]; ok {
			copied := *assessment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAssessmentRepo) AssignToStudent(_ context.Context, studentID, assessmentID int64, recruiterID *int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair := assignmentPair{studentID, assessmentID}
	if _, ok := f.assignments[pair]; ok {
		return false, nil
	}
	f.assignments[pair] = &models.StudentAssessment{
		StudentID:    studentID,
		AssessmentID: assessmentID,
		RecruiterID:  recruiterID,
		Status:       models.AssignmentPending,
		CreatedAt:    time.Now(),
	}
	return true, nil
}

func (f *fakeAssessmentRepo) GetAssignedIDsByStudent(_ context.Context, studentID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for pair := range f.assignments {
		if pair.studentID == studentID {
			ids = append(ids, pair.assessmentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeInviteRepo struct {
	mu      sync.Mutex
	nextID  int64
	invites map[string]*models.InviteToken
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*models.InviteToken)}
}

var _ repositories.IInviteTokenRepository = (*fakeInviteRepo)(nil)

func (f *fakeInviteRepo) Create(_ context.Context, token *models.InviteToken) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *token
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.invites[stored.Token] = &stored
	return stored.ID, nil
}

func (f *fakeInviteRepo) GetByToken(_ context.Context, token string) (*models.InviteToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[token]
	if !ok {
		return nil, apperrors.ErrInviteNotFound
	}
	copied := *invite
	return &copied, nil
}

func (f *fakeInviteRepo) MarkUsed(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[token]
	if !ok || invite.Used || time.Now().After(invite.ExpiresAt) {
		return apperrors.ErrInviteNotFound
	}
	invite.Used = true
	return nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmailSender) SendAssessmentInvite(toEmail, _, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail)
	return nil
}
