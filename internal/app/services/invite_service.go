package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/selim/assesshub/internal/pkg/cache"
	"github.com/selim/assesshub/internal/pkg/email"
)

// InviteService defines operations for emailed assessment invitations
type InviteService interface {
	Send(ctx context.Context, recruiterID int64, req *dto.SendInviteRequest) (*dto.InviteResponse, error)
	Status(ctx context.Context, token string) (*dto.InviteStatusResponse, error)
	Accept(ctx context.Context, studentID int64, token string) (*dto.AcceptInviteResponse, error)
}

type inviteServiceImpl struct {
	userRepo       repositories.IUserRepository
	assessmentRepo repositories.IAssessmentRepository
	linkRepo       repositories.IRecruiterLinkRepository
	inviteRepo     repositories.IInviteTokenRepository
	emailService   email.EmailService
	cache          *cache.Cache
	expiration     time.Duration
	logger         zerolog.Logger
}

// NewInviteService creates a new InviteService
func NewInviteService(
	userRepo repositories.IUserRepository,
	assessmentRepo repositories.IAssessmentRepository,
	linkRepo repositories.IRecruiterLinkRepository,
	inviteRepo repositories.IInviteTokenRepository,
	emailService email.EmailService,
	cacheClient *cache.Cache,
	expirationDays int,
	logger zerolog.Logger,
) InviteService {
	if expirationDays <= 0 {
		expirationDays = 7
	}
	return &inviteServiceImpl{
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
		linkRepo:       linkRepo,
		inviteRepo:     inviteRepo,
		emailService:   emailService,
		cache:          cacheClient,
		expiration:     time.Duration(expirationDays) * 24 * time.Hour,
		logger:         logger,
	}
}

// Send creates an invitation token for one of the caller's assessments and
// emails it to the student
func (s *inviteServiceImpl) Send(ctx context.Context, recruiterID int64, req *dto.SendInviteRequest) (*dto.InviteResponse, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.CreatedBy != recruiterID {
		return nil, apperrors.ErrNotAssessmentOwner
	}

	recruiter, err := s.userRepo.GetUserByID(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if recruiter.RecruiterCode == nil {
		// Recruiter-eligible accounts always receive a code at creation
		return nil, apperrors.ErrRecruiterCodeMissing
	}

	invite := &models.InviteToken{
		Token:        uuid.New().String(),
		AssessmentID: assessment.ID,
		StudentEmail: strings.ToLower(strings.TrimSpace(req.StudentEmail)),
		ExpiresAt:    time.Now().Add(s.expiration),
	}

	if _, err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}

	if err := s.emailService.SendAssessmentInvite(
		invite.StudentEmail, assessment.Name, recruiter.FullName(),
		*recruiter.RecruiterCode, invite.Token,
	); err != nil {
		// The invitation row stays valid; delivery can be retried manually
		s.logger.Error().Err(err).Str("email", invite.StudentEmail).Msg("Failed to send invitation email")
	}

	s.logger.Info().
		Int64("assessmentID", assessment.ID).
		Str("email", invite.StudentEmail).
		Msg("Invitation created")

	return &dto.InviteResponse{
		Token:        invite.Token,
		AssessmentID: invite.AssessmentID,
		StudentEmail: invite.StudentEmail,
		ExpiresAt:    invite.ExpiresAt,
	}, nil
}

// Status checks a token without consuming it. Unknown, used and expired
// tokens all come back as negative results, not errors.
func (s *inviteServiceImpl) Status(ctx context.Context, token string) (*dto.InviteStatusResponse, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrInviteNotFound) {
			return &dto.InviteStatusResponse{IsValid: false, Message: "Invitation not found"}, nil
		}
		return nil, err
	}

	if invite.Used {
		return &dto.InviteStatusResponse{IsValid: false, Message: "Invitation has already been used"}, nil
	}
	if invite.IsExpired() {
		return &dto.InviteStatusResponse{IsValid: false, Message: "Invitation has expired"}, nil
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, invite.AssessmentID)
	if err != nil {
		return nil, err
	}

	return &dto.InviteStatusResponse{
		IsValid:        true,
		AssessmentID:   assessment.ID,
		AssessmentName: assessment.Name,
	}, nil
}

// Accept consumes an invitation: the assessment is assigned to the accepting
// student and the student is linked to the inviting recruiter. Both writes
// are idempotent, so accepting after an earlier manual link or assignment
// still succeeds.
func (s *inviteServiceImpl) Accept(ctx context.Context, studentID int64, token string) (*dto.AcceptInviteResponse, error) {
	student, err := s.userRepo.GetUserByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrOnlyStudentsMayLink
	}

	invite, err := s.inviteRepo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if invite.Used {
		return nil, apperrors.ErrInviteUsed
	}
	if invite.IsExpired() {
		return nil, apperrors.ErrInviteExpired
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, invite.AssessmentID)
	if err != nil {
		return nil, err
	}

	recruiter, err := s.userRepo.GetUserByID(ctx, assessment.CreatedBy)
	if err != nil {
		return nil, err
	}

	if _, err := s.assessmentRepo.AssignToStudent(ctx, studentID, assessment.ID, &recruiter.ID); err != nil {
		return nil, fmt.Errorf("error assigning invited assessment: %w", err)
	}

	linked := false
	if recruiter.ID != studentID {
		created, err := s.linkRepo.Upsert(ctx, studentID, recruiter.ID)
		if err != nil {
			return nil, fmt.Errorf("error linking invited student: %w", err)
		}
		linked = created
	}

	if err := s.inviteRepo.MarkUsed(ctx, invite.Token); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, visibleAssessmentsKey(studentID)); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Failed to invalidate visibility cache")
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("assessmentID", assessment.ID).
		Msg("Invitation accepted")

	return &dto.AcceptInviteResponse{
		AssessmentID:  assessment.ID,
		RecruiterID:   recruiter.ID,
		RecruiterName: recruiter.FullName(),
		Linked:        linked,
	}, nil
}
