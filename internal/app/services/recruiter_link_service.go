package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/selim/assesshub/internal/pkg/cache"
	"github.com/selim/assesshub/internal/pkg/codes"
)

// RecruiterLinkService defines operations for validating recruiter codes and
// linking students to recruiters
type RecruiterLinkService interface {
	ValidateCode(ctx context.Context, code string) (*dto.CodeValidationResponse, error)
	Link(ctx context.Context, studentID int64, code string) (*dto.LinkResponse, error)
	GetRecruitersFor(ctx context.Context, studentID int64) ([]dto.RecruiterSummary, error)
}

type recruiterLinkServiceImpl struct {
	userRepo       repositories.IUserRepository
	linkRepo       repositories.IRecruiterLinkRepository
	assessmentRepo repositories.IAssessmentRepository
	cache          *cache.Cache
	logger         zerolog.Logger
}

// NewRecruiterLinkService creates a new RecruiterLinkService
func NewRecruiterLinkService(
	userRepo repositories.IUserRepository,
	linkRepo repositories.IRecruiterLinkRepository,
	assessmentRepo repositories.IAssessmentRepository,
	cacheClient *cache.Cache,
	logger zerolog.Logger,
) RecruiterLinkService {
	return &recruiterLinkServiceImpl{
		userRepo:       userRepo,
		linkRepo:       linkRepo,
		assessmentRepo: assessmentRepo,
		cache:          cacheClient,
		logger:         logger,
	}
}

// resolveRecruiter normalizes the code and finds the recruiter-eligible
// account holding it. Malformed codes, unknown codes and codes held by
// student accounts all come back as ErrInvalidRecruiterCode.
func (s *recruiterLinkServiceImpl) resolveRecruiter(ctx context.Context, rawCode string) (*models.User, error) {
	code := codes.Normalize(rawCode)
	if !codes.IsWellFormed(code) {
		return nil, apperrors.ErrInvalidRecruiterCode
	}

	holder, err := s.userRepo.GetUserByRecruiterCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidRecruiterCode
		}
		return nil, fmt.Errorf("error looking up recruiter code: %w", err)
	}

	if !holder.RoleType.EligibleForRecruiterCode() || !holder.IsActive {
		return nil, apperrors.ErrInvalidRecruiterCode
	}

	return holder, nil
}

// ValidateCode checks a code without creating any link. A bad code is a
// negative result, not an error.
func (s *recruiterLinkServiceImpl) ValidateCode(ctx context.Context, code string) (*dto.CodeValidationResponse, error) {
	recruiter, err := s.resolveRecruiter(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRecruiterCode) {
			return &dto.CodeValidationResponse{
				IsValid: false,
				Message: "Recruiter code is not valid",
			}, nil
		}
		return nil, err
	}

	return &dto.CodeValidationResponse{
		IsValid:       true,
		RecruiterID:   recruiter.ID,
		RecruiterName: recruiter.FullName(),
	}, nil
}

// Link establishes a student-recruiter association. Re-linking an existing
// pair succeeds and reports AlreadyLinked; the database constraint makes the
// operation safe under concurrent duplicate submissions.
func (s *recruiterLinkServiceImpl) Link(ctx context.Context, studentID int64, code string) (*dto.LinkResponse, error) {
	student, err := s.userRepo.GetUserByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrOnlyStudentsMayLink
	}

	recruiter, err := s.resolveRecruiter(ctx, code)
	if err != nil {
		return nil, err
	}

	if recruiter.ID == studentID {
		return nil, apperrors.ErrSelfLinkNotAllowed
	}

	created, err := s.linkRepo.Upsert(ctx, studentID, recruiter.ID)
	if err != nil {
		return nil, fmt.Errorf("error linking student to recruiter: %w", err)
	}

	if created {
		s.logger.Info().
			Int64("studentID", studentID).
			Int64("recruiterID", recruiter.ID).
			Msg("Student linked to recruiter")

		if err := s.cache.Invalidate(ctx, visibleAssessmentsKey(studentID)); err != nil {
			s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Failed to invalidate visibility cache")
		}
	}

	assessmentIDs, err := s.assessmentRepo.GetIDsByOwner(ctx, recruiter.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading recruiter assessments: %w", err)
	}

	return &dto.LinkResponse{
		RecruiterID:         recruiter.ID,
		RecruiterName:       recruiter.FullName(),
		AlreadyLinked:       !created,
		LinkedAssessmentIDs: assessmentIDs,
	}, nil
}

// GetRecruitersFor lists a student's linked recruiters in the order the links
// were created
func (s *recruiterLinkServiceImpl) GetRecruitersFor(ctx context.Context, studentID int64) ([]dto.RecruiterSummary, error) {
	links, err := s.linkRepo.GetLinksByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading recruiter links: %w", err)
	}

	summaries := make([]dto.RecruiterSummary, 0, len(links))
	for _, link := range links {
		summary := dto.RecruiterSummary{
			RecruiterID: link.RecruiterID,
			LinkedAt:    link.CreatedAt,
		}
		if link.Recruiter != nil {
			summary.RecruiterName = link.Recruiter.FullName()
			summary.Email = link.Recruiter.Email
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
