package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/selim/assesshub/internal/pkg/cache"
)

// AssessmentService defines operations for creating and assigning assessments
type AssessmentService interface {
	Create(ctx context.Context, ownerID int64, req *dto.CreateAssessmentRequest) (*dto.AssessmentResponse, error)
	GetMine(ctx context.Context, ownerID int64) (*dto.AssessmentListResponse, error)
	Assign(ctx context.Context, recruiterID, assessmentID, studentID int64) (alreadyAssigned bool, err error)
}

type assessmentServiceImpl struct {
	userRepo       repositories.IUserRepository
	assessmentRepo repositories.IAssessmentRepository
	cache          *cache.Cache
	logger         zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(
	userRepo repositories.IUserRepository,
	assessmentRepo repositories.IAssessmentRepository,
	cacheClient *cache.Cache,
	logger zerolog.Logger,
) AssessmentService {
	return &assessmentServiceImpl{
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
		cache:          cacheClient,
		logger:         logger,
	}
}

// Create registers a new assessment owned by the calling recruiter
func (s *assessmentServiceImpl) Create(ctx context.Context, ownerID int64, req *dto.CreateAssessmentRequest) (*dto.AssessmentResponse, error) {
	assessment := &models.Assessment{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       ownerID,
	}

	id, err := s.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		return nil, err
	}

	created, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reloading created assessment: %w", err)
	}

	s.logger.Info().Int64("assessmentID", id).Int64("ownerID", ownerID).Msg("Assessment created")

	resp := dto.NewAssessmentResponse(created)
	return &resp, nil
}

// GetMine lists the caller's own assessments
func (s *assessmentServiceImpl) GetMine(ctx context.Context, ownerID int64) (*dto.AssessmentListResponse, error) {
	assessments, err := s.assessmentRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AssessmentListResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(assessments)),
		Total:       len(assessments),
	}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.NewAssessmentResponse(a))
	}

	return resp, nil
}

// Assign directly assigns one of the caller's assessments to a student.
// Re-assigning the same pair is reported as alreadyAssigned, not an error.
func (s *assessmentServiceImpl) Assign(ctx context.Context, recruiterID, assessmentID, studentID int64) (bool, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return false, err
	}
	if assessment.CreatedBy != recruiterID {
		return false, apperrors.ErrNotAssessmentOwner
	}

	student, err := s.userRepo.GetUserByID(ctx, studentID)
	if err != nil {
		return false, err
	}
	if student.RoleType != models.RoleStudent {
		return false, fmt.Errorf("%w: assessments can only be assigned to students", apperrors.ErrValidationFailed)
	}

	created, err := s.assessmentRepo.AssignToStudent(ctx, studentID, assessmentID, &recruiterID)
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info().
			Int64("assessmentID", assessmentID).
			Int64("studentID", studentID).
			Int64("recruiterID", recruiterID).
			Msg("Assessment assigned to student")

		if err := s.cache.Invalidate(ctx, visibleAssessmentsKey(studentID)); err != nil {
			s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Failed to invalidate visibility cache")
		}
	}

	return !created, nil
}
