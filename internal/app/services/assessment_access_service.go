package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/cache"
)

// visibleAssessmentsKey is the cache key for a student's visible assessment
// ID set. Writers that change the set (new links, new assignments) delete it.
func visibleAssessmentsKey(studentID int64) string {
	return fmt.Sprintf("assesshub:visible:%d", studentID)
}

// AssessmentAccessService resolves which assessments a student can see
type AssessmentAccessService interface {
	VisibleAssessmentIDs(ctx context.Context, studentID int64) ([]int64, error)
	VisibleAssessments(ctx context.Context, studentID int64) (*dto.AssessmentListResponse, error)
}

type assessmentAccessServiceImpl struct {
	linkRepo       repositories.IRecruiterLinkRepository
	assessmentRepo repositories.IAssessmentRepository
	cache          *cache.Cache
	logger         zerolog.Logger
}

// NewAssessmentAccessService creates a new AssessmentAccessService
func NewAssessmentAccessService(
	linkRepo repositories.IRecruiterLinkRepository,
	assessmentRepo repositories.IAssessmentRepository,
	cacheClient *cache.Cache,
	logger zerolog.Logger,
) AssessmentAccessService {
	return &assessmentAccessServiceImpl{
		linkRepo:       linkRepo,
		assessmentRepo: assessmentRepo,
		cache:          cacheClient,
		logger:         logger,
	}
}

// VisibleAssessmentIDs computes the union of the student's direct assignments
// and every linked recruiter's owned assessments. The result is deduplicated
// and sorted so repeated calls over the same state produce identical output.
// Pure read; linked recruiters with no assessments contribute nothing.
func (s *assessmentAccessServiceImpl) VisibleAssessmentIDs(ctx context.Context, studentID int64) ([]int64, error) {
	key := visibleAssessmentsKey(studentID)
	if ids, err := s.cache.GetInt64Slice(ctx, key); err == nil {
		return ids, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Visibility cache read failed")
	}

	seen := make(map[int64]struct{})

	direct, err := s.assessmentRepo.GetAssignedIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading direct assignments: %w", err)
	}
	for _, id := range direct {
		seen[id] = struct{}{}
	}

	recruiterIDs, err := s.linkRepo.GetRecruiterIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading linked recruiters: %w", err)
	}
	for _, recruiterID := range recruiterIDs {
		owned, err := s.assessmentRepo.GetIDsByOwner(ctx, recruiterID)
		if err != nil {
			return nil, fmt.Errorf("error loading recruiter %d assessments: %w", recruiterID, err)
		}
		for _, id := range owned {
			seen[id] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if err := s.cache.SetInt64Slice(ctx, key, ids); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Visibility cache write failed")
	}

	return ids, nil
}

// VisibleAssessments resolves the visible ID set and loads the assessments
func (s *assessmentAccessServiceImpl) VisibleAssessments(ctx context.Context, studentID int64) (*dto.AssessmentListResponse, error) {
	ids, err := s.VisibleAssessmentIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	assessments, err := s.assessmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading visible assessments: %w", err)
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
