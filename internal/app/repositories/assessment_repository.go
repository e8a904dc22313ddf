package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/pkg/apperrors"
)

// IAssessmentRepository defines the interface for assessment database operations
type IAssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Assessment, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Assessment, error)
	GetIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Assessment, error)
	AssignToStudent(ctx context.Context, studentID, assessmentID int64, recruiterID *int64) (created bool, err error)
	GetAssignedIDsByStudent(ctx context.Context, studentID int64) ([]int64, error)
}

// AssessmentRepository handles assessment database operations
type AssessmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var assessmentColumns = []string{
	"id", "name", "description", "duration_minutes", "created_by", "created_at", "updated_at",
}

func scanAssessment(row pgx.Row) (*models.Assessment, error) {
	a := &models.Assessment{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.DurationMinutes,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new assessment
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) (int64, error) {
	sql, args, err := r.sb.Insert("assessments").
		Columns("name", "description", "duration_minutes", "created_by").
		Values(assessment.Name, assessment.Description, assessment.DurationMinutes, assessment.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create assessment query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating assessment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id int64) (*models.Assessment, error) {
	sql, args, err := r.sb.Select(assessmentColumns...).
		From("assessments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assessment query: %w", err)
	}

	assessment, err := scanAssessment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assessment: %w", err)
	}

	return assessment, nil
}

// GetByOwner retrieves all assessments created by a recruiter
func (r *AssessmentRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Assessment, error) {
	sql, args, err := r.sb.Select(assessmentColumns...).
		From("assessments").
		Where(squirrel.Eq{"created_by": ownerID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assessments by owner query: %w", err)
	}

	return r.queryAssessments(ctx, sql, args)
}

// GetIDsByOwner retrieves the IDs of a recruiter's assessments
func (r *AssessmentRepository) GetIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("id").
		From("assessments").
		Where(squirrel.Eq{"created_by": ownerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assessment IDs query: %w", err)
	}

	return r.queryIDs(ctx, sql, args)
}

// GetByIDs retrieves assessments for a set of IDs
func (r *AssessmentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Assessment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := r.sb.Select(assessmentColumns...).
		From("assessments").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assessments by IDs query: %w", err)
	}

	return r.queryAssessments(ctx, sql, args)
}

// AssignToStudent records a direct assignment. The unique constraint on
// (student_id, assessment_id) absorbs duplicates; re-assigning is reported
// as created=false, never as an error.
func (r *AssessmentRepository) AssignToStudent(ctx context.Context, studentID, assessmentID int64, recruiterID *int64) (bool, error) {
	sql, args, err := r.sb.Insert("student_assessments").
		Columns("student_id", "assessment_id", "recruiter_id", "status").
		Values(studentID, assessmentID, recruiterID, models.AssignmentPending).
		Suffix("ON CONFLICT (student_id, assessment_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build assign assessment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error assigning assessment: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetAssignedIDsByStudent retrieves assessment IDs directly assigned to a student
func (r *AssessmentRepository) GetAssignedIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("assessment_id").
		From("student_assessments").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("assessment_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assigned IDs query: %w", err)
	}

	return r.queryIDs(ctx, sql, args)
}

func (r *AssessmentRepository) queryAssessments(ctx context.Context, sql string, args []interface{}) ([]*models.Assessment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning assessment row: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment rows: %w", err)
	}

	return assessments, nil
}

func (r *AssessmentRepository) queryIDs(ctx context.Context, sql string, args []interface{}) ([]int64, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ID rows: %w", err)
	}

	return ids, nil
}
