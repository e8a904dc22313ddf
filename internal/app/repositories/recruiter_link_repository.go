package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selim/assesshub/internal/app/models"
)

// IRecruiterLinkRepository defines the interface for student-recruiter link operations
type IRecruiterLinkRepository interface {
	Upsert(ctx context.Context, studentID, recruiterID int64) (created bool, err error)
	GetLink(ctx context.Context, studentID, recruiterID int64) (*models.RecruiterLink, error)
	GetLinksByStudent(ctx context.Context, studentID int64) ([]*models.RecruiterLink, error)
	GetRecruiterIDsByStudent(ctx context.Context, studentID int64) ([]int64, error)
}

// RecruiterLinkRepository handles recruiter link database operations
type RecruiterLinkRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRecruiterLinkRepository creates a new RecruiterLinkRepository
func NewRecruiterLinkRepository(db *pgxpool.Pool) *RecruiterLinkRepository {
	return &RecruiterLinkRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the student-recruiter pair if absent. The unique constraint
// on (student_id, recruiter_id) absorbs concurrent duplicates; losing a race
// is reported as created=false, never as an error.
func (r *RecruiterLinkRepository) Upsert(ctx context.Context, studentID, recruiterID int64) (bool, error) {
	sql, args, err := r.sb.Insert("recruiter_links").
		Columns("student_id", "recruiter_id").
		Values(studentID, recruiterID).
		Suffix("ON CONFLICT (student_id, recruiter_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert link query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error upserting recruiter link: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetLink retrieves a single student-recruiter link
func (r *RecruiterLinkRepository) GetLink(ctx context.Context, studentID, recruiterID int64) (*models.RecruiterLink, error) {
	sql, args, err := r.sb.Select("id", "student_id", "recruiter_id", "created_at").
		From("recruiter_links").
		Where(squirrel.Eq{"student_id": studentID, "recruiter_id": recruiterID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get link query: %w", err)
	}

	link := &models.RecruiterLink{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&link.ID, &link.StudentID, &link.RecruiterID, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving recruiter link: %w", err)
	}

	return link, nil
}

// GetLinksByStudent retrieves a student's links with recruiter details,
// ordered by when each link was created
func (r *RecruiterLinkRepository) GetLinksByStudent(ctx context.Context, studentID int64) ([]*models.RecruiterLink, error) {
	sql, args, err := r.sb.Select(
		"rl.id", "rl.student_id", "rl.recruiter_id", "rl.created_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.recruiter_code").
		From("recruiter_links rl").
		Join("users u ON u.id = rl.recruiter_id").
		Where(squirrel.Eq{"rl.student_id": studentID}).
		OrderBy("rl.created_at ASC", "rl.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get links query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying recruiter links: %w", err)
	}
	defer rows.Close()

	var links []*models.RecruiterLink
	for rows.Next() {
		link := &models.RecruiterLink{Recruiter: &models.User{}}
		err := rows.Scan(
			&link.ID, &link.StudentID, &link.RecruiterID, &link.CreatedAt,
			&link.Recruiter.ID, &link.Recruiter.Email, &link.Recruiter.FirstName,
			&link.Recruiter.LastName, &link.Recruiter.RoleType, &link.Recruiter.RecruiterCode)
		if err != nil {
			return nil, fmt.Errorf("error scanning recruiter link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recruiter link rows: %w", err)
	}

	return links, nil
}

// GetRecruiterIDsByStudent retrieves just the recruiter IDs a student is linked to
func (r *RecruiterLinkRepository) GetRecruiterIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("recruiter_id").
		From("recruiter_links").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get recruiter IDs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying recruiter IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning recruiter ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recruiter ID rows: %w", err)
	}

	return ids, nil
}
