package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/pkg/apperrors"
)

// IInviteTokenRepository defines the interface for invitation token operations
type IInviteTokenRepository interface {
	Create(ctx context.Context, token *models.InviteToken) (int64, error)
	GetByToken(ctx context.Context, token string) (*models.InviteToken, error)
	MarkUsed(ctx context.Context, token string) error
}

// InviteTokenRepository handles invitation token database operations
type InviteTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInviteTokenRepository creates a new InviteTokenRepository
func NewInviteTokenRepository(db *pgxpool.Pool) *InviteTokenRepository {
	return &InviteTokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new invitation token
func (r *InviteTokenRepository) Create(ctx context.Context, token *models.InviteToken) (int64, error) {
	sql, args, err := r.sb.Insert("invite_tokens").
		Columns("token", "assessment_id", "student_email", "used", "expires_at").
		Values(token.Token, token.AssessmentID, token.StudentEmail, false, token.ExpiresAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create invite query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating invite token: %w", err)
	}

	return id, nil
}

// GetByToken retrieves an invitation by its token value
func (r *InviteTokenRepository) GetByToken(ctx context.Context, token string) (*models.InviteToken, error) {
	sql, args, err := r.sb.Select("id", "token", "assessment_id", "student_email", "used", "expires_at", "created_at").
		From("invite_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get invite query: %w", err)
	}

	invite := &models.InviteToken{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&invite.ID, &invite.Token, &invite.AssessmentID, &invite.StudentEmail,
		&invite.Used, &invite.ExpiresAt, &invite.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("error retrieving invite token: %w", err)
	}

	return invite, nil
}

// MarkUsed marks an invitation token as consumed
func (r *InviteTokenRepository) MarkUsed(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("invite_tokens").
		Set("used", true).
		Where(squirrel.Eq{"token": token, "used": false}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark invite used query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking invite used: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteNotFound
	}

	return nil
}
