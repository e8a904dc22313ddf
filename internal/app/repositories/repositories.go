package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	RecruiterLinkRepository *RecruiterLinkRepository
	AssessmentRepository    *AssessmentRepository
	InviteTokenRepository   *InviteTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		RecruiterLinkRepository: NewRecruiterLinkRepository(db),
		AssessmentRepository:    NewAssessmentRepository(db),
		InviteTokenRepository:   NewInviteTokenRepository(db),
	}
}
