package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/selim/assesshub/internal/app/models"
	appRepos "github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/config"
	"github.com/selim/assesshub/internal/pkg/auth"
	"github.com/selim/assesshub/internal/pkg/codes"
	"github.com/selim/assesshub/internal/pkg/dberrors"
)

// codeStore adapts the user repository to the generator's store interface.
type codeStore struct {
	users appRepos.IUserRepository
}

func (s codeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.users.RecruiterCodeExists(ctx, code)
}

// CreateDefaultData creates the default admin account if it does not exist.
// The admin is code-eligible, so it receives a recruiter code like any
// recruiter registered through the API.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("Seed admin credentials not configured, skipping default admin creation")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	generator := codes.NewGenerator(codeStore{userRepo})

	for attempt := 0; attempt < codes.MaxAttempts; attempt++ {
		code, err := generator.Generate(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Error generating admin recruiter code")
			return err
		}

		admin := &appModels.User{
			Email:         cfg.Seed.AdminEmail,
			Password:      hashedPassword,
			FirstName:     "System",
			LastName:      "Administrator",
			RoleType:      appModels.RoleAdmin,
			RecruiterCode: &code,
			IsActive:      true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		adminID, err := userRepo.CreateUser(ctx, admin)
		if err == nil {
			lgr.Info().Int64("adminID", adminID).Str("recruiterCode", code).Msg("Default admin user created successfully")
			return nil
		}
		// Another process won the code between check and insert
		if dberrors.IsDuplicateConstraintError(err, appRepos.RecruiterCodeConstraint) {
			continue
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	return errors.Join(codes.ErrSpaceExhausted, errors.New("could not create default admin user"))
}
