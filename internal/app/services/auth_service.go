package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/selim/assesshub/internal/pkg/auth"
	"github.com/selim/assesshub/internal/pkg/codes"
	"github.com/selim/assesshub/internal/pkg/dberrors"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// AuthService handles registration, authentication and profile operations
type AuthService struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
	generator *codes.Generator
	jwt       *auth.JWTService
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService. The code generator is built over
// the user repository so pre-insert existence checks and the insert itself
// consult the same table.
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		generator: codes.NewGenerator(codeStore{userRepo}),
		jwt:       jwtService,
		logger:    logger,
	}
}

// codeStore adapts the user repository to the generator's store interface
type codeStore struct {
	repo repositories.IUserRepository
}

func (s codeStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.RecruiterCodeExists(ctx, code)
}

func (s *AuthService) validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !emailRegex.MatchString(strings.ToLower(email)) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	return nil
}

func (s *AuthService) validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrValidationFailed)
	}
	return nil
}

// Register creates a new account. Recruiter-eligible roles receive a
// recruiter code in the same insert that creates the account row, so no
// account is ever observable without its code.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !req.RoleType.IsValid() {
		return nil, fmt.Errorf("%w: unknown role type %q", apperrors.ErrValidationFailed, req.RoleType)
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  req.RoleType,
		IsActive:  true,
	}

	userID, err := s.createUserWithCode(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// createUserWithCode inserts the user, generating a recruiter code first when
// the role calls for one. The unique constraint on the code column is the
// final arbiter: a constraint violation means another account won the code in
// the window between generation and insert, so generation restarts. Every
// other error aborts.
func (s *AuthService) createUserWithCode(ctx context.Context, user *models.User) (int64, error) {
	if !user.RoleType.EligibleForRecruiterCode() {
		return s.userRepo.CreateUser(ctx, user)
	}

	for attempt := 0; attempt < codes.MaxAttempts; attempt++ {
		code, err := s.generator.Generate(ctx)
		if err != nil {
			if errors.Is(err, codes.ErrSpaceExhausted) {
				s.logger.Error().Str("email", user.Email).Msg("Recruiter code generation exhausted its retry budget")
				return 0, apperrors.ErrCodeSpaceExhausted
			}
			return 0, fmt.Errorf("error generating recruiter code: %w", err)
		}

		user.RecruiterCode = &code
		userID, err := s.userRepo.CreateUser(ctx, user)
		if err == nil {
			return userID, nil
		}
		if dberrors.IsDuplicateConstraintError(err, repositories.RecruiterCodeConstraint) {
			s.logger.Warn().Str("code", code).Msg("Recruiter code collided on insert, regenerating")
			continue
		}
		return 0, err
	}

	s.logger.Error().Str("email", user.Email).Msg("Recruiter code insert retries exhausted")
	return 0, apperrors.ErrCodeSpaceExhausted
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// RefreshToken rotates a refresh token and issues a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	// Revoke before reissue so a stolen token cannot be replayed
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// GetProfile retrieves a user's profile, recruiter code included
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
