package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/selim/assesshub/internal/app/models"
	"github.com/selim/assesshub/internal/app/models/dto"
	"github.com/selim/assesshub/internal/app/repositories"
	"github.com/selim/assesshub/internal/pkg/apperrors"
	"github.com/selim/assesshub/internal/pkg/auth"
	"github.com/selim/assesshub/internal/pkg/codes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(users *fakeUserRepo, tokens *fakeTokenRepo) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop())
}

func registerRequest(email string, role models.RoleType) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     email,
		Password:  "password1",
		FirstName: "Test",
		LastName:  "User",
		RoleType:  role,
	}
}

func TestRegisterRecruiterReceivesCode(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	resp, err := svc.Register(context.Background(), registerRequest("rec@example.com", models.RoleRecruiter))
	require.NoError(t, err)
	require.NotNil(t, resp.User.RecruiterCode)
	assert.True(t, codes.IsWellFormed(*resp.User.RecruiterCode))
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
}

func TestRegisterAdminReceivesCode(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	resp, err := svc.Register(context.Background(), registerRequest("admin@example.com", models.RoleAdmin))
	require.NoError(t, err)
	require.NotNil(t, resp.User.RecruiterCode)
	assert.True(t, codes.IsWellFormed(*resp.User.RecruiterCode))
}

func TestRegisterStudentGetsNoCode(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	resp, err := svc.Register(context.Background(), registerRequest("stu@example.com", models.RoleStudent))
	require.NoError(t, err)
	assert.Nil(t, resp.User.RecruiterCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	_, err := svc.Register(context.Background(), registerRequest("dup@example.com", models.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest("dup@example.com", models.RoleStudent))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterRegeneratesOnInsertCollision(t *testing.T) {
	users := newFakeUserRepo()

	// Force the first two inserts to collide on the code constraint, as if a
	// concurrent registration won the code between generation and insert
	collisions := 2
	users.createHook = func(user *models.User) error {
		if user.RecruiterCode != nil && collisions > 0 {
			collisions--
			return duplicateError(repositories.RecruiterCodeConstraint)
		}
		return nil
	}

	svc := newTestAuthService(users, newFakeTokenRepo())
	resp, err := svc.Register(context.Background(), registerRequest("rec@example.com", models.RoleRecruiter))
	require.NoError(t, err)
	require.NotNil(t, resp.User.RecruiterCode)
	assert.Zero(t, collisions)
}

func TestRegisterCodeSpaceExhaustedFailsLoudly(t *testing.T) {
	users := newFakeUserRepo()
	users.createHook = func(user *models.User) error {
		if user.RecruiterCode != nil {
			return duplicateError(repositories.RecruiterCodeConstraint)
		}
		return nil
	}

	svc := newTestAuthService(users, newFakeTokenRepo())
	_, err := svc.Register(context.Background(), registerRequest("rec@example.com", models.RoleRecruiter))
	assert.ErrorIs(t, err, apperrors.ErrCodeSpaceExhausted)
}

func TestRegisterConcurrentRecruitersGetDistinctCodes(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	const n = 16
	responses := make([]*dto.AuthResponse, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := registerRequest(string(rune('a'+i))+"@example.com", models.RoleRecruiter)
			responses[i], errs[i] = svc.Register(context.Background(), req)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, responses[i].User.RecruiterCode)
		code := *responses[i].User.RecruiterCode
		assert.False(t, seen[code], "code %s issued twice", code)
		seen[code] = true
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	svc := newTestAuthService(users, tokens)

	_, err := svc.Register(context.Background(), registerRequest("login@example.com", models.RoleStudent))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked during rotation
	_, err = svc.RefreshToken(context.Background(), resp.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	_, err := svc.Register(context.Background(), registerRequest("login@example.com", models.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestGetProfileIncludesRecruiterCode(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, newFakeTokenRepo())

	resp, err := svc.Register(context.Background(), registerRequest("rec@example.com", models.RoleRecruiter))
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.RecruiterCode)
	assert.Equal(t, *resp.User.RecruiterCode, *profile.RecruiterCode)
}
