package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/utils"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthService) {
	t.Helper()
	env := newTestEnv(t)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(env.users, env.businesses, jwtManager, nil)
	return env, svc
}

func TestRegisterAndLogin(t *testing.T) {
	env, svc := newAuthEnv(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{
		BusinessID: env.business.ID,
		FirstName:  "Dana",
		LastName:   "Kim",
		Email:      "dana@example.com",
		Password:   "till-drawer-42",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleCashier, user.Role)
	assert.NotEqual(t, "till-drawer-42", user.Password)

	out, err := svc.Login(ctx, &LoginInput{Email: "dana@example.com", Password: "till-drawer-42"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, user.ID, out.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env, svc := newAuthEnv(t)
	ctx := context.Background()

	input := &RegisterInput{
		BusinessID: env.business.ID,
		FirstName:  "Dana",
		LastName:   "Kim",
		Email:      "dana@example.com",
		Password:   "till-drawer-42",
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestRefreshToken(t *testing.T) {
	env, svc := newAuthEnv(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{
		BusinessID: env.business.ID,
		FirstName:  "Dana",
		LastName:   "Kim",
		Email:      "dana@example.com",
		Password:   "till-drawer-42",
	})
	require.NoError(t, err)

	out, err := svc.Login(ctx, &LoginInput{Email: "dana@example.com", Password: "till-drawer-42"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAccessTokenCarriesClaims(t *testing.T) {
	env, svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{
		BusinessID: env.business.ID,
		FirstName:  "Dana",
		LastName:   "Kim",
		Email:      "dana@example.com",
		Password:   "till-drawer-42",
		Role:       enum.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := svc.Login(ctx, &LoginInput{Email: "dana@example.com", Password: "till-drawer-42"})
	require.NoError(t, err)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, env.business.ID, claims.BusinessID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}
