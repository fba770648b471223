package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("routine-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminEmail:        "admin@routine.local",
		AdminPasswordHash: string(hash),
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "routine-api",
	})
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: " Admin@Routine.local ", Password: "routine-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@routine.local", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "routine-api", claims.Issuer)
}

func TestAuthServiceLoginRejectsMalformedEmail(t *testing.T) {
	svc := newTestAuthService(t)

	for _, email := range []string{"   ", "not-an-email"} {
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: email, Password: "routine-pass"})
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	cases := []models.LoginRequest{
		{Email: "admin@routine.local", Password: "wrong"},
		{Email: "someone@routine.local", Password: "routine-pass"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	}
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceLoginWithoutConfiguredHash(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{AdminEmail: "admin@routine.local", AccessTokenSecret: "secret"})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@routine.local", Password: "anything"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejections(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateToken("garbage")
	require.Error(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@routine.local", Password: "routine-pass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err, "expired token must be rejected")

	other := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "different", Issuer: "routine-api"})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err, "token signed with another secret must be rejected")
}

func TestAuthServiceValidateTokenRequiresAdminRole(t *testing.T) {
	svc := newTestAuthService(t)

	claims := &models.JWTClaims{
		Email: "viewer@routine.local",
		Role:  "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "routine-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("routine-pass")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("routine-pass")))
}
