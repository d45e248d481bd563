package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 30*time.Second)

	token, expiresAt, err := svc.GenerateAccessToken("0192a000-0000-7000-8000-000000000002", user.RoleManager)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	principal, err := auth.PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "0192a000-0000-7000-8000-000000000002", principal.UserID)
	assert.Equal(t, user.RoleManager, principal.Role)
}

func TestGenerateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Second)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken("u1", user.RoleEmployee)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(svc.JWTAuth(), token)
	assert.Error(t, err)
}

func TestGenerateAccessToken_WrongSecret(t *testing.T) {
	minter := NewJWTService("secret-a", time.Hour, 0)
	verifier := NewJWTService("secret-b", time.Hour, 0)

	token, _, err := minter.GenerateAccessToken("u1", user.RoleAdmin)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), token)
	assert.Error(t, err)
}

func TestGenerateAccessToken_RejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 0)
	_, _, err := svc.GenerateAccessToken("u1", user.Role("owner"))
	assert.Error(t, err)
}
