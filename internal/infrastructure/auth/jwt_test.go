package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		TokenExpiration: expiration,
		Issuer:          "pawnshop-backend",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "pawnshop-backend", claims.Issuer)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-signing-secret",
		TokenExpiration: time.Hour,
		Issuer:          "pawnshop-backend",
	})
	_, err = other.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestService(time.Hour)
	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCredentialVerifier(t *testing.T) {
	verifier := NewCredentialVerifier(config.AuthConfig{
		Username: "admin",
		Password: "secret",
	})

	assert.True(t, verifier.Verify("admin", "secret"))
	assert.False(t, verifier.Verify("admin", "wrong"))
	assert.False(t, verifier.Verify("other", "secret"))

	empty := NewCredentialVerifier(config.AuthConfig{})
	assert.False(t, empty.Verify("", ""))
}
