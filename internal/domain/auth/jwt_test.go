package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core/tenant"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser(tenant.White, "user@white.local", "hash")
	user.IsAdmin = true

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "white", uc.TenantID)
	assert.Equal(t, "user@white.local", uc.Email)
	assert.True(t, uc.IsAdmin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	signer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := signer.GenerateAccessToken(NewUser(tenant.Red, "user@red.local", "hash"))
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(NewUser(tenant.Red, "user@red.local", "hash"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
