package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordPlaintext(t *testing.T) {
	assert.True(t, CheckPassword("hunter2", "hunter2"))
	assert.False(t, CheckPassword("hunter2", "other"))
	assert.False(t, CheckPassword("", "hunter2"))
}

func TestCheckPasswordBcrypt(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-session-secret")

	token, csrf, err := NewSessionToken(secret)
	require.NoError(t, err)
	require.NotEmpty(t, csrf)

	claims, err := ParseSessionToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, csrf, claims.CSRF)

	assert.True(t, VerifyCSRF(claims, csrf))
	assert.False(t, VerifyCSRF(claims, "forged"))
	assert.False(t, VerifyCSRF(claims, ""))

	_, err = ParseSessionToken([]byte("different-secret"), token)
	assert.Error(t, err)
}
