package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	uid, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, 60)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, -1)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.jwt")
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken(60)
	require.NoError(t, err)
	b, err := NewResetToken(60)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 40)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.False(t, a.Exp.IsZero())
}

func TestHashResetRaw(t *testing.T) {
	h := HashResetRaw("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashResetRaw("abc"))
	assert.NotEqual(t, h, HashResetRaw("abd"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
