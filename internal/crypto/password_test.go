package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltLength)

	for _, r := range salt {
		assert.Contains(t, alphanumeric, string(r))
	}

	other, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)
}

func TestHashPasswordDeterministic(t *testing.T) {
	digest := HashPassword("secret", "salt123")
	assert.Equal(t, digest, HashPassword("secret", "salt123"))
	assert.Len(t, digest, 64) // hex sha256

	assert.NotEqual(t, digest, HashPassword("secret", "salt124"))
	assert.NotEqual(t, digest, HashPassword("Secret", "salt123"))
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	digest := HashPassword("secret", salt)

	assert.True(t, VerifyPassword(digest, "secret", salt))
	assert.False(t, VerifyPassword(digest, "wrong", salt))
	assert.False(t, VerifyPassword(digest, "secret", "othersalt"))
	assert.False(t, VerifyPassword("", "secret", salt))
}

func TestNewRefreshTokenUnlinkable(t *testing.T) {
	// Same account, two issuances: tokens must not repeat or be relatable.
	first, err := NewRefreshToken(42)
	require.NoError(t, err)
	second, err := NewRefreshToken(42)
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}
