package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces a verifiable hash", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)
		require.NotEqual(t, "s3cret", hash)
		require.True(t, CheckPassword(hash, "s3cret"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := HashPassword("s3cret")
		require.NoError(t, err)
		h2, err := HashPassword("s3cret")
		require.NoError(t, err)
		require.NotEqual(t, h1, h2)
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("rejects wrong password", func(t *testing.T) {
		require.False(t, CheckPassword(hash, "correct horsf"))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		require.False(t, CheckPassword(hash, ""))
	})

	t.Run("rejects garbage hash", func(t *testing.T) {
		require.False(t, CheckPassword("not-a-bcrypt-hash", "correct horse"))
	})
}
