package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("Test_hash_verifies_against_original", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.NoError(t, ComparePassword(hash, "hunter2"))
	})

	t.Run("Test_wrong_password_is_rejected", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)
		assert.ErrorIs(t, ComparePassword(hash, "hunter3"), ErrPasswordMismatch)
	})

	t.Run("Test_same_password_hashes_differently", func(t *testing.T) {
		first, err := HashPassword("hunter2")
		require.NoError(t, err)
		second, err := HashPassword("hunter2")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Test_malformed_hash_errors_without_match", func(t *testing.T) {
		err := ComparePassword("not-a-phc-string", "hunter2")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}
