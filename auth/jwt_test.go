package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenProvider(t *testing.T) {
	provider := NewTokenProvider("test-secret")

	t.Run("Test_issue_and_verify_round_trip", func(t *testing.T) {
		token, err := provider.Issue("user-1")
		require.NoError(t, err)

		userId, err := provider.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userId)
	})

	t.Run("Test_wrong_secret_is_rejected", func(t *testing.T) {
		token, err := NewTokenProvider("other-secret").Issue("user-1")
		require.NoError(t, err)

		_, err = provider.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Test_garbage_token_is_rejected", func(t *testing.T) {
		_, err := provider.Verify("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Test_expired_token_is_rejected", func(t *testing.T) {
		claims := UserClaims{
			UserId: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = provider.Verify(expired)
		assert.Error(t, err)
	})

	t.Run("Test_unsigned_algorithm_is_rejected", func(t *testing.T) {
		claims := UserClaims{UserId: "user-1"}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = provider.Verify(unsigned)
		assert.Error(t, err)
	})

	t.Run("Test_token_without_user_id_is_rejected", func(t *testing.T) {
		empty, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = provider.Verify(empty)
		assert.Error(t, err)
	})
}
