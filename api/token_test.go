package api

import (
	"testing"
	"time"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := signOwnerToken("test-secret", userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := parseOwnerToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestOwnerTokenRejection(t *testing.T) {
	userID := uuid.New()
	token, err := signOwnerToken("test-secret", userID)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := parseOwnerToken("other-secret", token)
		assert.True(t, errs.IsInvalidTokenError(err))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * tokenTTL)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-tokenTTL)),
		}
		stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = parseOwnerToken("test-secret", stale)
		assert.ErrorIs(t, err, errs.ErrExpiredToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := parseOwnerToken("test-secret", "not.a.token")
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := parseOwnerToken("test-secret", "")
		assert.Error(t, err)
	})
}
