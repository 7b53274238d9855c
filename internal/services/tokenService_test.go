package services

import (
	"testing"
	"time"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService_IssuePair(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), access.UserID)
	assert.Equal(t, user.ID.Hex(), access.Subject)
	assert.Equal(t, models.RoleAdmin, access.Role)
	assert.NotEmpty(t, access.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), access.ExpiresAt.Time, 5*time.Second)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), refresh.UserID)
	assert.Empty(t, refresh.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refresh.ExpiresAt.Time, 5*time.Second)

	again, err := svc.IssuePair(user)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, again.RefreshToken)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, time.Hour)
	pair, err := svc.IssuePair(&models.User{ID: primitive.NewObjectID(), Role: models.RoleUser})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)

	// Same secret for both kinds still separates them by type.
	shared := NewTokenService("same", "same", time.Hour, time.Hour)
	refresh, err := shared.GenerateRefreshToken("abc")
	require.NoError(t, err)
	_, err = shared.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := svc.GenerateAccessToken("abc", models.RoleUser)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(access)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other", "other-refresh", time.Hour, time.Hour)
		token, err := other.GenerateAccessToken("abc", models.RoleUser)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID: "abc",
			Role:   models.RoleAdmin,
			Type:   accessTokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "abc", Role: models.RoleUser, Type: accessTokenType})
		signed, err := token.SignedString([]byte("access-secret"))
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(signed)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("abc", models.Role("root"))
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}
