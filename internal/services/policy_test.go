package services

import (
	"testing"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeSelfOrAdmin(t *testing.T) {
	user := models.Identity{UserID: "u1", Role: models.RoleUser}
	admin := models.Identity{UserID: "a1", Role: models.RoleAdmin}

	assert.NoError(t, AuthorizeSelfOrAdmin(user, "u1"))
	assert.ErrorIs(t, AuthorizeSelfOrAdmin(user, "u2"), ErrForbidden)
	assert.NoError(t, AuthorizeSelfOrAdmin(admin, "u2"))
	assert.ErrorIs(t, AuthorizeSelfOrAdmin(models.Identity{}, ""), ErrForbidden)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, VerifyPassword("secret1", hash))
	assert.False(t, VerifyPassword("secret2", hash))
}
