package services

import "github.com/arzan03/UserDirectory/internal/models"

// AuthorizeSelfOrAdmin allows actor to act on targetID when it is their own
// record or they hold the admin role.
func AuthorizeSelfOrAdmin(actor models.Identity, targetID string) error {
	if actor.IsAdmin() || (actor.UserID != "" && actor.UserID == targetID) {
		return nil
	}
	return ErrForbidden
}
