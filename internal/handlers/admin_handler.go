package handlers

import (
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin-only directory routes.
type AdminHandler struct {
	users *services.UserService
}

func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers handles GET /users?page&limit&search&state&city.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	result, err := h.users.List(c.UserContext(), services.ListQuery{
		Page:   int64(c.QueryInt("page", 1)),
		Limit:  int64(c.QueryInt("limit", services.DefaultPageSize)),
		Search: c.Query("search"),
		State:  c.Query("state"),
		City:   c.Query("city"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DeleteUser handles DELETE /users/:id, removing the record and its image.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
