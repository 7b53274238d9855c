package handlers

import (
	"encoding/json"
	"strings"

	"github.com/arzan03/UserDirectory/internal/middleware"
	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Empty values mean "leave unchanged", so every rule is omitempty.
type updateRequest struct {
	Name     string `form:"name" json:"name" validate:"omitempty,min=3,alphaspace"`
	Email    string `form:"email" json:"email" validate:"omitempty,email"`
	Phone    string `form:"phone" json:"phone" validate:"omitempty,digits,min=10,max=15"`
	Password string `form:"password" json:"password" validate:"omitempty,min=6,containsany=0123456789"`
	Address  string `form:"address" json:"address" validate:"max=150"`
	State    string `form:"state" json:"state"`
	City     string `form:"city" json:"city"`
	Country  string `form:"country" json:"country"`
	Pincode  string `form:"pincode" json:"pincode" validate:"omitempty,digits,min=4,max=10"`
	Role     string `form:"role" json:"role" validate:"omitempty,oneof=user admin"`
}

// GetUser handles GET /users/:id for the user themselves or an admin.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return services.ErrUnauthorized
	}

	user, err := h.users.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /users/:id. Address is the one field where an
// empty value is applied rather than ignored.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return services.ErrUnauthorized
	}

	var req updateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	trimSpaces(&req.Name, &req.Email, &req.Phone, &req.Address, &req.State, &req.City, &req.Country, &req.Pincode, &req.Role)
	if err := validateRequest(&req); err != nil {
		return err
	}

	image, err := profileImage(c)
	if err != nil {
		return err
	}

	in := services.UpdateInput{
		Name:     optional(req.Name),
		Email:    optional(req.Email),
		Phone:    optional(req.Phone),
		Password: optional(req.Password),
		State:    optional(req.State),
		City:     optional(req.City),
		Country:  optional(req.Country),
		Pincode:  optional(req.Pincode),
	}
	if fieldPresent(c, "address") {
		in.Address = &req.Address
	}
	if req.Role != "" {
		role := models.Role(req.Role)
		in.Role = &role
	}

	user, err := h.users.Update(c.UserContext(), identity, c.Params("id"), in, image)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// fieldPresent reports whether the request body carries name at all, even
// with an empty value.
func fieldPresent(c *fiber.Ctx, name string) bool {
	ctype := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ctype, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return false
		}
		_, ok := form.Value[name]
		return ok
	case strings.HasPrefix(ctype, fiber.MIMEApplicationForm):
		return c.Request().PostArgs().Has(name)
	case strings.HasPrefix(ctype, fiber.MIMEApplicationJSON):
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &fields); err != nil {
			return false
		}
		_, ok := fields[name]
		return ok
	}
	return false
}
