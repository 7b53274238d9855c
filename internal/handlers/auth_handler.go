package handlers

import (
	"github.com/arzan03/UserDirectory/internal/middleware"
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name     string `form:"name" json:"name" validate:"min=3,alphaspace"`
	Email    string `form:"email" json:"email" validate:"email"`
	Phone    string `form:"phone" json:"phone" validate:"digits,min=10,max=15"`
	Password string `form:"password" json:"password" validate:"min=6,containsany=0123456789"`
	Address  string `form:"address" json:"address" validate:"max=150"`
	State    string `form:"state" json:"state" validate:"required"`
	City     string `form:"city" json:"city" validate:"required"`
	Country  string `form:"country" json:"country" validate:"required"`
	Pincode  string `form:"pincode" json:"pincode" validate:"digits,min=4,max=10"`
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// Register handles POST /auth/register (multipart, optional profile_image).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	trimSpaces(&req.Name, &req.Email, &req.Phone, &req.Address, &req.State, &req.City, &req.Country, &req.Pincode)
	if err := validateRequest(&req); err != nil {
		return err
	}

	image, err := profileImage(c)
	if err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
		State:    req.State,
		City:     req.City,
		Country:  req.Country,
		Pincode:  req.Pincode,
	}, image)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "User registered",
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// Login handles POST /auth/login with an email or phone identifier.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	trimSpaces(&req.Identifier)
	if err := validateRequest(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

// Logout revokes the caller's refresh token. Access tokens stay valid until
// they expire.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return services.ErrUnauthorized
	}
	if err := h.auth.Logout(c.UserContext(), identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
