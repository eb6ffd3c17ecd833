package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}
	if input.Name == "" || input.Email == "" {
		return domain.Validation("name and email are required")
	}
	if len(input.Password) < 6 {
		return domain.Validation("password must be at least 6 characters")
	}

	user, tokens, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	userAgent := c.Get("User-Agent")
	ipAddress := c.IP()

	user, tokens, err := h.authService.Login(c.Context(), input, &userAgent, &ipAddress)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return domain.Validation("refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), body.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return domain.Validation("refresh_token is required")
	}

	if err := h.authService.Logout(c.Context(), body.RefreshToken); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}
	return c.JSON(user)
}
