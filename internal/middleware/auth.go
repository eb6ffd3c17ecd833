package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/service"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

func AuthRequired(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return domain.Unauthorized("missing authorization header")
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return domain.Unauthorized("invalid or expired token")
		}

		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.Unauthorized("user not found")
		}

		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

// RequireGlobalRole gates a route on a minimum global role. Project-scoped
// decisions do not belong here; they go through the access resolver so the
// project-role and client fallbacks apply.
func RequireGlobalRole(min domain.GlobalRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return domain.Unauthorized("authentication required")
		}
		if !user.Role.AtLeast(min) {
			return domain.Forbidden("insufficient permissions for this operation")
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		// Browsers cannot set headers on websocket upgrades; allow the
		// token as a query parameter there.
		return c.Query("token")
	}
	return parts[1]
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
