package middleware

import (
	"go-pipeline/internal/models"
	"go-pipeline/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the session token and injects the claims into the
// request context
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// Extract token from "Bearer <token>"
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := authHeader[7:]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(utils.SessionClaimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin rejects the request unless the session belongs to an admin.
// Must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.SessionClaimsKey).(*utils.SessionClaims)
		if !ok || claims.Role != string(models.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// SessionFromCtx pulls the validated claims out of the request context.
func SessionFromCtx(c *fiber.Ctx) (*utils.SessionClaims, bool) {
	claims, ok := c.Locals(utils.SessionClaimsKey).(*utils.SessionClaims)
	return claims, ok
}
