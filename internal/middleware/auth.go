package middleware

import (
	"strings"

	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth resolves the bearer API key to an account and stores it in
// Locals. Returns 401 with the standard error format when missing or
// invalid.
func RequireAuth(service *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		account, err := service.Authenticate(c.Context(), token)
		if err != nil {
			if err == auth.ErrInvalidAPIKey {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
		}
		c.Locals(auth.AccountLocal, account)
		return c.Next()
	}
}
