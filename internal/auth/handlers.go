package auth

import (
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Register creates an account and returns its one-time API key.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	registered, err := h.Service.Register(c.Context(), in)
	if err != nil {
		if err == ErrNameRequired {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Failed to register account", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Account registered. Store the API key now; it is not shown again.", registered, nil)
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *fiber.Ctx) error {
	account := AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	return response.Success(c, "Account fetched", account, nil)
}
