package auth

import (
	"bluecarbon-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// AccountLocal is the fiber Locals key the auth middleware stores the
// resolved account under.
const AccountLocal = "account"

// AccountFromCtx returns the authenticated account, or nil.
func AccountFromCtx(c *fiber.Ctx) *domain.Account {
	if account, ok := c.Locals(AccountLocal).(*domain.Account); ok {
		return account
	}
	return nil
}
