package response

import (
	"bluecarbon-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

// LedgerError maps a classified ledger rejection to the standard error
// format: validation 400, authorization 403, state-conflict 409,
// invariant 422, anything else 500.
func LedgerError(c *fiber.Ctx, err error) error {
	kind := ledger.KindOf(err)
	status := fiber.StatusInternalServerError
	message := "Internal Server Error"
	switch kind {
	case ledger.KindValidation:
		status = fiber.StatusBadRequest
		message = err.Error()
	case ledger.KindAuthorization:
		status = fiber.StatusForbidden
		message = err.Error()
	case ledger.KindStateConflict:
		status = fiber.StatusConflict
		message = err.Error()
	case ledger.KindInvariant:
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	}
	return Error(c, message, status, map[string]interface{}{"kind": kind.String()})
}
