package admin

import (
	"errors"

	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers expose Owner-only ledger administration: role sets, ownership
// transfer and the pause switch. Authorization itself lives in the
// ledger; these handlers only parse and forward.
type Handlers struct {
	Ledger *ledger.Ledger
}

func (h *Handlers) caller(c *fiber.Ctx) (uuid.UUID, bool) {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return uuid.Nil, false
	}
	return account.AccountID, true
}

var (
	errAccountIDRequired = errors.New("account_id is required")
	errAccountIDInvalid  = errors.New("Invalid account_id format")
)

func parseAccountBody(c *fiber.Ctx) (uuid.UUID, error) {
	var body struct {
		AccountID string `json:"account_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.AccountID == "" {
		return uuid.Nil, errAccountIDRequired
	}
	account, err := uuid.Parse(body.AccountID)
	if err != nil {
		return uuid.Nil, errAccountIDInvalid
	}
	return account, nil
}

// POST /api/v1/admin/verifiers
func (h *Handlers) AddVerifier(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	account, err := parseAccountBody(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Ledger.AddVerifier(c.Context(), caller, account); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Verifier added", fiber.Map{"account_id": account, "is_verifier": true}, nil)
}

// DELETE /api/v1/admin/verifiers/:accountId
func (h *Handlers) RemoveVerifier(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	account, err := uuid.Parse(c.Params("accountId"))
	if err != nil {
		return response.Error(c, "Invalid account id", 400, nil)
	}
	if err := h.Ledger.RemoveVerifier(c.Context(), caller, account); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Verifier removed", fiber.Map{"account_id": account, "is_verifier": false}, nil)
}

// POST /api/v1/admin/reporters
func (h *Handlers) AddReporter(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	account, err := parseAccountBody(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Ledger.AddReporter(c.Context(), caller, account); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Reporter added", fiber.Map{"account_id": account, "is_reporter": true}, nil)
}

// DELETE /api/v1/admin/reporters/:accountId
func (h *Handlers) RemoveReporter(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	account, err := uuid.Parse(c.Params("accountId"))
	if err != nil {
		return response.Error(c, "Invalid account id", 400, nil)
	}
	if err := h.Ledger.RemoveReporter(c.Context(), caller, account); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Reporter removed", fiber.Map{"account_id": account, "is_reporter": false}, nil)
}

// POST /api/v1/admin/transfer-ownership
func (h *Handlers) TransferOwnership(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	account, err := parseAccountBody(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if err := h.Ledger.TransferOwnership(c.Context(), caller, account); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Ownership transferred", fiber.Map{"owner_id": account}, nil)
}

// POST /api/v1/admin/pause
func (h *Handlers) Pause(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Ledger.Pause(c.Context(), caller); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Ledger paused", fiber.Map{"paused": true}, nil)
}

// POST /api/v1/admin/unpause
func (h *Handlers) Unpause(c *fiber.Ctx) error {
	caller, ok := h.caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Ledger.Unpause(c.Context(), caller); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Ledger unpaused", fiber.Map{"paused": false}, nil)
}

// GET /api/v1/admin/status
func (h *Handlers) Status(c *fiber.Ctx) error {
	owner, err := h.Ledger.Owner()
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	paused, err := h.Ledger.Paused()
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	supply, err := h.Ledger.TotalSupply()
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Ledger status fetched successfully", fiber.Map{
		"owner_id":     owner,
		"paused":       paused,
		"total_supply": supply,
	}, nil)
}

// GET /api/v1/admin/roles/:accountId
func (h *Handlers) Roles(c *fiber.Ctx) error {
	account, err := uuid.Parse(c.Params("accountId"))
	if err != nil {
		return response.Error(c, "Invalid account id", 400, nil)
	}
	isVerifier, err := h.Ledger.IsVerifier(account)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	isReporter, err := h.Ledger.IsReporter(account)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Roles fetched successfully", fiber.Map{
		"account_id":  account,
		"is_verifier": isVerifier,
		"is_reporter": isReporter,
	}, nil)
}
