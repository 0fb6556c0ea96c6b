package credits

import (
	"strconv"

	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Ledger *ledger.Ledger
}

// POST /api/v1/credits/mint
func (h *Handlers) Mint(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ProjectID string `json:"project_id"`
		Recipient string `json:"recipient"`
		Amount    int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	recipient, err := uuid.Parse(body.Recipient)
	if err != nil {
		return response.Error(c, "Invalid recipient account", 400, nil)
	}
	batch, err := h.Ledger.MintCredits(c.Context(), account.AccountID, body.ProjectID, recipient, body.Amount)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Credits minted successfully", batch, nil)
}

// POST /api/v1/credits/retire
func (h *Handlers) Retire(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		BatchID uint64 `json:"batch_id"`
		Amount  int64  `json:"amount"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if err := h.Ledger.RetireCredits(c.Context(), account.AccountID, body.BatchID, body.Amount, body.Reason); err != nil {
		return response.LedgerError(c, err)
	}
	batch, err := h.Ledger.GetCreditBatch(body.BatchID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Credits retired successfully", batch, nil)
}

// POST /api/v1/credits/transfer
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	to, err := uuid.Parse(body.To)
	if err != nil {
		return response.Error(c, "Invalid recipient account", 400, nil)
	}
	if err := h.Ledger.Transfer(c.Context(), account.AccountID, to, body.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	balance, err := h.Ledger.BalanceOf(account.AccountID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Credits transferred successfully", fiber.Map{"balance": balance}, nil)
}

// POST /api/v1/credits/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Spender string `json:"spender"`
		Amount  int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	spender, err := uuid.Parse(body.Spender)
	if err != nil {
		return response.Error(c, "Invalid spender account", 400, nil)
	}
	if err := h.Ledger.Approve(c.Context(), account.AccountID, spender, body.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Allowance set successfully", fiber.Map{
		"spender": spender,
		"amount":  body.Amount,
	}, nil)
}

// POST /api/v1/credits/transfer-from
func (h *Handlers) TransferFrom(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	from, err := uuid.Parse(body.From)
	if err != nil {
		return response.Error(c, "Invalid source account", 400, nil)
	}
	to, err := uuid.Parse(body.To)
	if err != nil {
		return response.Error(c, "Invalid recipient account", 400, nil)
	}
	if err := h.Ledger.TransferFrom(c.Context(), account.AccountID, from, to, body.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Credits transferred successfully", fiber.Map{
		"from":   from,
		"to":     to,
		"amount": body.Amount,
	}, nil)
}

// GET /api/v1/credits/batch/:id
func (h *Handlers) GetBatch(c *fiber.Ctx) error {
	batchID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid batch id", 400, nil)
	}
	batch, err := h.Ledger.GetCreditBatch(batchID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Credit batch fetched successfully", batch, nil)
}

// GET /api/v1/credits/project/:projectId
func (h *Handlers) ListByProject(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	ids, err := h.Ledger.ListProjectBatches(projectID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project credit batches fetched successfully", fiber.Map{
		"project_id": projectID,
		"batch_ids":  ids,
	}, nil)
}

// GET /api/v1/credits/supply
func (h *Handlers) Supply(c *fiber.Ctx) error {
	supply, err := h.Ledger.TotalSupply()
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Total supply fetched successfully", fiber.Map{
		"total_supply": supply,
		"scale_factor": ledger.ScaleFactor,
	}, nil)
}

// GET /api/v1/credits/balance and /api/v1/credits/balance/:accountId
func (h *Handlers) Balance(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	target := account.AccountID
	if param := c.Params("accountId"); param != "" {
		parsed, err := uuid.Parse(param)
		if err != nil {
			return response.Error(c, "Invalid account id", 400, nil)
		}
		target = parsed
	}
	balance, err := h.Ledger.BalanceOf(target)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{
		"account_id":   target,
		"balance":      balance,
		"scale_factor": ledger.ScaleFactor,
	}, nil)
}
