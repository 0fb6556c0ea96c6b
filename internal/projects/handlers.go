package projects

import (
	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *ledger.Ledger
}

// POST /api/v1/projects/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ProjectID string `json:"project_id"`
		Location  string `json:"location"`
		Area      int64  `json:"area"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	project, err := h.Ledger.RegisterProject(c.Context(), account.AccountID, body.ProjectID, body.Location, body.Area)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Project registered successfully", project, nil)
}

// GET /api/v1/projects/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	project, err := h.Ledger.GetProject(c.Params("id"))
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Project fetched successfully", project, nil)
}

// PATCH /api/v1/projects/:id/verify
func (h *Handlers) Verify(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Verified *bool `json:"verified"`
	}
	if err := c.BodyParser(&body); err != nil || body.Verified == nil {
		return response.Error(c, "verified is required", 400, nil)
	}
	id := c.Params("id")
	if err := h.Ledger.VerifyProject(c.Context(), account.AccountID, id, *body.Verified); err != nil {
		return response.LedgerError(c, err)
	}
	project, err := h.Ledger.GetProject(id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Project verification updated", project, nil)
}

// POST /api/v1/projects/:id/deactivate
func (h *Handlers) Deactivate(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id := c.Params("id")
	if err := h.Ledger.DeactivateProject(c.Context(), account.AccountID, id); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Project deactivated", fiber.Map{"project_id": id, "is_active": false}, nil)
}

// GET /api/v1/projects/owned
func (h *Handlers) Owned(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	ids, err := h.Ledger.ListAccountProjects(account.AccountID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Owned projects fetched successfully", fiber.Map{"project_ids": ids}, nil)
}
