package measurements

import (
	"strconv"
	"time"

	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *ledger.Ledger
}

// POST /api/v1/mrv/upload
func (h *Handlers) Upload(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ProjectID   string    `json:"project_id"`
		Amount      int64     `json:"amount"`
		MeasuredAt  time.Time `json:"measured_at"`
		Method      string    `json:"method"`
		EvidenceCID string    `json:"evidence_cid"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	record, err := h.Ledger.AddMeasurement(c.Context(), account.AccountID, ledger.MeasurementInput{
		ProjectID:   body.ProjectID,
		Amount:      body.Amount,
		MeasuredAt:  body.MeasuredAt,
		Method:      body.Method,
		EvidenceCID: body.EvidenceCID,
	})
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Measurement recorded successfully", record, nil)
}

type batchItem struct {
	ProjectID   string    `json:"project_id"`
	Amount      int64     `json:"amount"`
	MeasuredAt  time.Time `json:"measured_at"`
	Method      string    `json:"method"`
	EvidenceCID string    `json:"evidence_cid"`
}

type batchItemResult struct {
	Index    int     `json:"index"`
	RecordID *uint64 `json:"record_id,omitempty"`
	Error    string  `json:"error,omitempty"`
	Kind     string  `json:"kind,omitempty"`
}

// POST /api/v1/mrv/batch-upload
//
// Each item is its own atomic ledger operation; a rejected item does not
// roll back the ones already recorded. Per-item outcomes are returned in
// submission order.
func (h *Handlers) BatchUpload(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Measurements []batchItem `json:"measurements"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if len(body.Measurements) == 0 {
		return response.Error(c, "measurements must not be empty", 400, nil)
	}

	results := make([]batchItemResult, 0, len(body.Measurements))
	succeeded := 0
	for i, item := range body.Measurements {
		record, err := h.Ledger.AddMeasurement(c.Context(), account.AccountID, ledger.MeasurementInput{
			ProjectID:   item.ProjectID,
			Amount:      item.Amount,
			MeasuredAt:  item.MeasuredAt,
			Method:      item.Method,
			EvidenceCID: item.EvidenceCID,
		})
		if err != nil {
			results = append(results, batchItemResult{
				Index: i,
				Error: err.Error(),
				Kind:  ledger.KindOf(err).String(),
			})
			continue
		}
		succeeded++
		results = append(results, batchItemResult{Index: i, RecordID: &record.RecordID})
	}
	return response.Success(c, "Batch processed", fiber.Map{
		"total":     len(body.Measurements),
		"succeeded": succeeded,
		"failed":    len(body.Measurements) - succeeded,
		"results":   results,
	}, nil)
}

// GET /api/v1/mrv/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	recordID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid record id", 400, nil)
	}
	record, err := h.Ledger.GetMeasurement(recordID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Measurement fetched successfully", record, nil)
}

// PATCH /api/v1/mrv/:id/verify
func (h *Handlers) Verify(c *fiber.Ctx) error {
	account := auth.AccountFromCtx(c)
	if account == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	recordID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid record id", 400, nil)
	}
	var body struct {
		Verified *bool  `json:"verified"`
		Notes    string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil || body.Verified == nil {
		return response.Error(c, "verified is required", 400, nil)
	}
	if err := h.Ledger.VerifyMeasurement(c.Context(), account.AccountID, recordID, *body.Verified, body.Notes); err != nil {
		return response.LedgerError(c, err)
	}
	record, err := h.Ledger.GetMeasurement(recordID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Measurement verification updated", record, nil)
}

// GET /api/v1/mrv/project/:projectId
func (h *Handlers) ListByProject(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	ids, err := h.Ledger.ListProjectMeasurements(projectID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project measurements fetched successfully", fiber.Map{
		"project_id": projectID,
		"record_ids": ids,
	}, nil)
}
