package audit

import (
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *ledger.Ledger
}

// GET /api/v1/audit/events
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	filter := ledger.AuditFilter{
		Operation:  c.Query("operation"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	}
	events, err := h.Ledger.ListAuditEvents(filter)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Audit events fetched successfully", events, fiber.Map{
		"count": len(events),
	})
}
