package ledger

import (
	"encoding/json"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recorder collects the audit events written by one operation so they can
// be published after commit.
type recorder struct {
	events []*domain.AuditEvent
}

// appendAudit writes one journal row inside the operation's transaction.
func (r *recorder) appendAudit(tx *gorm.DB, op string, actor uuid.UUID, entityType, entityID string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	event := &domain.AuditEvent{
		Operation:  op,
		ActorID:    actor,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       datatypes.JSON(payload),
	}
	if err := tx.Create(event).Error; err != nil {
		return err
	}
	r.events = append(r.events, event)
	return nil
}

// AuditFilter narrows ListAuditEvents.
type AuditFilter struct {
	Operation  string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// ListAuditEvents returns journal rows, newest first.
func (l *Ledger) ListAuditEvents(filter AuditFilter) ([]domain.AuditEvent, error) {
	q := l.db.Model(&domain.AuditEvent{}).Order("event_id DESC")
	if filter.Operation != "" {
		q = q.Where("operation = ?", filter.Operation)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var events []domain.AuditEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
