package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEvent is one row of the append-only journal. Every successful
// mutating ledger operation writes exactly one event in the same
// transaction as its state change.
type AuditEvent struct {
	EventID    uint64         `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	Operation  string         `gorm:"column:operation;type:varchar(64);not null;index" json:"operation"`
	ActorID    uuid.UUID      `gorm:"column:actor_id;type:uuid;not null" json:"actor_id"`
	EntityType string         `gorm:"column:entity_type;type:varchar(32);not null" json:"entity_type"`
	EntityID   string         `gorm:"column:entity_id;type:varchar(128);not null;index" json:"entity_id"`
	Data       datatypes.JSON `gorm:"column:data" json:"data"`
	CreatedAt  time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (AuditEvent) TableName() string {
	return "AuditEvents"
}
