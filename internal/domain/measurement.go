package domain

import (
	"time"

	"github.com/google/uuid"
)

// MeasurementRecord is a single reported sequestration observation (MRV
// record) tied to a project. Record ids are ledger-assigned and increase
// monotonically.
type MeasurementRecord struct {
	RecordID   uint64    `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id"`
	ProjectID  string    `gorm:"column:project_id;type:varchar(128);not null;index" json:"project_id"`
	Amount     int64     `gorm:"column:amount;not null" json:"amount"`
	MeasuredAt time.Time `gorm:"column:measured_at;not null" json:"measured_at"`
	ReporterID uuid.UUID `gorm:"column:reporter_id;type:uuid;not null" json:"reporter_id"`

	// Verification is repeatable: a later call may flip the flag back and
	// overwrites the notes.
	IsVerified        bool   `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	VerificationNotes string `gorm:"column:verification_notes;type:text" json:"verification_notes"`

	Method      string `gorm:"column:method;type:varchar(64)" json:"method"`
	EvidenceCID string `gorm:"column:evidence_cid;type:varchar(128)" json:"evidence_cid"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (MeasurementRecord) TableName() string {
	return "MeasurementRecords"
}
