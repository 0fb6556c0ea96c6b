package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is a registered restoration site. The id is caller-chosen and
// immutable; rows are never deleted, so id uniqueness holds for the life
// of the ledger even after deactivation.
type Project struct {
	ProjectID string    `gorm:"column:project_id;type:varchar(128);primaryKey" json:"project_id"`
	Location  string    `gorm:"column:location;type:varchar(255);not null" json:"location"`
	Area      int64     `gorm:"column:area;not null" json:"area"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`

	IsVerified bool `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	// IsActive is cleared by deactivation and never set back to true.
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// TotalReportedSequestration accumulates every submitted measurement
	// amount, verified or not. Minting is bounded by this figure.
	TotalReportedSequestration int64 `gorm:"column:total_reported_sequestration;not null;default:0" json:"total_reported_sequestration"`
	// TotalCreditsIssued is informational only; it does not bound minting.
	TotalCreditsIssued int64 `gorm:"column:total_credits_issued;not null;default:0" json:"total_credits_issued"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Project) TableName() string {
	return "Projects"
}
