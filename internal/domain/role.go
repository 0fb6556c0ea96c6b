package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ledger roles. The owner is tracked on LedgerState, not as a RoleGrant.
const (
	RoleVerifier = "verifier"
	RoleReporter = "reporter"
)

// RoleGrant is one capability held by one account.
type RoleGrant struct {
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Role      string    `gorm:"column:role;type:varchar(20);primaryKey" json:"role"`
	GrantedBy uuid.UUID `gorm:"column:granted_by;type:uuid;not null" json:"granted_by"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RoleGrant) TableName() string {
	return "RoleGrants"
}

// LedgerState is the singleton control row: current owner, pause flag and
// the total credit supply in minor units. TotalSupply must always equal
// the sum of all Holding balances.
type LedgerState struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null" json:"owner_id"`
	Paused      bool      `gorm:"column:paused;not null;default:false" json:"paused"`
	TotalSupply int64     `gorm:"column:total_supply;not null;default:0" json:"total_supply"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (LedgerState) TableName() string {
	return "LedgerState"
}
