package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditBatch is one issuance of credits to a recipient, traceable to a
// project. Amount and Remaining are whole credits; Remaining only ever
// decreases, and the batch flips to retired when it reaches zero.
type CreditBatch struct {
	BatchID     uint64    `gorm:"column:batch_id;primaryKey;autoIncrement" json:"batch_id"`
	ProjectID   string    `gorm:"column:project_id;type:varchar(128);not null;index" json:"project_id"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null" json:"recipient_id"`
	Amount      int64     `gorm:"column:amount;not null" json:"amount"`
	Remaining   int64     `gorm:"column:remaining;not null" json:"remaining"`
	IsRetired   bool      `gorm:"column:is_retired;not null;default:false" json:"is_retired"`
	MintedAt    time.Time `gorm:"column:minted_at;not null" json:"minted_at"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (CreditBatch) TableName() string {
	return "CreditBatches"
}

// Holding is an account's fungible credit balance in minor units
// (ledger.ScaleFactor minor units per whole credit).
type Holding struct {
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Holding) TableName() string {
	return "Holdings"
}

// Allowance is a standard spend-on-behalf grant, in minor units.
type Allowance struct {
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;primaryKey" json:"owner_id"`
	SpenderID uuid.UUID `gorm:"column:spender_id;type:uuid;primaryKey" json:"spender_id"`
	Amount    int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Allowance) TableName() string {
	return "Allowances"
}

// Retirement records a single retirement against a batch, for
// certificate-style reporting.
type Retirement struct {
	RetirementID uuid.UUID `gorm:"column:retirement_id;type:uuid;primaryKey" json:"retirement_id"`
	BatchID      uint64    `gorm:"column:batch_id;not null;index" json:"batch_id"`
	AccountID    uuid.UUID `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	Amount       int64     `gorm:"column:amount;not null" json:"amount"`
	Reason       string    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Retirement) TableName() string {
	return "Retirements"
}

func (r *Retirement) BeforeCreate(tx *gorm.DB) error {
	if r.RetirementID == uuid.Nil {
		r.RetirementID = uuid.New()
	}
	return nil
}
