package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an API caller identity. The ledger itself only sees the
// AccountID; name/organization are registry metadata for collaborators.
type Account struct {
	AccountID    uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Organization string    `gorm:"column:organization;type:varchar(255)" json:"organization"`
	APIKeyHash   string    `gorm:"column:api_key_hash;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Account) TableName() string {
	return "Accounts"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.AccountID == uuid.Nil {
		a.AccountID = uuid.New()
	}
	return nil
}
