package ledger

import (
	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessPolicy answers role checks for the ledger. It is injectable so
// tests can substitute policy without touching the role tables.
type AccessPolicy interface {
	IsOwner(tx *gorm.DB, account uuid.UUID) (bool, error)
	IsVerifier(tx *gorm.DB, account uuid.UUID) (bool, error)
	IsReporter(tx *gorm.DB, account uuid.UUID) (bool, error)
}

// RoleTablePolicy is the default policy: owner from the LedgerState row,
// verifier/reporter from RoleGrants. The owner is always a verifier.
type RoleTablePolicy struct{}

func (RoleTablePolicy) IsOwner(tx *gorm.DB, account uuid.UUID) (bool, error) {
	state, err := loadState(tx)
	if err != nil {
		return false, err
	}
	return state.OwnerID == account, nil
}

func (p RoleTablePolicy) IsVerifier(tx *gorm.DB, account uuid.UUID) (bool, error) {
	owner, err := p.IsOwner(tx, account)
	if err != nil {
		return false, err
	}
	if owner {
		return true, nil
	}
	return hasGrant(tx, account, domain.RoleVerifier)
}

func (RoleTablePolicy) IsReporter(tx *gorm.DB, account uuid.UUID) (bool, error) {
	return hasGrant(tx, account, domain.RoleReporter)
}

func hasGrant(tx *gorm.DB, account uuid.UUID, role string) (bool, error) {
	var count int64
	err := tx.Model(&domain.RoleGrant{}).
		Where("account_id = ? AND role = ?", account, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
