package ledger

import (
	"context"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner role management is exempt from the pause switch so a paused
// ledger can still be administered (and unpaused).

// AddVerifier grants the verifier role. Owner only.
func (l *Ledger) AddVerifier(ctx context.Context, caller, account uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		if account == uuid.Nil {
			return validationf("verifier account is required")
		}
		if err := grantRole(tx, caller, account, domain.RoleVerifier); err != nil {
			return err
		}
		return rec.appendAudit(tx, "add_verifier", caller, "account", account.String(), map[string]interface{}{
			"is_verifier": true,
		})
	})
}

// RemoveVerifier revokes the verifier role. Owner only; the owner itself
// can never be removed from the verifier set.
func (l *Ledger) RemoveVerifier(ctx context.Context, caller, account uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if account == state.OwnerID {
			return conflictf("the ledger owner cannot be removed from the verifier set")
		}
		if err := revokeRole(tx, account, domain.RoleVerifier); err != nil {
			return err
		}
		return rec.appendAudit(tx, "remove_verifier", caller, "account", account.String(), map[string]interface{}{
			"is_verifier": false,
		})
	})
}

// AddReporter grants the reporter role. Owner only.
func (l *Ledger) AddReporter(ctx context.Context, caller, account uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		if account == uuid.Nil {
			return validationf("reporter account is required")
		}
		if err := grantRole(tx, caller, account, domain.RoleReporter); err != nil {
			return err
		}
		return rec.appendAudit(tx, "add_reporter", caller, "account", account.String(), map[string]interface{}{
			"is_reporter": true,
		})
	})
}

// RemoveReporter revokes the reporter role. Owner only.
func (l *Ledger) RemoveReporter(ctx context.Context, caller, account uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		if err := revokeRole(tx, account, domain.RoleReporter); err != nil {
			return err
		}
		return rec.appendAudit(tx, "remove_reporter", caller, "account", account.String(), map[string]interface{}{
			"is_reporter": false,
		})
	})
}

// TransferOwnership hands the Owner role to another account. The previous
// owner keeps no implicit capabilities; the new owner becomes a verifier
// by default (as every owner is).
func (l *Ledger) TransferOwnership(ctx context.Context, caller, newOwner uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		if newOwner == uuid.Nil {
			return validationf("new owner account is required")
		}
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		state.OwnerID = newOwner
		if err := tx.Save(state).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "transfer_ownership", caller, "account", newOwner.String(), map[string]interface{}{
			"previous_owner": caller.String(),
			"new_owner":      newOwner.String(),
		})
	})
}

func grantRole(tx *gorm.DB, grantedBy, account uuid.UUID, role string) error {
	exists, err := hasGrant(tx, account, role)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return tx.Create(&domain.RoleGrant{
		AccountID: account,
		Role:      role,
		GrantedBy: grantedBy,
	}).Error
}

func revokeRole(tx *gorm.DB, account uuid.UUID, role string) error {
	return tx.Where("account_id = ? AND role = ?", account, role).
		Delete(&domain.RoleGrant{}).Error
}

// IsVerifier is a pure lookup.
func (l *Ledger) IsVerifier(account uuid.UUID) (bool, error) {
	return l.policy.IsVerifier(l.db, account)
}

// IsReporter is a pure lookup.
func (l *Ledger) IsReporter(account uuid.UUID) (bool, error) {
	return l.policy.IsReporter(l.db, account)
}

// Owner returns the current owner account.
func (l *Ledger) Owner() (uuid.UUID, error) {
	state, err := loadState(l.db)
	if err != nil {
		return uuid.Nil, err
	}
	return state.OwnerID, nil
}
