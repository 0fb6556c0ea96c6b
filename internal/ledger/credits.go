package ledger

import (
	"context"
	"math"
	"strconv"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MintCredits issues a batch of whole credits against a project. Owner or
// verifier only; the project must exist, be active and be verified. The
// amount is bounded by the project's cumulative reported sequestration —
// not by a remaining-unminted balance, so repeated mints up to the same
// cumulative figure are not blocked here.
func (l *Ledger) MintCredits(ctx context.Context, caller uuid.UUID, projectID string, recipient uuid.UUID, amount int64) (*domain.CreditBatch, error) {
	var batch *domain.CreditBatch
	err := l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := l.requireVerifier(tx, caller); err != nil {
			return err
		}
		project, err := findProject(tx, projectID)
		if err != nil {
			return err
		}
		if !project.IsActive {
			return conflictf("project %q is deactivated", projectID)
		}
		if !project.IsVerified {
			return conflictf("project %q is not verified", projectID)
		}
		if recipient == uuid.Nil {
			return validationf("recipient account is required")
		}
		if amount <= 0 {
			return validationf("mint amount must be positive")
		}
		// amount*ScaleFactor must stay within int64.
		if amount > math.MaxInt64/ScaleFactor {
			return validationf("mint amount is too large")
		}
		if amount > project.TotalReportedSequestration {
			return invariantf("mint amount %d exceeds reported sequestration %d for project %q",
				amount, project.TotalReportedSequestration, projectID)
		}

		batch = &domain.CreditBatch{
			ProjectID:   projectID,
			RecipientID: recipient,
			Amount:      amount,
			Remaining:   amount,
			MintedAt:    l.now(),
		}
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		minor := amount * ScaleFactor
		if err := creditBalance(tx, recipient, minor); err != nil {
			return err
		}
		if err := adjustSupply(tx, minor); err != nil {
			return err
		}
		project.TotalCreditsIssued += amount
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "mint_credits", caller, "credit_batch", strconv.FormatUint(batch.BatchID, 10), map[string]interface{}{
			"project_id": projectID,
			"recipient":  recipient.String(),
			"amount":     amount,
			"batch_id":   batch.BatchID,
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// RetireCredits permanently burns part of a batch. Only the batch's
// recorded recipient may retire from it, and only up to the batch's
// remaining amount and the caller's current balance.
func (l *Ledger) RetireCredits(ctx context.Context, caller uuid.UUID, batchID uint64, amount int64, reason string) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		batch, err := findBatch(tx, batchID)
		if err != nil {
			return err
		}
		if batch.RecipientID != caller {
			return authorizationf("caller is not the recipient of batch %d", batchID)
		}
		if batch.IsRetired {
			return conflictf("batch %d is already fully retired", batchID)
		}
		if amount <= 0 {
			return validationf("retire amount must be positive")
		}
		if amount > batch.Remaining {
			return invariantf("retire amount %d exceeds batch remaining %d", amount, batch.Remaining)
		}
		minor := amount * ScaleFactor
		if err := debitBalance(tx, caller, minor); err != nil {
			return err
		}
		if err := adjustSupply(tx, -minor); err != nil {
			return err
		}
		batch.Remaining -= amount
		if batch.Remaining == 0 {
			batch.IsRetired = true
		}
		if err := tx.Save(batch).Error; err != nil {
			return err
		}
		retirement := &domain.Retirement{
			BatchID:   batchID,
			AccountID: caller,
			Amount:    amount,
			Reason:    reason,
		}
		if err := tx.Create(retirement).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "retire_credits", caller, "credit_batch", strconv.FormatUint(batchID, 10), map[string]interface{}{
			"amount":     amount,
			"remaining":  batch.Remaining,
			"is_retired": batch.IsRetired,
			"reason":     reason,
		})
	})
}

// Transfer moves minor units between accounts (standard fungible-token
// transfer).
func (l *Ledger) Transfer(ctx context.Context, caller, to uuid.UUID, amount int64) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := moveBalance(tx, caller, to, amount); err != nil {
			return err
		}
		return rec.appendAudit(tx, "transfer", caller, "account", to.String(), map[string]interface{}{
			"from":   caller.String(),
			"to":     to.String(),
			"amount": amount,
		})
	})
}

// Approve sets the spender's allowance over the caller's balance, in
// minor units. Overwrites any previous allowance.
func (l *Ledger) Approve(ctx context.Context, caller, spender uuid.UUID, amount int64) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if spender == uuid.Nil {
			return validationf("spender account is required")
		}
		if amount < 0 {
			return validationf("allowance must not be negative")
		}
		allowance := domain.Allowance{OwnerID: caller, SpenderID: spender}
		err := tx.Where("owner_id = ? AND spender_id = ?", caller, spender).First(&allowance).Error
		if err == gorm.ErrRecordNotFound {
			allowance.Amount = amount
			if err := tx.Create(&allowance).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			allowance.Amount = amount
			if err := tx.Save(&allowance).Error; err != nil {
				return err
			}
		}
		return rec.appendAudit(tx, "approve", caller, "account", spender.String(), map[string]interface{}{
			"owner":   caller.String(),
			"spender": spender.String(),
			"amount":  amount,
		})
	})
}

// TransferFrom moves minor units from an account that has approved the
// caller, decrementing the allowance.
func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to uuid.UUID, amount int64) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if amount <= 0 {
			return validationf("transfer amount must be positive")
		}
		var allowance domain.Allowance
		err := tx.Where("owner_id = ? AND spender_id = ?", from, caller).First(&allowance).Error
		if err == gorm.ErrRecordNotFound || (err == nil && allowance.Amount < amount) {
			return invariantf("transfer amount %d exceeds allowance", amount)
		}
		if err != nil {
			return err
		}
		if err := moveBalance(tx, from, to, amount); err != nil {
			return err
		}
		allowance.Amount -= amount
		if err := tx.Save(&allowance).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "transfer_from", caller, "account", to.String(), map[string]interface{}{
			"from":    from.String(),
			"to":      to.String(),
			"spender": caller.String(),
			"amount":  amount,
		})
	})
}

// GetCreditBatch fetches a batch by id.
func (l *Ledger) GetCreditBatch(batchID uint64) (*domain.CreditBatch, error) {
	return findBatch(l.db, batchID)
}

// ListProjectBatches returns the batch ids minted against a project.
func (l *Ledger) ListProjectBatches(projectID string) ([]uint64, error) {
	var ids []uint64
	err := l.db.Model(&domain.CreditBatch{}).
		Where("project_id = ?", projectID).
		Order("batch_id ASC").
		Pluck("batch_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// BalanceOf returns the account's balance in minor units.
func (l *Ledger) BalanceOf(account uuid.UUID) (int64, error) {
	var holding domain.Holding
	err := l.db.Where("account_id = ?", account).First(&holding).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return holding.Balance, nil
}

// TotalSupply returns the outstanding supply in minor units.
func (l *Ledger) TotalSupply() (int64, error) {
	state, err := loadState(l.db)
	if err != nil {
		return 0, err
	}
	return state.TotalSupply, nil
}

// GetAllowance returns the spender's remaining allowance over owner's
// balance, in minor units.
func (l *Ledger) GetAllowance(owner, spender uuid.UUID) (int64, error) {
	var allowance domain.Allowance
	err := l.db.Where("owner_id = ? AND spender_id = ?", owner, spender).First(&allowance).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return allowance.Amount, nil
}

func findBatch(tx *gorm.DB, batchID uint64) (*domain.CreditBatch, error) {
	var batch domain.CreditBatch
	if err := tx.Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, conflictf("credit batch %d does not exist", batchID)
		}
		return nil, err
	}
	return &batch, nil
}

func moveBalance(tx *gorm.DB, from, to uuid.UUID, amount int64) error {
	if to == uuid.Nil {
		return validationf("recipient account is required")
	}
	if from == to {
		return validationf("cannot transfer to the same account")
	}
	if amount <= 0 {
		return validationf("transfer amount must be positive")
	}
	if err := debitBalance(tx, from, amount); err != nil {
		return err
	}
	return creditBalance(tx, to, amount)
}

func creditBalance(tx *gorm.DB, account uuid.UUID, minor int64) error {
	var holding domain.Holding
	err := tx.Where("account_id = ?", account).First(&holding).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.Holding{AccountID: account, Balance: minor}).Error
	}
	if err != nil {
		return err
	}
	holding.Balance += minor
	return tx.Save(&holding).Error
}

// debitBalance never takes a balance below zero.
func debitBalance(tx *gorm.DB, account uuid.UUID, minor int64) error {
	var holding domain.Holding
	err := tx.Where("account_id = ?", account).First(&holding).Error
	if err == gorm.ErrRecordNotFound || (err == nil && holding.Balance < minor) {
		return invariantf("insufficient balance")
	}
	if err != nil {
		return err
	}
	holding.Balance -= minor
	return tx.Save(&holding).Error
}

func adjustSupply(tx *gorm.DB, deltaMinor int64) error {
	state, err := loadState(tx)
	if err != nil {
		return err
	}
	state.TotalSupply += deltaMinor
	if state.TotalSupply < 0 {
		return invariantf("total supply underflow")
	}
	return tx.Save(state).Error
}
