package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pause halts every mutating entry point except Owner role management and
// Unpause. Reads stay available. Owner only.
func (l *Ledger) Pause(ctx context.Context, caller uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if state.Paused {
			return conflictf("ledger is already paused")
		}
		state.Paused = true
		if err := tx.Save(state).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "pause", caller, "ledger", "1", map[string]interface{}{
			"paused": true,
		})
	})
}

// Unpause restores normal operation. Owner only.
func (l *Ledger) Unpause(ctx context.Context, caller uuid.UUID) error {
	return l.run(ctx, func(tx *gorm.DB, rec *recorder) error {
		if err := l.requireOwner(tx, caller); err != nil {
			return err
		}
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if !state.Paused {
			return conflictf("ledger is not paused")
		}
		state.Paused = false
		if err := tx.Save(state).Error; err != nil {
			return err
		}
		return rec.appendAudit(tx, "unpause", caller, "ledger", "1", map[string]interface{}{
			"paused": false,
		})
	})
}

// Paused reports the halt flag.
func (l *Ledger) Paused() (bool, error) {
	state, err := loadState(l.db)
	if err != nil {
		return false, err
	}
	return state.Paused, nil
}
