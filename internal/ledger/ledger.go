package ledger

import (
	"context"
	"sync"
	"time"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScaleFactor is the number of minor units in one whole credit. Balances,
// total supply, transfers and allowances are minor units; mint and retire
// amounts are whole credits.
const ScaleFactor int64 = 1_000_000

// EventPublisher receives committed audit events (best effort, after the
// transaction that wrote them).
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.AuditEvent) error
}

// Ledger owns all ledger state and executes operations as a strictly
// serialized state machine: one mutex, one database transaction and one
// audit event per mutating operation. Internal helpers receive the open
// transaction and never call back into public entry points, so no
// mutating operation can nest inside another.
type Ledger struct {
	db        *gorm.DB
	policy    AccessPolicy
	publisher EventPublisher
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy substitutes the access policy (tests).
func WithPolicy(p AccessPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithClock substitutes the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPublisher sets the post-commit audit event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// Open returns a Ledger over db, creating the singleton state row with
// owner as the initial Owner if it does not exist yet. An existing state
// row wins over the owner argument.
func Open(db *gorm.DB, owner uuid.UUID, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		db:     db,
		policy: RoleTablePolicy{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	var state domain.LedgerState
	err := db.First(&state, "id = ?", 1).Error
	if err == gorm.ErrRecordNotFound {
		if owner == uuid.Nil {
			return nil, validationf("ledger owner account is required")
		}
		state = domain.LedgerState{ID: 1, OwnerID: owner}
		if err := db.Create(&state).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return l, nil
}

// DB exposes the underlying handle for read-only collaborators (health).
func (l *Ledger) DB() *gorm.DB {
	return l.db
}

func loadState(tx *gorm.DB) (*domain.LedgerState, error) {
	var state domain.LedgerState
	if err := tx.First(&state, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// run executes one mutating operation: serialized on the mutex, atomic in
// a single transaction, with the audit events it recorded published after
// commit.
func (l *Ledger) run(ctx context.Context, fn func(tx *gorm.DB, rec *recorder) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := &recorder{}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, rec)
	})
	if err != nil {
		return err
	}
	for _, ev := range rec.events {
		log.Info().
			Str("operation", ev.Operation).
			Str("actor", ev.ActorID.String()).
			Str("entity_type", ev.EntityType).
			Str("entity_id", ev.EntityID).
			Msg("ledger operation committed")
		if l.publisher != nil {
			if perr := l.publisher.Publish(ctx, ev); perr != nil {
				log.Warn().Err(perr).Str("operation", ev.Operation).Msg("audit event publish failed")
			}
		}
	}
	return nil
}

// requireNotPaused rejects the operation when the ledger is halted. It is
// the first check of every mutating entry point outside Owner
// role-management and pause control.
func requireNotPaused(tx *gorm.DB) error {
	state, err := loadState(tx)
	if err != nil {
		return err
	}
	if state.Paused {
		return conflictf("ledger is paused")
	}
	return nil
}

func (l *Ledger) requireOwner(tx *gorm.DB, caller uuid.UUID) error {
	ok, err := l.policy.IsOwner(tx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return authorizationf("caller is not the ledger owner")
	}
	return nil
}

func (l *Ledger) requireVerifier(tx *gorm.DB, caller uuid.UUID) error {
	ok, err := l.policy.IsVerifier(tx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return authorizationf("caller is not the ledger owner or a verifier")
	}
	return nil
}
