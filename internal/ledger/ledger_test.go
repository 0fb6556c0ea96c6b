package ledger

import (
	"context"
	"testing"
	"time"

	"bluecarbon-backend/internal/database"
	"bluecarbon-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	owner := uuid.New()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	l, err := Open(db, owner, opts...)
	require.NoError(t, err)
	return l, owner
}

func sumOfBalances(t *testing.T, l *Ledger) int64 {
	t.Helper()
	var holdings []domain.Holding
	require.NoError(t, l.db.Find(&holdings).Error)
	var sum int64
	for _, h := range holdings {
		sum += h.Balance
	}
	return sum
}

func TestOpen_RequiresOwnerOnEmptyDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	_, err = Open(db, uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestOpen_ExistingStateWinsOverOwnerArgument(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	first := uuid.New()
	_, err = Open(db, first)
	require.NoError(t, err)

	l, err := Open(db, uuid.New())
	require.NoError(t, err)
	owner, err := l.Owner()
	require.NoError(t, err)
	assert.Equal(t, first, owner)
}

// Full walkthrough: register, report, verify, mint, retire.
func TestLedger_EndToEndScenario(t *testing.T) {
	ctx := context.Background()
	l, owner := newTestLedger(t)
	projectOwner := uuid.New()
	userA := uuid.New()

	project, err := l.RegisterProject(ctx, projectOwner, "BC001", "Sundarbans delta", 1_000_000)
	require.NoError(t, err)
	assert.True(t, project.IsActive)
	assert.False(t, project.IsVerified)
	assert.Zero(t, project.TotalReportedSequestration)

	_, err = l.AddMeasurement(ctx, projectOwner, MeasurementInput{
		ProjectID:  "BC001",
		Amount:     100,
		MeasuredAt: testNow.Add(-time.Hour),
	})
	require.NoError(t, err)

	project, err = l.GetProject("BC001")
	require.NoError(t, err)
	assert.Equal(t, int64(100), project.TotalReportedSequestration)

	require.NoError(t, l.VerifyProject(ctx, owner, "BC001", true))

	batch, err := l.MintCredits(ctx, owner, "BC001", userA, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), batch.Remaining)

	balance, err := l.BalanceOf(userA)
	require.NoError(t, err)
	assert.Equal(t, 100*ScaleFactor, balance)

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 100*ScaleFactor, supply)

	require.NoError(t, l.RetireCredits(ctx, userA, batch.BatchID, 40, "offsetting 2025 travel"))

	balance, err = l.BalanceOf(userA)
	require.NoError(t, err)
	assert.Equal(t, 60*ScaleFactor, balance)

	batchAfter, err := l.GetCreditBatch(batch.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), batchAfter.Remaining)
	assert.False(t, batchAfter.IsRetired)

	supply, err = l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 60*ScaleFactor, supply)
	assert.Equal(t, supply, sumOfBalances(t, l))
}

// TotalSupply must equal the sum of all balances after any mix of mint,
// transfer and retire operations.
func TestLedger_SupplyMatchesBalancesAfterMixedOperations(t *testing.T) {
	ctx := context.Background()
	l, owner := newTestLedger(t)
	projectOwner := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	_, err := l.RegisterProject(ctx, projectOwner, "P1", "coastal site", 500)
	require.NoError(t, err)
	_, err = l.AddMeasurement(ctx, projectOwner, MeasurementInput{
		ProjectID: "P1", Amount: 900, MeasuredAt: testNow.Add(-time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, l.VerifyProject(ctx, owner, "P1", true))

	batchA, err := l.MintCredits(ctx, owner, "P1", userA, 300)
	require.NoError(t, err)
	_, err = l.MintCredits(ctx, owner, "P1", userB, 200)
	require.NoError(t, err)

	require.NoError(t, l.Transfer(ctx, userA, userB, 50*ScaleFactor))
	require.NoError(t, l.Approve(ctx, userB, userA, 80*ScaleFactor))
	require.NoError(t, l.TransferFrom(ctx, userA, userB, userA, 80*ScaleFactor))
	require.NoError(t, l.RetireCredits(ctx, userA, batchA.BatchID, 100, ""))

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 400*ScaleFactor, supply)
	assert.Equal(t, supply, sumOfBalances(t, l))
}

type denyAllPolicy struct{}

func (denyAllPolicy) IsOwner(tx *gorm.DB, account uuid.UUID) (bool, error)    { return false, nil }
func (denyAllPolicy) IsVerifier(tx *gorm.DB, account uuid.UUID) (bool, error) { return false, nil }
func (denyAllPolicy) IsReporter(tx *gorm.DB, account uuid.UUID) (bool, error) { return false, nil }

// The access policy is injectable: with a deny-all policy every gated
// operation fails regardless of the role tables.
func TestLedger_PolicyIsInjectable(t *testing.T) {
	ctx := context.Background()
	l, owner := newTestLedger(t, WithPolicy(denyAllPolicy{}))

	err := l.AddVerifier(ctx, owner, uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	err = l.VerifyProject(ctx, owner, "missing", true)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}
