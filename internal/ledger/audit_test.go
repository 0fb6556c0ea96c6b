package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []*domain.AuditEvent
}

func (p *capturePublisher) Publish(ctx context.Context, event *domain.AuditEvent) error {
	p.events = append(p.events, event)
	return nil
}

func TestAudit_OneEventPerMutationPublishedAfterCommit(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	l, owner := newTestLedger(t, WithPublisher(pub))
	projectOwner := uuid.New()

	_, err := l.RegisterProject(ctx, projectOwner, "P1", "site", 100)
	require.NoError(t, err)
	_, err = l.AddMeasurement(ctx, projectOwner, MeasurementInput{
		ProjectID: "P1", Amount: 50, MeasuredAt: testNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, l.VerifyProject(ctx, owner, "P1", true))

	require.Len(t, pub.events, 3)
	assert.Equal(t, "register_project", pub.events[0].Operation)
	assert.Equal(t, "add_measurement", pub.events[1].Operation)
	assert.Equal(t, "verify_project", pub.events[2].Operation)

	// Event payload carries the resulting state fields.
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.events[1].Data, &payload))
	assert.Equal(t, float64(50), payload["total_reported_sequestration"])

	// Failed operations emit nothing and write no journal row.
	_, err = l.RegisterProject(ctx, projectOwner, "P1", "dup", 100)
	require.Error(t, err)
	require.Len(t, pub.events, 3)

	events, err := l.ListAuditEvents(AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestListAuditEvents_Filters(t *testing.T) {
	ctx := context.Background()
	l, owner := newTestLedger(t)
	projectOwner := uuid.New()

	_, err := l.RegisterProject(ctx, projectOwner, "P1", "site", 100)
	require.NoError(t, err)
	_, err = l.RegisterProject(ctx, projectOwner, "P2", "site", 100)
	require.NoError(t, err)
	require.NoError(t, l.VerifyProject(ctx, owner, "P1", true))

	events, err := l.ListAuditEvents(AuditFilter{Operation: "register_project"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = l.ListAuditEvents(AuditFilter{EntityID: "P1"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = l.ListAuditEvents(AuditFilter{Operation: "verify_project", EntityID: "P2"})
	require.NoError(t, err)
	assert.Empty(t, events)

	// Newest first.
	events, err = l.ListAuditEvents(AuditFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "verify_project", events[0].Operation)
}
