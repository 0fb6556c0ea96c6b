package events

import (
	"context"
	"encoding/json"

	"bluecarbon-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes committed audit events onto a Redis pub/sub
// channel for external collaborators (dashboards, indexers). Publishing
// is best effort; the journal row in the database is the source of truth.
type RedisPublisher struct {
	Rdb     *redis.Client
	Channel string
}

// Publish sends the event as JSON.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.AuditEvent) error {
	if p.Rdb == nil {
		return nil
	}
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Rdb.Publish(ctx, p.Channel, b).Err()
}
