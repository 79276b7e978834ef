package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultStreamLength bounds each event stream; older entries are trimmed
// approximately.
const DefaultStreamLength = 1000

// Publisher appends JSON encoded events to Redis streams.
type Publisher struct {
	client *redis.Client
	maxLen int64
	now    func() time.Time
	newID  func() string
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client: client,
		maxLen: DefaultStreamLength,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Publish wraps data in an Event and stores it under the "event" field of a
// new stream entry.
func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event := Event{
		ID:        p.newID(),
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{"event": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event to %s: %w", eventType, stream, err)
	}
	return nil
}
