package notifications

import (
	"context"
	"encoding/json"
	"time"

	"units-exchange.backend/internal/domain/entities"
	"units-exchange.backend/pkg/redis"
)

// Publisher delivers outbox events to the notification transport
type Publisher interface {
	Publish(ctx context.Context, event *entities.OutboxEvent) error
}

// envelope is the wire format published on the notification channel. The
// payload is passed through as-is so consumers see the same JSON the
// usecase wrote.
type envelope struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"publishedAt"`
}

// RedisPublisher publishes events to a Redis pub/sub channel. Delivery is
// at-least-once: the dispatcher only marks an event sent after a successful
// publish.
type RedisPublisher struct {
	channel string
}

// NewRedisPublisher creates a publisher for the given channel
func NewRedisPublisher(channel string) *RedisPublisher {
	return &RedisPublisher{channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event *entities.OutboxEvent) error {
	msg, err := json.Marshal(envelope{
		ID:          event.ID.String(),
		Topic:       event.Topic,
		Payload:     json.RawMessage(event.Payload),
		PublishedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return redis.Publish(ctx, p.channel, msg)
}
