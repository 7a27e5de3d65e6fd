package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/postboard/postboard-api/internal/core/domain"
)

const defaultChannel = "postboard:notifications"

// Publisher fans notifications out over a Redis pub/sub channel.
// Channel format: JSON-encoded domain.Notification.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a Publisher wrapping the given Redis client.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = defaultChannel
	}
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Name() string { return "redis" }

// Broadcast publishes n; subscribers that are offline miss it.
func (p *Publisher) Broadcast(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
