// Package notify delivers persisted notifications to outside channels.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"travelagency/internal/domain/models"
)

const DefaultChannel = "booking-notifications"

// RedisPublisher publishes every notification as JSON on a pub/sub channel.
type RedisPublisher struct {
	Client  *redis.Client
	Channel string
}

type event struct {
	models.Notification
	RecipientEmail string `json:"recipientEmail,omitempty"`
}

func (p RedisPublisher) Name() string { return "redis" }

func (p RedisPublisher) Deliver(ctx context.Context, n models.Notification, recipientEmail string) error {
	if p.Client == nil {
		return nil
	}
	channel := p.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	data, err := json.Marshal(event{Notification: n, RecipientEmail: recipientEmail})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.Client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
