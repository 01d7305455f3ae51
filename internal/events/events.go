// Package events publishes campaign and donation lifecycle events over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	CampaignCreated = "campaign_created"
	CampaignUpdated = "campaign_updated"
	CampaignDeleted = "campaign_deleted"
	DonationCreated = "donation_created"
	DonationUpdated = "donation_updated"
	DonationDeleted = "donation_deleted"
	UserDeleted     = "user_deleted"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Publisher delivers events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes JSON-encoded events on one channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscribe decodes events from channel and hands them to handler until ctx is done
func Subscribe(ctx context.Context, client *redis.Client, channel string, handler func(Event)) {
	pubsub := client.Subscribe(ctx, channel)
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logrus.WithError(err).Error("Failed to decode event")
					continue
				}
				handler(event)
			}
		}
	}()
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes an event and logs, rather than returns, a delivery failure.
// Events are notifications; a failed publish never fails the request that caused it.
func Emit(ctx context.Context, p Publisher, eventType string, payload map[string]any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, Event{Type: eventType, Payload: payload}); err != nil {
		logrus.WithFields(logrus.Fields{
			"type":  eventType,
			"error": err.Error(),
		}).Warn("Failed to publish event")
	}
}
