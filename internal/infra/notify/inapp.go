// File: internal/infra/notify/inapp.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	infraRedis "membership-billing/internal/infra/redis"

	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.ChannelSender = (*inAppSender)(nil)

// inAppSender publishes to a per-member redis channel; the web frontend
// subscribes and surfaces the message in the member's inbox.
type inAppSender struct {
	redis *infraRedis.Client
}

func NewInAppSender(client *infraRedis.Client) *inAppSender {
	return &inAppSender{redis: client}
}

func (s *inAppSender) Name() string { return "inapp" }

type inAppMessage struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Link       string `json:"link,omitempty"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
	SentAt     string `json:"sent_at"`
}

func (s *inAppSender) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	msg := inAppMessage{
		Title:      payload.Title,
		Body:       payload.Body,
		Link:       payload.Link,
		TTLSeconds: payload.TTLSeconds,
		SentAt:     time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("encode in-app message: %w", err)
	}
	if err := s.redis.Publish(ctx, "member:inbox:"+recipientID, b); err != nil {
		return false, fmt.Errorf("publish in-app message: %w", err)
	}
	return true, nil
}
