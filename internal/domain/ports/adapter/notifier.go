package adapter

import (
	"context"

	"membership-billing/internal/domain/model"
)

// EventNotifier hands a domain event to the notification pipeline.
// Implementations deliver asynchronously; Enqueue never reports delivery
// failures back to the caller, so a broken channel cannot fail a confirm.
type EventNotifier interface {
	Enqueue(ctx context.Context, event model.NotificationEvent)
}
