package repository

import (
	"context"
	"time"
)

// NotificationLogRepository records delivery outcomes. The log itself is an
// external collaborator's concern; the core only writes to this port.
type NotificationLogRepository interface {
	// Save records one channel attempt for a dispatched event.
	Save(ctx context.Context, tx Tx, entry *NotificationLogEntry) error
}

type NotificationLogEntry struct {
	EventKind   string
	RecipientID string
	Channel     string
	Delivered   bool
	Error       string
	SentAt      time.Time
}
