package model

import "time"

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// EventKind identifies the business event a notification describes.
type EventKind string

const (
	EventPaymentApproved  EventKind = "payment_approved"
	EventPaymentRejected  EventKind = "payment_rejected"
	EventCommissionEarned EventKind = "commission_earned"
)

// NotificationEvent is ephemeral: constructed, dispatched, discarded.
// Params carries the small set of named strings the channel templates
// interpolate (plan name, amount, reason, link, ...).
type NotificationEvent struct {
	Kind        EventKind
	RecipientID string
	Urgency     Urgency
	Params      map[string]string
	OccurredAt  time.Time
}

// ChannelResult is the per-channel outcome of one fan-out dispatch.
// A failed channel never fails the dispatch as a whole.
type ChannelResult struct {
	Channel   string
	Delivered bool
	Err       error
	Elapsed   time.Duration
}
