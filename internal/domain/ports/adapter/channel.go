package adapter

import "context"

// RenderedPayload is a channel-ready notification: the same event data
// rendered through that channel's template. TTLSeconds is a delivery hint
// derived from event urgency; channels that have no such concept ignore it.
type RenderedPayload struct {
	Title      string
	Body       string
	Link       string
	TTLSeconds int
}

// ChannelSender delivers a rendered notification over one channel
// (telegram, email, whatsapp, in-app, ...). Implementations own their
// transport details; delivered=false with a nil error means the channel
// declined the message (e.g. recipient has no address on file).
type ChannelSender interface {
	Name() string
	Send(ctx context.Context, recipientID string, payload RenderedPayload) (delivered bool, err error)
}
