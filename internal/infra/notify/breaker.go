// File: internal/infra/notify/breaker.go
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.ChannelSender = (*breakerSender)(nil)

// breakerSender wraps a channel with a circuit breaker so a provider
// outage fails fast instead of holding a fan-out slot for the full
// timeout on every event.
type breakerSender struct {
	inner adapter.ChannelSender
	cb    *gobreaker.CircuitBreaker
}

func WithBreaker(inner adapter.ChannelSender, log zerolog.Logger) *breakerSender {
	cbLog := log.With().Str("component", "channel-breaker").Str("channel", inner.Name()).Logger()
	settings := gobreaker.Settings{
		Name:    inner.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cbLog.Warn().Str("from", from.String()).Str("to", to.String()).Msg("breaker state changed")
		},
	}
	return &breakerSender{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (s *breakerSender) Name() string { return s.inner.Name() }

func (s *breakerSender) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		delivered, sendErr := s.inner.Send(ctx, recipientID, payload)
		return delivered, sendErr
	})
	if err != nil {
		return false, err
	}
	delivered, _ := out.(bool)
	return delivered, nil
}
