// File: internal/usecase/fanout_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ FanoutUseCase = (*fanoutUC)(nil)

// TemplateRenderer turns one event into a channel-specific payload. Tone and
// format differ per channel; content intent is identical. Urgency selects the
// template variant and delivery hints, never the fan-out control flow.
type TemplateRenderer interface {
	Render(event model.NotificationEvent, channel string) (adapter.RenderedPayload, error)
}

// FanoutUseCase delivers one event to an arbitrary set of independent
// channels, isolating per-channel failures.
type FanoutUseCase interface {
	// Dispatch attempts every channel concurrently, each under its own
	// timeout, and returns the per-channel breakdown once all attempts
	// finish. Channel failures are results, not errors; Dispatch itself
	// errors only on invalid input.
	Dispatch(ctx context.Context, event model.NotificationEvent, channels []adapter.ChannelSender) ([]model.ChannelResult, error)
}

type fanoutUC struct {
	renderer    TemplateRenderer
	deliveryLog repository.NotificationLogRepository // optional
	timeout     time.Duration
	log         *zerolog.Logger
}

func NewFanoutUseCase(renderer TemplateRenderer, deliveryLog repository.NotificationLogRepository, perChannelTimeout time.Duration, logger *zerolog.Logger) *fanoutUC {
	if perChannelTimeout <= 0 {
		perChannelTimeout = 10 * time.Second
	}
	compLog := logger.With().Str("component", "FanoutUC").Logger()
	return &fanoutUC{renderer: renderer, deliveryLog: deliveryLog, timeout: perChannelTimeout, log: &compLog}
}

func (u *fanoutUC) Dispatch(ctx context.Context, event model.NotificationEvent, channels []adapter.ChannelSender) ([]model.ChannelResult, error) {
	if event.Kind == "" || event.RecipientID == "" {
		return nil, domain.ErrInvalidArgument
	}

	results := make([]model.ChannelResult, len(channels))
	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch adapter.ChannelSender) {
			defer wg.Done()
			results[i] = u.attempt(ctx, event, ch)
		}(i, ch)
	}
	wg.Wait()

	for _, r := range results {
		u.record(ctx, event, r)
	}
	return results, nil
}

// attempt runs one channel delivery inside its own error boundary and
// timeout; a slow or failing channel never blocks the others.
func (u *fanoutUC) attempt(ctx context.Context, event model.NotificationEvent, ch adapter.ChannelSender) model.ChannelResult {
	start := time.Now()
	res := model.ChannelResult{Channel: ch.Name()}

	payload, err := u.renderer.Render(event, ch.Name())
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	cctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	res.Delivered, res.Err = ch.Send(cctx, event.RecipientID, payload)
	res.Elapsed = time.Since(start)
	return res
}

func (u *fanoutUC) record(ctx context.Context, event model.NotificationEvent, r model.ChannelResult) {
	if r.Err != nil {
		u.log.Warn().
			Err(r.Err).
			Str("channel", r.Channel).
			Str("event", string(event.Kind)).
			Str("recipient_id", event.RecipientID).
			Dur("elapsed", r.Elapsed).
			Msg("channel delivery failed")
	} else {
		u.log.Debug().
			Str("channel", r.Channel).
			Str("event", string(event.Kind)).
			Bool("delivered", r.Delivered).
			Dur("elapsed", r.Elapsed).
			Msg("channel delivery attempted")
	}

	if u.deliveryLog == nil {
		return
	}
	entry := &repository.NotificationLogEntry{
		EventKind:   string(event.Kind),
		RecipientID: event.RecipientID,
		Channel:     r.Channel,
		Delivered:   r.Delivered,
		SentAt:      time.Now(),
	}
	if r.Err != nil {
		entry.Error = r.Err.Error()
	}
	if err := u.deliveryLog.Save(ctx, repository.NoTX, entry); err != nil {
		u.log.Warn().Err(err).Str("channel", r.Channel).Msg("delivery log write failed")
	}
}
