// File: internal/infra/notify/service.go
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/infra/metrics"
	infraRedis "membership-billing/internal/infra/redis"
	"membership-billing/internal/infra/worker"
	"membership-billing/internal/usecase"
)

var _ adapter.EventNotifier = (*Service)(nil)

// Service is the async edge of the notification pipeline: it deduplicates
// events across processes, hands dispatch to the worker pool, and records
// delivery metrics. Delivery never blocks or fails the enqueuing call.
type Service struct {
	fanout    usecase.FanoutUseCase
	channels  []adapter.ChannelSender
	pool      *worker.Pool
	deduper   *infraRedis.Deduper
	dedupeTTL time.Duration
	log       zerolog.Logger
}

func NewService(
	fanout usecase.FanoutUseCase,
	channels []adapter.ChannelSender,
	pool *worker.Pool,
	deduper *infraRedis.Deduper,
	dedupeTTL time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		fanout:    fanout,
		channels:  channels,
		pool:      pool,
		deduper:   deduper,
		dedupeTTL: dedupeTTL,
		log:       log.With().Str("component", "notifier").Logger(),
	}
}

func (s *Service) Enqueue(ctx context.Context, event model.NotificationEvent) {
	key := dedupeKey(event)
	token := ""
	if s.deduper != nil {
		var err error
		token, err = s.deduper.Claim(ctx, key, s.dedupeTTL)
		if err != nil {
			// Dedupe is best-effort; prefer a possible duplicate over
			// silently dropping the event.
			s.log.Warn().Err(err).Str("key", key).Msg("dedupe claim failed, dispatching anyway")
		} else if token == "" {
			s.log.Debug().Str("key", key).Msg("duplicate event suppressed")
			return
		}
	}

	err := s.pool.Submit(func(taskCtx context.Context) error {
		s.dispatch(taskCtx, event, key, token)
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("event", string(event.Kind)).
			Str("recipient_id", event.RecipientID).
			Msg("notification enqueue failed")
		s.release(key, token)
	}
}

func (s *Service) dispatch(ctx context.Context, event model.NotificationEvent, key, token string) {
	results, err := s.fanout.Dispatch(ctx, event, s.channels)
	if err != nil {
		s.log.Error().Err(err).Str("event", string(event.Kind)).Msg("dispatch rejected")
		s.release(key, token)
		return
	}

	anyDelivered := false
	for _, r := range results {
		outcome := "delivered"
		switch {
		case r.Err != nil:
			outcome = "error"
		case !r.Delivered:
			outcome = "skipped"
		default:
			anyDelivered = true
		}
		metrics.IncNotification(r.Channel, outcome)
		metrics.ObserveNotificationLatency(r.Channel, float64(r.Elapsed.Milliseconds()))
	}
	if !anyDelivered {
		// Nothing got through on any channel; free the claim so a retry
		// (manual or from a redelivered event) is not suppressed.
		s.release(key, token)
	}
}

func (s *Service) release(key, token string) {
	if s.deduper == nil || token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.deduper.Release(ctx, key, token); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("dedupe release failed")
	}
}

func dedupeKey(event model.NotificationEvent) string {
	ref := event.Params["invoice"]
	if ref == "" {
		ref = event.OccurredAt.UTC().Format(time.RFC3339)
	}
	return "notif:dedupe:" + string(event.Kind) + ":" + event.RecipientID + ":" + ref
}
