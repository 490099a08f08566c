// File: internal/infra/sched/expiry_worker.go
package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/metrics"
	"membership-billing/internal/usecase"
)

// ExpiryWorker periodically sweeps pending transactions whose review
// deadline has passed and expires them via the use case.
type ExpiryWorker struct {
	interval time.Duration
	batchMax int
	txRepo   repository.TransactionRepository
	txUC     usecase.TransactionUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, batchMax int, txRepo repository.TransactionRepository, txUC usecase.TransactionUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		batchMax: batchMax,
		txRepo:   txRepo,
		txUC:     txUC,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.sweep(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry sweep error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("pending transactions expired")
			}
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) (int, error) {
	overdue, err := w.txRepo.ListPendingExpired(ctx, repository.NoTX, time.Now(), w.batchMax)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, t := range overdue {
		if _, err := w.txUC.Expire(ctx, t.ID); err != nil {
			// A concurrent confirm or reject winning the race is fine.
			if errors.Is(err, domain.ErrAlreadyConfirmed) || errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			w.log.Error().Err(err).Str("transaction_id", t.ID).Msg("expire failed")
			continue
		}
		metrics.IncTransaction("expired")
		expired++
	}
	return expired, nil
}
