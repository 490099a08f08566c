// File: internal/usecase/transaction_uc.go
package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ TransactionUseCase = (*transactionUC)(nil)

// TransactionUseCase owns the payment transaction lifecycle:
// pending -> confirmed | rejected | expired, all three terminal.
type TransactionUseCase interface {
	// Create opens a pending transaction, capturing the quote's payable
	// amount so later plan price changes cannot alter it.
	Create(ctx context.Context, memberID, planID string, quote *model.ProrationQuote, referrerID string) (*model.Transaction, error)

	// Confirm moves a pending transaction to confirmed, activates the
	// entitlement in the same storage transaction, and hands approval
	// notifications to the notifier after commit. A transaction that is
	// already confirmed yields ErrAlreadyConfirmed; rejected/expired yield
	// ErrInvalidTransition.
	Confirm(ctx context.Context, id, note string) (*model.Transaction, error)

	// Reject moves a pending transaction to rejected. The reason is
	// mandatory and recorded on the transaction.
	Reject(ctx context.Context, id, reason, note string) (*model.Transaction, error)

	// Expire moves a pending transaction past its deadline to expired.
	Expire(ctx context.Context, id string) (*model.Transaction, error)

	// ListPending returns pending transactions for the operator queue.
	ListPending(ctx context.Context, limit int) ([]*model.Transaction, error)

	FindByID(ctx context.Context, id string) (*model.Transaction, error)
}

type transactionUC struct {
	txs      repository.TransactionRepository
	plans    repository.PlanRepository
	ents     EntitlementUseCase
	tm       repository.TransactionManager
	notifier adapter.EventNotifier
	log      *zerolog.Logger

	// pendingTTL sets the decision deadline on new transactions; zero
	// means no deadline.
	pendingTTL time.Duration
}

func NewTransactionUseCase(
	txs repository.TransactionRepository,
	plans repository.PlanRepository,
	ents EntitlementUseCase,
	tm repository.TransactionManager,
	notifier adapter.EventNotifier,
	pendingTTL time.Duration,
	logger *zerolog.Logger,
) *transactionUC {
	compLog := logger.With().Str("component", "TransactionUC").Logger()
	return &transactionUC{
		txs:        txs,
		plans:      plans,
		ents:       ents,
		tm:         tm,
		notifier:   notifier,
		pendingTTL: pendingTTL,
		log:        &compLog,
	}
}

func (u *transactionUC) Create(ctx context.Context, memberID, planID string, quote *model.ProrationQuote, referrerID string) (*model.Transaction, error) {
	if memberID == "" || planID == "" || quote == nil {
		return nil, domain.ErrInvalidArgument
	}
	if quote.PlanID != "" && quote.PlanID != planID {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.plans.FindByID(ctx, repository.NoTX, planID); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &model.Transaction{
		ID:            uuid.NewString(),
		InvoiceNumber: "INV" + ulid.Make().String(),
		MemberID:      memberID,
		PlanID:        planID,
		Amount:        quote.Payable,
		Discount:      quote.Discount,
		Policy:        quote.Policy,
		Status:        model.TransactionStatusPending,
		ReferrerID:    referrerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if u.pendingTTL > 0 {
		deadline := now.Add(u.pendingTTL)
		t.ExpiresAt = &deadline
	}
	if err := u.txs.Save(ctx, repository.NoTX, t); err != nil {
		return nil, err
	}
	u.log.Info().
		Str("transaction_id", t.ID).
		Str("member_id", memberID).
		Str("plan_id", planID).
		Int64("amount", t.Amount).
		Msg("transaction created")
	return t, nil
}

func (u *transactionUC) Confirm(ctx context.Context, id, note string) (*model.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}

	var confirmed *model.Transaction
	var plan *model.Plan
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		t, err := u.txs.FindByID(ctx, tx, id) // row-locked inside the tx
		if err != nil {
			return err
		}
		if err := t.CanTransition(model.TransactionStatusConfirmed); err != nil {
			return err
		}
		plan, err = u.plans.FindByID(ctx, tx, t.PlanID)
		if err != nil {
			return err
		}

		now := time.Now()
		if note != "" {
			t.AppendNote(note)
		}
		notes := t.Notes
		ok, err := u.txs.UpdateStatusIfPending(ctx, tx, t.ID, model.TransactionStatusConfirmed, repository.StatusFields{
			PaidAt: &now,
			Notes:  &notes,
		})
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race despite the row lock; treat like any other
			// terminal-state conflict.
			return domain.ErrInvalidTransition
		}

		// Entitlement activation shares this tx: a storage failure here
		// rolls the status change back, never leaving a confirmed
		// transaction without an entitlement.
		if _, err := u.ents.Activate(ctx, tx, t.MemberID, plan, t.Amount, t.ID); err != nil {
			return err
		}

		t.Status = model.TransactionStatusConfirmed
		t.PaidAt = &now
		t.UpdatedAt = now
		confirmed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Str("transaction_id", confirmed.ID).
		Str("member_id", confirmed.MemberID).
		Int64("amount", confirmed.Amount).
		Msg("transaction confirmed")
	u.notifyConfirmed(ctx, confirmed, plan)
	return confirmed, nil
}

func (u *transactionUC) Reject(ctx context.Context, id, reason, note string) (*model.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrMissingReason
	}

	var rejected *model.Transaction
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		t, err := u.txs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := t.CanTransition(model.TransactionStatusRejected); err != nil {
			return err
		}

		now := time.Now()
		if note != "" {
			t.AppendNote(note)
		}
		notes := t.Notes
		ok, err := u.txs.UpdateStatusIfPending(ctx, tx, t.ID, model.TransactionStatusRejected, repository.StatusFields{
			RejectReason: &reason,
			Notes:        &notes,
		})
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		t.Status = model.TransactionStatusRejected
		t.RejectReason = reason
		t.UpdatedAt = now
		rejected = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("transaction_id", rejected.ID).Str("reason", reason).Msg("transaction rejected")
	u.notify(ctx, model.NotificationEvent{
		Kind:        model.EventPaymentRejected,
		RecipientID: rejected.MemberID,
		Urgency:     model.UrgencyNormal,
		Params: map[string]string{
			"invoice": rejected.InvoiceNumber,
			"amount":  strconv.FormatInt(rejected.Amount, 10),
			"reason":  reason,
		},
		OccurredAt: time.Now(),
	})
	return rejected, nil
}

func (u *transactionUC) Expire(ctx context.Context, id string) (*model.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}

	var expired *model.Transaction
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		t, err := u.txs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := t.CanTransition(model.TransactionStatusExpired); err != nil {
			return err
		}
		if t.ExpiresAt == nil || time.Now().Before(*t.ExpiresAt) {
			return domain.ErrNotExpiredYet
		}
		ok, err := u.txs.UpdateStatusIfPending(ctx, tx, t.ID, model.TransactionStatusExpired, repository.StatusFields{})
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		t.Status = model.TransactionStatusExpired
		t.UpdatedAt = time.Now()
		expired = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("transaction_id", expired.ID).Msg("transaction expired")
	return expired, nil
}

func (u *transactionUC) ListPending(ctx context.Context, limit int) ([]*model.Transaction, error) {
	return u.txs.ListByStatus(ctx, repository.NoTX, model.TransactionStatusPending, limit)
}

func (u *transactionUC) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	return u.txs.FindByID(ctx, repository.NoTX, id)
}

func (u *transactionUC) notifyConfirmed(ctx context.Context, t *model.Transaction, plan *model.Plan) {
	u.notify(ctx, model.NotificationEvent{
		Kind:        model.EventPaymentApproved,
		RecipientID: t.MemberID,
		Urgency:     model.UrgencyNormal,
		Params: map[string]string{
			"invoice": t.InvoiceNumber,
			"plan":    plan.Name,
			"amount":  strconv.FormatInt(t.Amount, 10),
		},
		OccurredAt: time.Now(),
	})
	if t.ReferrerID != "" {
		u.notify(ctx, model.NotificationEvent{
			Kind:        model.EventCommissionEarned,
			RecipientID: t.ReferrerID,
			Urgency:     model.UrgencyHigh,
			Params: map[string]string{
				"invoice": t.InvoiceNumber,
				"plan":    plan.Name,
				"amount":  strconv.FormatInt(t.Amount, 10),
			},
			OccurredAt: time.Now(),
		})
	}
}

func (u *transactionUC) notify(ctx context.Context, ev model.NotificationEvent) {
	if u.notifier == nil {
		return
	}
	u.notifier.Enqueue(ctx, ev)
}
