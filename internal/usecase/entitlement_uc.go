// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase is the ledger of member entitlements.
type EntitlementUseCase interface {
	// Current returns the member's active entitlement, or nil when the
	// member has none (or it has expired). DaysRemaining on the returned
	// value is always >= 0.
	Current(ctx context.Context, memberID string) (*model.Entitlement, error)

	// Activate atomically ends the member's prior active entitlement and
	// starts a new one for the given plan. It runs inside the caller's
	// storage transaction so a failure aborts the enclosing confirm.
	// Activation is idempotent per transactionID: a repeat call returns
	// the entitlement created the first time.
	Activate(ctx context.Context, tx repository.Tx, memberID string, plan *model.Plan, paidAmount int64, transactionID string) (*model.Entitlement, error)
}

type entitlementUC struct {
	ents repository.EntitlementRepository
	log  *zerolog.Logger
	now  func() time.Time
}

func NewEntitlementUseCase(ents repository.EntitlementRepository, logger *zerolog.Logger) *entitlementUC {
	compLog := logger.With().Str("component", "EntitlementUC").Logger()
	return &entitlementUC{ents: ents, log: &compLog, now: time.Now}
}

func (u *entitlementUC) Current(ctx context.Context, memberID string) (*model.Entitlement, error) {
	if memberID == "" {
		return nil, domain.ErrInvalidArgument
	}
	ent, err := u.ents.FindActiveByMember(ctx, repository.NoTX, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !ent.ActiveAt(u.now()) {
		// Grace rows past their end timestamp read as "no entitlement".
		return nil, nil
	}
	return ent, nil
}

func (u *entitlementUC) Activate(ctx context.Context, tx repository.Tx, memberID string, plan *model.Plan, paidAmount int64, transactionID string) (*model.Entitlement, error) {
	if memberID == "" || plan.IsZero() || transactionID == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Idempotence guard: the state machine only confirms once, but a retried
	// confirm after a crash between CAS and commit must not double-grant.
	if existing, err := u.ents.FindByTransaction(ctx, tx, transactionID); err == nil && existing != nil {
		return existing, nil
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	ent, err := model.NewEntitlement(uuid.NewString(), memberID, plan, paidAmount, transactionID)
	if err != nil {
		return nil, err
	}
	if err := u.ents.Supersede(ctx, tx, ent); err != nil {
		u.log.Error().Err(err).Str("member_id", memberID).Str("plan_id", plan.ID).Msg("entitlement supersede failed")
		return nil, err
	}
	u.log.Info().
		Str("member_id", memberID).
		Str("plan_id", plan.ID).
		Str("transaction_id", transactionID).
		Msg("entitlement activated")
	return ent, nil
}
