package repository

import (
	"context"

	"membership-billing/internal/domain/model"
)

// EntitlementRepository is the port for the member entitlement ledger.
type EntitlementRepository interface {
	// FindActiveByMember returns the member's active entitlement, or
	// domain.ErrNotFound when the member has none.
	FindActiveByMember(ctx context.Context, tx Tx, memberID string) (*model.Entitlement, error)

	// FindByTransaction returns the entitlement created by a given
	// transaction, if any. Used for idempotent re-activation checks.
	FindByTransaction(ctx context.Context, tx Tx, transactionID string) (*model.Entitlement, error)

	// Supersede atomically ends the member's prior active entitlement (if
	// any) and inserts the new one. All-or-nothing: on failure the prior
	// entitlement is left untouched.
	Supersede(ctx context.Context, tx Tx, next *model.Entitlement) error
}
