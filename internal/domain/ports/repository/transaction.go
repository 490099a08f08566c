package repository

import (
	"context"
	"time"

	"membership-billing/internal/domain/model"
)

// TransactionRepository is the port for payment transaction persistence.
type TransactionRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Transaction) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Transaction, error)
	ListByStatus(ctx context.Context, tx Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error)

	// UpdateStatusIfPending atomically moves a transaction out of pending
	// (compare-and-swap on status). Returns false when the row was already
	// terminal, so concurrent confirmers observe exactly one winner.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.TransactionStatus, fields StatusFields) (bool, error)

	// ListPendingExpired returns pending transactions whose deadline passed
	// before the given instant.
	ListPendingExpired(ctx context.Context, tx Tx, before time.Time, limit int) ([]*model.Transaction, error)
}

// StatusFields carries the columns written together with a status CAS.
// Nil pointers mean "leave unchanged".
type StatusFields struct {
	PaidAt       *time.Time
	RejectReason *string
	Notes        *string
}
