// File: internal/usecase/confirmation_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ ConfirmationUseCase = (*confirmationUC)(nil)

// ConfirmationUseCase is the operator-facing approve/reject workflow.
// It checks confirmation rights with the operator directory before touching
// the state machine, and stamps operator identity into the audit notes.
type ConfirmationUseCase interface {
	Approve(ctx context.Context, transactionID, operatorID, note string) (*model.Transaction, error)
	Reject(ctx context.Context, transactionID, operatorID, reason string) (*model.Transaction, error)
}

type confirmationUC struct {
	txUC TransactionUseCase
	ops  adapter.OperatorDirectory
	log  *zerolog.Logger
	now  func() time.Time
}

func NewConfirmationUseCase(txUC TransactionUseCase, ops adapter.OperatorDirectory, logger *zerolog.Logger) *confirmationUC {
	compLog := logger.With().Str("component", "ConfirmationUC").Logger()
	return &confirmationUC{txUC: txUC, ops: ops, log: &compLog, now: time.Now}
}

func (u *confirmationUC) Approve(ctx context.Context, transactionID, operatorID, note string) (*model.Transaction, error) {
	if err := u.authorize(ctx, operatorID); err != nil {
		return nil, err
	}
	audit := fmt.Sprintf("[APPROVED by %s at %s]", operatorID, u.now().Format(time.RFC3339))
	if note != "" {
		audit += " " + note
	}
	t, err := u.txUC.Confirm(ctx, transactionID, audit)
	if err != nil {
		u.log.Warn().Err(err).Str("transaction_id", transactionID).Str("operator_id", operatorID).Msg("approve failed")
		return nil, err
	}
	return t, nil
}

func (u *confirmationUC) Reject(ctx context.Context, transactionID, operatorID, reason string) (*model.Transaction, error) {
	if err := u.authorize(ctx, operatorID); err != nil {
		return nil, err
	}
	audit := fmt.Sprintf("[REJECTED by %s at %s]", operatorID, u.now().Format(time.RFC3339))
	t, err := u.txUC.Reject(ctx, transactionID, reason, audit)
	if err != nil {
		u.log.Warn().Err(err).Str("transaction_id", transactionID).Str("operator_id", operatorID).Msg("reject failed")
		return nil, err
	}
	return t, nil
}

func (u *confirmationUC) authorize(ctx context.Context, operatorID string) error {
	if operatorID == "" {
		return domain.ErrUnauthorizedOperator
	}
	ok, err := u.ops.CanConfirm(ctx, operatorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorizedOperator
	}
	return nil
}
