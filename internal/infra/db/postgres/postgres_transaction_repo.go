package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

var _ repository.TransactionRepository = (*transactionRepo)(nil)

type transactionRepo struct{ pool *pgxpool.Pool }

func NewTransactionRepo(pool *pgxpool.Pool) *transactionRepo {
	return &transactionRepo{pool: pool}
}

const transactionColumns = `id, invoice_number, member_id, plan_id, amount, discount, policy, status, referrer_id, proof_ref, notes, reject_reason, created_at, paid_at, expires_at, updated_at`

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	t := &model.Transaction{}
	if err := row.Scan(&t.ID, &t.InvoiceNumber, &t.MemberID, &t.PlanID, &t.Amount, &t.Discount, &t.Policy, &t.Status, &t.ReferrerID, &t.ProofRef, &t.Notes, &t.RejectReason, &t.CreatedAt, &t.PaidAt, &t.ExpiresAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

func (r *transactionRepo) Save(ctx context.Context, tx repository.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (
  ` + transactionColumns + `
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
) ON CONFLICT (id) DO UPDATE SET
  proof_ref=$10, notes=$11, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.InvoiceNumber, t.MemberID, t.PlanID, t.Amount, t.Discount, t.Policy, t.Status,
		t.ReferrerID, t.ProofRef, t.Notes, t.RejectReason, t.CreatedAt, t.PaidAt, t.ExpiresAt, t.UpdatedAt,
	)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrStorageFailure
	}
	return nil
}

func (r *transactionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanTransaction(row)
}

func (r *transactionRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE status=$1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, status, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrStorageFailure
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// UpdateStatusIfPending atomically moves a transaction out of 'pending'.
// Returns false when the row was already terminal: concurrent confirmers
// observe exactly one winner.
func (r *transactionRepo) UpdateStatusIfPending(
	ctx context.Context, tx repository.Tx, id string, status model.TransactionStatus, fields repository.StatusFields,
) (bool, error) {
	const q = `
UPDATE transactions
   SET status = $2,
       paid_at = COALESCE($3, paid_at),
       reject_reason = COALESCE($4, reject_reason),
       notes = COALESCE($5, notes),
       updated_at = NOW()
 WHERE id = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, string(status), fields.PaidAt, fields.RejectReason, fields.Notes)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrStorageFailure
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *transactionRepo) ListPendingExpired(ctx context.Context, tx repository.Tx, before time.Time, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE status='pending' AND expires_at IS NOT NULL AND expires_at < $1 ORDER BY expires_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, before, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrStorageFailure
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
