package postgres

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/metrics"
)

var _ repository.EntitlementRepository = (*entitlementRepo)(nil)

type entitlementRepo struct{ pool *pgxpool.Pool }

func NewEntitlementRepo(pool *pgxpool.Pool) *entitlementRepo {
	return &entitlementRepo{pool: pool}
}

const entitlementColumns = `id, member_id, plan_id, plan_duration, plan_price, paid_amount, transaction_id, start_at, end_at, status, created_at`

func scanEntitlement(row pgx.Row) (*model.Entitlement, error) {
	e := &model.Entitlement{}
	if err := row.Scan(&e.ID, &e.MemberID, &e.PlanID, &e.PlanDuration, &e.PlanPrice, &e.PaidAmount, &e.TransactionID, &e.StartAt, &e.EndAt, &e.Status, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return e, nil
}

func (r *entitlementRepo) FindActiveByMember(ctx context.Context, tx repository.Tx, memberID string) (*model.Entitlement, error) {
	q := `SELECT ` + entitlementColumns + ` FROM entitlements WHERE member_id=$1 AND status='active' LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, memberID)
	if err != nil {
		return nil, err
	}
	return scanEntitlement(row)
}

func (r *entitlementRepo) FindByTransaction(ctx context.Context, tx repository.Tx, transactionID string) (*model.Entitlement, error) {
	const q = `SELECT ` + entitlementColumns + ` FROM entitlements WHERE transaction_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, transactionID)
	if err != nil {
		return nil, err
	}
	return scanEntitlement(row)
}

// Supersede ends the member's prior active entitlement and inserts the new
// one in a single transaction, serialized per member with an advisory xact
// lock so two concurrent activations cannot leave two active rows.
// It must be called with a pgx.Tx handle.
func (r *entitlementRepo) Supersede(ctx context.Context, tx repository.Tx, next *model.Entitlement) error {
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		return domain.ErrInvalidExecContext
	}

	if _, err := pgtx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, hashToInt64(next.MemberID)); err != nil {
		return domain.ErrStorageFailure
	}

	const endPrior = `
UPDATE entitlements
   SET status='superseded',
       end_at = LEAST(COALESCE(end_at, NOW()), NOW())
 WHERE member_id=$1 AND status='active';`
	if _, err := pgtx.Exec(ctx, endPrior, next.MemberID); err != nil {
		return domain.ErrStorageFailure
	}

	const insert = `
INSERT INTO entitlements (
  ` + entitlementColumns + `
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);`
	if _, err := pgtx.Exec(ctx, insert,
		next.ID, next.MemberID, next.PlanID, next.PlanDuration, next.PlanPrice,
		next.PaidAmount, next.TransactionID, next.StartAt, next.EndAt, next.Status, next.CreatedAt,
	); err != nil {
		return domain.ErrStorageFailure
	}
	metrics.IncActivation(string(next.PlanDuration))
	return nil
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}
