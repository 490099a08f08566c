package repository

import (
	"context"

	"membership-billing/internal/domain/model"
)

// PlanRepository is the read-mostly port for the plan catalog. The core never
// mutates plans; Save exists for the operator-facing admin surface and seeding.
type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Plan, error)
}
