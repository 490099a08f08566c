// File: internal/usecase/proration_uc.go
package usecase

import (
	"context"
	"time"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
)

// Compile-time check
var _ ProrationUseCase = (*prorationUC)(nil)

// ProrationUseCase computes the price a member must pay to switch plans.
// Quote is a pure calculation: no storage, no side effects.
type ProrationUseCase interface {
	// Quote prices a switch from the member's current entitlement (nil if
	// none) to the target plan under the given policy. The returned quote
	// is never persisted; callers capture Payable on the Transaction.
	Quote(ctx context.Context, current *model.Entitlement, target *model.Plan, policy model.Policy) (*model.ProrationQuote, error)
}

// pricingRule is the outcome of the (current class, target class, policy)
// decision table. Keeping the match explicit means the lifetime carve-out
// cannot be silently bypassed when new duration classes are added.
type pricingRule int

const (
	ruleFullPrice pricingRule = iota
	ruleAccumulate
	ruleRejectLifetime
)

type prorationUC struct {
	now func() time.Time
}

func NewProrationUseCase() *prorationUC {
	return &prorationUC{now: time.Now}
}

func (u *prorationUC) Quote(ctx context.Context, current *model.Entitlement, target *model.Plan, policy model.Policy) (*model.ProrationQuote, error) {
	if target.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if !policy.Valid() {
		return nil, domain.ErrInvalidPolicy
	}

	switch selectRule(current, target, policy) {
	case ruleRejectLifetime:
		return nil, domain.ErrAlreadyLifetime

	case ruleFullPrice:
		return &model.ProrationQuote{
			PlanID:  target.ID,
			Price:   target.Price,
			Payable: target.Price,
			Policy:  policy,
		}, nil

	case ruleAccumulate:
		// Integer smallest-unit math throughout: floor division for the
		// daily rate, discount capped at the target price.
		dailyRate := current.PlanPrice / current.PlanDuration.Days()
		remaining := dailyRate * current.DaysRemaining(u.now())
		discount := remaining
		if discount > target.Price {
			discount = target.Price
		}
		payable := target.Price - discount
		if payable < 0 {
			payable = 0
		}
		return &model.ProrationQuote{
			PlanID:   target.ID,
			Price:    target.Price,
			Discount: discount,
			Payable:  payable,
			Policy:   policy,
		}, nil
	}
	return nil, domain.ErrInvalidPolicy
}

// selectRule is the decision table from the upgrade pricing rules:
//
//	current LIFETIME  x any target       -> reject (nothing to upgrade to)
//	any current       x target LIFETIME  -> full price (lifetime never prorated)
//	no current        x temporal target  -> full price
//	temporal current  x temporal target  -> policy decides
func selectRule(current *model.Entitlement, target *model.Plan, policy model.Policy) pricingRule {
	if current != nil && current.IsLifetime() {
		return ruleRejectLifetime
	}
	if target.Duration.IsLifetime() {
		return ruleFullPrice
	}
	if current == nil {
		return ruleFullPrice
	}
	if policy == model.PolicyAccumulate {
		return ruleAccumulate
	}
	return ruleFullPrice
}
