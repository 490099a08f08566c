package model

import (
	"time"

	"membership-billing/internal/domain"
)

type EntitlementStatus string

const (
	EntitlementStatusActive     EntitlementStatus = "active"
	EntitlementStatusSuperseded EntitlementStatus = "superseded"
	EntitlementStatusExpired    EntitlementStatus = "expired"
)

// Entitlement records a member's currently active paid access tier.
// A member holds at most one active entitlement; activating a new one
// supersedes the prior atomically (see EntitlementRepository.Supersede).
type Entitlement struct {
	ID            string
	MemberID      string
	PlanID        string
	PlanDuration  DurationClass
	PlanPrice     int64 // plan price captured at activation, smallest unit
	PaidAmount    int64 // what the member actually paid after proration
	TransactionID string
	StartAt       time.Time
	EndAt         *time.Time // nil iff PlanDuration is LIFETIME
	Status        EntitlementStatus
	CreatedAt     time.Time
}

// NewEntitlement builds an active entitlement starting now. Lifetime plans
// get no end timestamp.
func NewEntitlement(id, memberID string, plan *Plan, paidAmount int64, transactionID string) (*Entitlement, error) {
	if id == "" || memberID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	e := &Entitlement{
		ID:            id,
		MemberID:      memberID,
		PlanID:        plan.ID,
		PlanDuration:  plan.Duration,
		PlanPrice:     plan.Price,
		PaidAmount:    paidAmount,
		TransactionID: transactionID,
		StartAt:       now,
		Status:        EntitlementStatusActive,
		CreatedAt:     now,
	}
	if !plan.Duration.IsLifetime() {
		end := now.Add(time.Duration(plan.Duration.Days()) * 24 * time.Hour)
		e.EndAt = &end
	}
	return e, nil
}

func (e *Entitlement) IsLifetime() bool { return e.PlanDuration.IsLifetime() }

// DaysRemaining reports whole days until expiry, clamped at zero.
// Lifetime entitlements report the sentinel duration; callers must check
// IsLifetime before doing proration math.
func (e *Entitlement) DaysRemaining(now time.Time) int64 {
	if e.IsLifetime() || e.EndAt == nil {
		return e.PlanDuration.Days()
	}
	if !now.Before(*e.EndAt) {
		return 0
	}
	return int64(e.EndAt.Sub(now) / (24 * time.Hour))
}

// ActiveAt reports whether the entitlement grants access at the given instant.
func (e *Entitlement) ActiveAt(now time.Time) bool {
	if e.Status != EntitlementStatusActive {
		return false
	}
	if e.EndAt == nil {
		return true
	}
	return now.Before(*e.EndAt)
}
