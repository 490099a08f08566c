package model

import (
	"time"

	"membership-billing/internal/domain"
)

// DurationClass is the billing-period category of a plan.
type DurationClass string

const (
	DurationOneMonth     DurationClass = "ONE_MONTH"
	DurationThreeMonths  DurationClass = "THREE_MONTHS"
	DurationSixMonths    DurationClass = "SIX_MONTHS"
	DurationTwelveMonths DurationClass = "TWELVE_MONTHS"
	DurationLifetime     DurationClass = "LIFETIME"
)

// Days returns the fixed day count used for proration math.
// The LIFETIME value is a sentinel divisor only; lifetime entitlements
// never take the prorated path.
func (d DurationClass) Days() int64 {
	switch d {
	case DurationOneMonth:
		return 30
	case DurationThreeMonths:
		return 90
	case DurationSixMonths:
		return 180
	case DurationTwelveMonths:
		return 365
	case DurationLifetime:
		return 36500
	}
	return 30
}

func (d DurationClass) IsLifetime() bool { return d == DurationLifetime }

func (d DurationClass) Valid() bool {
	switch d {
	case DurationOneMonth, DurationThreeMonths, DurationSixMonths, DurationTwelveMonths, DurationLifetime:
		return true
	}
	return false
}

// Plan represents a purchasable membership tier. Price is stored in the
// smallest currency unit (integer) to avoid float rounding drift.
// Plans are created and edited by operators, never by the core; once an
// active entitlement references a plan it is treated as immutable.
type Plan struct {
	ID        string
	Name      string
	Duration  DurationClass
	Price     int64
	Features  []string
	Active    bool
	CreatedAt time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, duration DurationClass, price int64, features []string) (*Plan, error) {
	if id == "" || name == "" || !duration.Valid() || price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:        id,
		Name:      name,
		Duration:  duration,
		Price:     price,
		Features:  features,
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}
