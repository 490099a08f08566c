package model

// Policy selects the pricing rule applied when a member switches plans.
type Policy string

const (
	// PolicyAccumulate credits the unexpired value of the current
	// entitlement against the target price.
	PolicyAccumulate Policy = "ACCUMULATE"
	// PolicyFull charges the target plan's full price.
	PolicyFull Policy = "FULL"
)

func (p Policy) Valid() bool { return p == PolicyAccumulate || p == PolicyFull }

// ProrationQuote is a pure calculation result; it is never persisted.
// The payable amount must be copied onto the Transaction at creation time.
type ProrationQuote struct {
	PlanID   string
	Price    int64 // target plan price
	Discount int64 // value of the unexpired current entitlement, capped at Price
	Payable  int64 // Price - Discount, floored at 0
	Policy   Policy
}
