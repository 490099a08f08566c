package model

import (
	"time"

	"membership-billing/internal/domain"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"   // awaiting payment proof / operator decision
	TransactionStatusConfirmed TransactionStatus = "confirmed" // payment asserted, entitlement granted
	TransactionStatusRejected  TransactionStatus = "rejected"  // operator declined with a reason
	TransactionStatusExpired   TransactionStatus = "expired"   // deadline passed before a decision
)

// Terminal reports whether no further transition may leave the status.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusConfirmed || s == TransactionStatusRejected || s == TransactionStatusExpired
}

// Transaction records one payment attempt for a plan. The amount is captured
// from the proration quote at creation time so later plan price changes cannot
// alter an in-flight payment. Status transitions are the only mutation; the
// notes field is an append-only audit trail.
type Transaction struct {
	ID            string
	InvoiceNumber string // ULID-based operator-facing reference
	MemberID      string
	PlanID        string
	Amount        int64 // payable captured from the quote, smallest unit
	Discount      int64 // proration credit captured alongside
	Policy        Policy
	Status        TransactionStatus
	ReferrerID    string  // optional referring affiliate member
	ProofRef      string  // optional proof-of-payment reference
	Notes         string  // append-only audit notes
	RejectReason  string  // set on rejection
	CreatedAt     time.Time
	PaidAt        *time.Time // set on confirmation
	ExpiresAt     *time.Time // optional decision deadline
	UpdatedAt     time.Time
}

// CanTransition validates a status edge. pending is the only non-terminal
// state, so this reduces to "from pending to any terminal state".
func (t *Transaction) CanTransition(to TransactionStatus) error {
	if t.Status == TransactionStatusConfirmed {
		return domain.ErrAlreadyConfirmed
	}
	if t.Status.Terminal() {
		return domain.ErrInvalidTransition
	}
	if !to.Terminal() {
		return domain.ErrInvalidTransition
	}
	return nil
}

// AppendNote adds an audit line without ever rewriting earlier entries.
func (t *Transaction) AppendNote(line string) {
	if line == "" {
		return
	}
	if t.Notes == "" {
		t.Notes = line
		return
	}
	t.Notes += "\n" + line
}
