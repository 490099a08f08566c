//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"membership-billing/internal/domain"
)

// --- Duration Tests ---

func TestDurationClass_Days(t *testing.T) {
	cases := map[DurationClass]int64{
		DurationOneMonth:     30,
		DurationThreeMonths:  90,
		DurationSixMonths:    180,
		DurationTwelveMonths: 365,
		DurationLifetime:     36500,
	}
	for d, want := range cases {
		if got := d.Days(); got != want {
			t.Errorf("%s: expected %d days, but got %d", d, want, got)
		}
	}
}

func TestDurationClass_Valid(t *testing.T) {
	if DurationClass("TWO_WEEKS").Valid() {
		t.Error("expected unknown duration class to be invalid")
	}
	if !DurationLifetime.Valid() {
		t.Error("expected LIFETIME to be valid")
	}
}

// --- Plan Tests ---

func TestNewPlan(t *testing.T) {
	t.Run("should create a plan successfully", func(t *testing.T) {
		p, err := NewPlan("p1", "Annual", DurationTwelveMonths, 365_000, []string{"standard"})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !p.Active {
			t.Error("expected new plan to be active")
		}
	})

	t.Run("should fail on bad input", func(t *testing.T) {
		cases := []struct {
			name     string
			id       string
			planName string
			duration DurationClass
			price    int64
		}{
			{"empty id", "", "Annual", DurationTwelveMonths, 1},
			{"empty name", "p1", "", DurationTwelveMonths, 1},
			{"bad duration", "p1", "Annual", DurationClass("TWO_WEEKS"), 1},
			{"negative price", "p1", "Annual", DurationTwelveMonths, -1},
		}
		for _, tc := range cases {
			if _, err := NewPlan(tc.id, tc.planName, tc.duration, tc.price, nil); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
			}
		}
	})
}

// --- Entitlement Tests ---

func TestNewEntitlement(t *testing.T) {
	plan := &Plan{ID: "p1", Name: "Monthly", Duration: DurationOneMonth, Price: 30_000}
	lifetime := &Plan{ID: "p2", Name: "Lifetime", Duration: DurationLifetime, Price: 3_650_000}

	t.Run("temporal plan sets an end timestamp", func(t *testing.T) {
		e, err := NewEntitlement("e1", "m1", plan, 30_000, "tx1")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if e.EndAt == nil {
			t.Fatal("expected EndAt to be set for a temporal plan")
		}
		if got := e.EndAt.Sub(e.StartAt); got != 30*24*time.Hour {
			t.Errorf("expected 30 day window, got %v", got)
		}
	})

	t.Run("lifetime plan never ends", func(t *testing.T) {
		e, err := NewEntitlement("e1", "m1", lifetime, 3_650_000, "tx1")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if e.EndAt != nil {
			t.Errorf("expected nil EndAt for lifetime, got %v", e.EndAt)
		}
		if !e.ActiveAt(time.Now().Add(100 * 365 * 24 * time.Hour)) {
			t.Error("expected lifetime entitlement to stay active")
		}
	})

	t.Run("should fail on missing member", func(t *testing.T) {
		if _, err := NewEntitlement("e1", "", plan, 1, "tx1"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestEntitlement_DaysRemaining(t *testing.T) {
	now := time.Now()

	t.Run("clamps at zero after expiry", func(t *testing.T) {
		end := now.Add(-time.Hour)
		e := &Entitlement{PlanDuration: DurationOneMonth, EndAt: &end, Status: EntitlementStatusActive}
		if got := e.DaysRemaining(now); got != 0 {
			t.Errorf("expected 0 days remaining, got %d", got)
		}
	})

	t.Run("floors partial days", func(t *testing.T) {
		end := now.Add(36 * time.Hour) // one and a half days
		e := &Entitlement{PlanDuration: DurationOneMonth, EndAt: &end, Status: EntitlementStatusActive}
		if got := e.DaysRemaining(now); got != 1 {
			t.Errorf("expected 1 whole day remaining, got %d", got)
		}
	})
}

// --- Transaction Tests ---

func TestTransaction_CanTransition(t *testing.T) {
	t.Run("pending may move to any terminal state", func(t *testing.T) {
		for _, to := range []TransactionStatus{TransactionStatusConfirmed, TransactionStatusRejected, TransactionStatusExpired} {
			tx := &Transaction{Status: TransactionStatusPending}
			if err := tx.CanTransition(to); err != nil {
				t.Errorf("pending -> %s: expected no error, got %v", to, err)
			}
		}
	})

	t.Run("confirmed is distinguishable from other terminal states", func(t *testing.T) {
		tx := &Transaction{Status: TransactionStatusConfirmed}
		if err := tx.CanTransition(TransactionStatusConfirmed); !errors.Is(err, domain.ErrAlreadyConfirmed) {
			t.Errorf("expected ErrAlreadyConfirmed, got %v", err)
		}
	})

	t.Run("rejected and expired refuse any transition", func(t *testing.T) {
		for _, from := range []TransactionStatus{TransactionStatusRejected, TransactionStatusExpired} {
			tx := &Transaction{Status: from}
			if err := tx.CanTransition(TransactionStatusConfirmed); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("%s -> confirmed: expected ErrInvalidTransition, got %v", from, err)
			}
		}
	})

	t.Run("pending -> pending is not a transition", func(t *testing.T) {
		tx := &Transaction{Status: TransactionStatusPending}
		if err := tx.CanTransition(TransactionStatusPending); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestTransaction_AppendNote(t *testing.T) {
	tx := &Transaction{}
	tx.AppendNote("first")
	tx.AppendNote("")
	tx.AppendNote("second")
	if tx.Notes != "first\nsecond" {
		t.Errorf("expected append-only notes, got %q", tx.Notes)
	}
}
