// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	"membership-billing/internal/domain/ports/repository"
)

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memPlanRepo is a small in-memory implementation used by unit tests.
type memPlanRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Plan
	findErr error // used by tests to simulate lookup failures
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *memPlanRepo) Save(ctx context.Context, _ repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.store[plan.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Plan, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListActive(ctx context.Context, _ repository.Tx) ([]*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Plan
	for _, p := range m.store {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memEntitlementRepo keeps at most one active entitlement per member, like
// the real Supersede guarantees.
type memEntitlementRepo struct {
	mu           sync.RWMutex
	byMember     map[string]*model.Entitlement
	byTx         map[string]*model.Entitlement
	supersedeErr error
}

func newMemEntitlementRepo() *memEntitlementRepo {
	return &memEntitlementRepo{
		byMember: make(map[string]*model.Entitlement),
		byTx:     make(map[string]*model.Entitlement),
	}
}

func (m *memEntitlementRepo) FindActiveByMember(ctx context.Context, _ repository.Tx, memberID string) (*model.Entitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byMember[memberID]
	if !ok || e.Status != model.EntitlementStatusActive {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEntitlementRepo) FindByTransaction(ctx context.Context, _ repository.Tx, transactionID string) (*model.Entitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byTx[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEntitlementRepo) Supersede(ctx context.Context, _ repository.Tx, next *model.Entitlement) error {
	if m.supersedeErr != nil {
		return m.supersedeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prior, ok := m.byMember[next.MemberID]; ok && prior.Status == model.EntitlementStatusActive {
		prior.Status = model.EntitlementStatusSuperseded
	}
	cp := *next
	m.byMember[next.MemberID] = &cp
	m.byTx[next.TransactionID] = &cp
	return nil
}

// memTransactionRepo mirrors the CAS semantics of the Postgres repo:
// UpdateStatusIfPending succeeds for exactly one caller per transaction.
type memTransactionRepo struct {
	mu      sync.Mutex
	store   map[string]*model.Transaction
	saveErr error
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{store: make(map[string]*model.Transaction)}
}

func (m *memTransactionRepo) Save(ctx context.Context, _ repository.Tx, t *model.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memTransactionRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTransactionRepo) ListByStatus(ctx context.Context, _ repository.Tx, status model.TransactionStatus, limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memTransactionRepo) UpdateStatusIfPending(ctx context.Context, _ repository.Tx, id string, status model.TransactionStatus, fields repository.StatusFields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || t.Status != model.TransactionStatusPending {
		return false, nil
	}
	t.Status = status
	if fields.PaidAt != nil {
		t.PaidAt = fields.PaidAt
	}
	if fields.RejectReason != nil {
		t.RejectReason = *fields.RejectReason
	}
	if fields.Notes != nil {
		t.Notes = *fields.Notes
	}
	t.UpdatedAt = time.Now()
	return true, nil
}

func (m *memTransactionRepo) ListPendingExpired(ctx context.Context, _ repository.Tx, before time.Time, limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == model.TransactionStatusPending && t.ExpiresAt != nil && t.ExpiresAt.Before(before) {
			cp := *t
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// memNotificationLog records every delivery attempt.
type memNotificationLog struct {
	mu      sync.Mutex
	entries []repository.NotificationLogEntry
}

func (m *memNotificationLog) Save(ctx context.Context, _ repository.Tx, entry *repository.NotificationLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

// mockTxManager runs the callback without a real database transaction.
type noTx struct{}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, noTx{})
}

// memNotifier records enqueued events.
type memNotifier struct {
	mu     sync.Mutex
	events []model.NotificationEvent
}

func (m *memNotifier) Enqueue(ctx context.Context, event model.NotificationEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *memNotifier) all() []model.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.NotificationEvent, len(m.events))
	copy(out, m.events)
	return out
}

// memDirectory authorizes a fixed set of operators.
type memDirectory struct {
	allowed map[string]bool
	err     error
}

func (m *memDirectory) CanConfirm(ctx context.Context, operatorID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.allowed[operatorID], nil
}

// stubRenderer renders a fixed payload, with optional per-channel failures.
type stubRenderer struct {
	errFor map[string]error
}

func (r *stubRenderer) Render(event model.NotificationEvent, channel string) (adapter.RenderedPayload, error) {
	if err := r.errFor[channel]; err != nil {
		return adapter.RenderedPayload{}, err
	}
	return adapter.RenderedPayload{Title: string(event.Kind), Body: "body for " + channel}, nil
}

// stubChannel is a configurable ChannelSender for fan-out tests.
type stubChannel struct {
	name    string
	delay   time.Duration
	err     error
	decline bool

	mu    sync.Mutex
	calls int
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if c.err != nil {
		return false, c.err
	}
	return !c.decline, nil
}

func (c *stubChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// helpers

func testPlan(id string, duration model.DurationClass, price int64) *model.Plan {
	return &model.Plan{
		ID:        id,
		Name:      "plan-" + id,
		Duration:  duration,
		Price:     price,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func activeEntitlement(memberID string, duration model.DurationClass, price int64, daysLeft int64) *model.Entitlement {
	now := time.Now()
	e := &model.Entitlement{
		ID:           "ent-" + memberID,
		MemberID:     memberID,
		PlanID:       "plan-of-" + memberID,
		PlanDuration: duration,
		PlanPrice:    price,
		PaidAmount:   price,
		StartAt:      now.Add(-24 * time.Hour),
		Status:       model.EntitlementStatusActive,
		CreatedAt:    now.Add(-24 * time.Hour),
	}
	if !duration.IsLifetime() {
		// Pad past the whole-day boundary so DaysRemaining floors to daysLeft.
		end := now.Add(time.Duration(daysLeft)*24*time.Hour + time.Hour)
		e.EndAt = &end
	}
	return e
}
