//go:build !integration

package web

import (
	"context"
	"sync"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
)

// --- Mock Repositories (Ports) ---

type mockPlanRepo struct {
	mu      sync.Mutex
	plans   map[string]*model.Plan
	ListErr error
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.Plan)}
}

func (m *mockPlanRepo) Save(ctx context.Context, _ repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPlanRepo) ListActive(ctx context.Context, _ repository.Tx) ([]*model.Plan, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Plan
	for _, p := range m.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Mock Use Cases ---

type mockEntUC struct {
	CurrentFunc func(ctx context.Context, memberID string) (*model.Entitlement, error)
}

func (m *mockEntUC) Current(ctx context.Context, memberID string) (*model.Entitlement, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, memberID)
	}
	return nil, nil
}

func (m *mockEntUC) Activate(ctx context.Context, tx repository.Tx, memberID string, plan *model.Plan, paidAmount int64, transactionID string) (*model.Entitlement, error) {
	return nil, nil
}

type mockTxUC struct {
	CreateFunc      func(ctx context.Context, memberID, planID string, quote *model.ProrationQuote, referrerID string) (*model.Transaction, error)
	ListPendingFunc func(ctx context.Context, limit int) ([]*model.Transaction, error)
	FindByIDFunc    func(ctx context.Context, id string) (*model.Transaction, error)
}

func (m *mockTxUC) Create(ctx context.Context, memberID, planID string, quote *model.ProrationQuote, referrerID string) (*model.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, memberID, planID, quote, referrerID)
	}
	return &model.Transaction{ID: "tx-1", MemberID: memberID, PlanID: planID, Amount: quote.Payable, Status: model.TransactionStatusPending}, nil
}

func (m *mockTxUC) Confirm(ctx context.Context, id, note string) (*model.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTxUC) Reject(ctx context.Context, id, reason, note string) (*model.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTxUC) Expire(ctx context.Context, id string) (*model.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTxUC) ListPending(ctx context.Context, limit int) ([]*model.Transaction, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockTxUC) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type mockConfirmUC struct {
	mu             sync.Mutex
	ApproveFunc    func(ctx context.Context, transactionID, operatorID, note string) (*model.Transaction, error)
	RejectFunc     func(ctx context.Context, transactionID, operatorID, reason string) (*model.Transaction, error)
	lastOperatorID string
}

func (m *mockConfirmUC) Approve(ctx context.Context, transactionID, operatorID, note string) (*model.Transaction, error) {
	m.mu.Lock()
	m.lastOperatorID = operatorID
	m.mu.Unlock()
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, transactionID, operatorID, note)
	}
	return &model.Transaction{ID: transactionID, Status: model.TransactionStatusConfirmed}, nil
}

func (m *mockConfirmUC) Reject(ctx context.Context, transactionID, operatorID, reason string) (*model.Transaction, error) {
	m.mu.Lock()
	m.lastOperatorID = operatorID
	m.mu.Unlock()
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, transactionID, operatorID, reason)
	}
	return &model.Transaction{ID: transactionID, Status: model.TransactionStatusRejected, RejectReason: reason}, nil
}

func (m *mockConfirmUC) operatorID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOperatorID
}
