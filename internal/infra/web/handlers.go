// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"membership-billing/internal/domain"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/logging"
	"membership-billing/internal/infra/metrics"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// mapDomainError converts domain sentinels into HTTP status codes; anything
// unrecognized is a 500.
func mapDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidPolicy),
		errors.Is(err, domain.ErrMissingReason):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAlreadyLifetime),
		errors.Is(err, domain.ErrAlreadyConfirmed),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotExpiredYet):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrUnauthorizedOperator):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func (s *Server) plansListHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListActive(r.Context(), repository.NoTX)
	if err != nil {
		http.Error(w, "Failed to list plans", http.StatusInternalServerError)
		return
	}

	response := struct {
		Data []*model.Plan `json:"data"`
	}{
		Data: plans,
	}
	writeJSON(w, http.StatusOK, response)
}

type quoteRequest struct {
	MemberID string `json:"member_id"`
	PlanID   string `json:"plan_id"`
	Policy   string `json:"policy"`
}

// quoteHandler prices a plan switch without committing to anything.
func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target, err := s.plans.FindByID(ctx, repository.NoTX, req.PlanID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	current, err := s.entUC.Current(ctx, req.MemberID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	quote, err := s.quoteUC.Quote(ctx, current, target, model.Policy(req.Policy))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	metrics.IncQuote(string(quote.Policy))
	writeJSON(w, http.StatusOK, quote)
}

type transactionCreateRequest struct {
	MemberID   string `json:"member_id"`
	PlanID     string `json:"plan_id"`
	Policy     string `json:"policy"`
	ReferrerID string `json:"referrer_id"`
}

// transactionCreateHandler quotes and opens a pending transaction in one
// step so the payable amount the member sees is the one recorded.
func (s *Server) transactionCreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req transactionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target, err := s.plans.FindByID(ctx, repository.NoTX, req.PlanID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	current, err := s.entUC.Current(ctx, req.MemberID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	quote, err := s.quoteUC.Quote(ctx, current, target, model.Policy(req.Policy))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	t, err := s.txUC.Create(ctx, req.MemberID, req.PlanID, quote, req.ReferrerID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	metrics.IncTransaction("created")
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) entitlementGetHandler(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	ent, err := s.entUC.Current(r.Context(), memberID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	if ent == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

func (s *Server) transactionsPendingHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}

	pending, err := s.txUC.ListPending(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to list pending transactions", http.StatusInternalServerError)
		return
	}

	response := struct {
		Data  []*model.Transaction `json:"data"`
		Limit int                  `json:"limit"`
	}{
		Data:  pending,
		Limit: limit,
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) transactionGetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, err := s.txUC.FindByID(r.Context(), id)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type approveRequest struct {
	Note string `json:"note"`
}

func (s *Server) transactionApproveHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req approveRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body means no note
	}

	t, err := s.confirmUC.Approve(ctx, id, logging.OperatorID(ctx), req.Note)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	metrics.IncTransaction("confirmed")
	metrics.AddRevenue(t.Amount)
	writeJSON(w, http.StatusOK, t)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) transactionRejectHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	t, err := s.confirmUC.Reject(ctx, id, logging.OperatorID(ctx), req.Reason)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	metrics.IncTransaction("rejected")
	writeJSON(w, http.StatusOK, t)
}
