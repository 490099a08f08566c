// File: internal/infra/web/server.go
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"membership-billing/internal/domain/ports/repository"
	"membership-billing/internal/infra/logging"
	"membership-billing/internal/usecase"
)

type Server struct {
	plans     repository.PlanRepository
	entUC     usecase.EntitlementUseCase
	quoteUC   usecase.ProrationUseCase
	txUC      usecase.TransactionUseCase
	confirmUC usecase.ConfirmationUseCase
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	plans repository.PlanRepository,
	entUC usecase.EntitlementUseCase,
	quoteUC usecase.ProrationUseCase,
	txUC usecase.TransactionUseCase,
	confirmUC usecase.ConfirmationUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		plans:     plans,
		entUC:     entUC,
		quoteUC:   quoteUC,
		txUC:      txUC,
		confirmUC: confirmUC,
		auth:      auth,
		log:       logger,
	}
}

// Router builds the full HTTP surface. Member-facing endpoints sit behind
// an API gateway that authenticates members upstream; the review endpoints
// require an operator JWT.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.plansListHandler)
		r.Post("/quotes", s.quoteHandler)
		r.Post("/transactions", s.transactionCreateHandler)
		r.Get("/members/{id}/entitlement", s.entitlementGetHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.operatorMiddleware)
			r.Get("/transactions/pending", s.transactionsPendingHandler)
			r.Get("/transactions/{id}", s.transactionGetHandler)
			r.Post("/transactions/{id}/approve", s.transactionApproveHandler)
			r.Post("/transactions/{id}/reject", s.transactionRejectHandler)
		})
	})
	return r
}

// operatorMiddleware authenticates the operator JWT and stamps the operator
// identity into the request context for handlers and logs.
func (s *Server) operatorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Subject == "" {
			http.Error(w, "Unauthorized: missing subject", http.StatusUnauthorized)
			return
		}
		ctx := logging.WithOperatorID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
