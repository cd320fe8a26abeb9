package router

import (
	"go-finance-api/handler"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything the router mounts. Health is optional; without it
// the readiness probe is not registered.
type Handlers struct {
	Auth         *handler.AuthHandler
	Categories   *handler.CategoryHandler
	Transactions *handler.TransactionHandler
	Health       *handler.HealthHandler
	Verifier     handler.TokenVerifier
	CORSOrigins  []string
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()
	protected := handler.AuthMiddleware(h.Verifier)
	secured := func(fn handler.AppHandler) http.Handler {
		return protected(handler.ErrorHandlingMiddleware(fn))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	if h.Health != nil {
		mux.Handle("GET /health/ready", handler.ErrorHandlingMiddleware(h.Health.Ready))
	}
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(h.Auth.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(h.Auth.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(h.Auth.Refresh))
	mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(h.Auth.Logout))
	mux.Handle("POST /auth/logout-all", secured(h.Auth.LogoutAll))
	mux.Handle("GET /auth/me", secured(h.Auth.Me))

	mux.Handle("GET /api/categories", secured(h.Categories.List))
	mux.Handle("POST /api/categories", secured(h.Categories.Create))
	mux.Handle("GET /api/categories/{id}", secured(h.Categories.Get))
	mux.Handle("PUT /api/categories/{id}", secured(h.Categories.Update))
	mux.Handle("DELETE /api/categories/{id}", secured(h.Categories.Delete))

	mux.Handle("GET /api/transactions", secured(h.Transactions.List))
	mux.Handle("POST /api/transactions", secured(h.Transactions.Create))
	mux.Handle("GET /api/transactions/summary", secured(h.Transactions.Summary))
	mux.Handle("GET /api/transactions/{id}", secured(h.Transactions.Get))
	mux.Handle("PUT /api/transactions/{id}", secured(h.Transactions.Update))
	mux.Handle("DELETE /api/transactions/{id}", secured(h.Transactions.Delete))

	// MetricsMiddleware sits next to the mux so it sees the matched pattern.
	return handler.Chain(mux,
		handler.RequestLogger,
		handler.Recover,
		handler.CORS(h.CORSOrigins),
		handler.MetricsMiddleware,
	)
}
