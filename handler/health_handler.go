package handler

import (
	"context"
	"go-finance-api/common"
	"net/http"
	"time"
)

// HealthCheck godoc
// @Summary      Show the status of server
// @Description  get the status of server
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "API is healthy and running"})
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ready godoc
// @Summary      Readiness probe
// @Description  reports whether the database is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  common.AppError
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) *common.AppError {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		return common.NewAppError(http.StatusServiceUnavailable, "database not configured", nil)
	}
	if err := h.db.PingContext(ctx); err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, "database unavailable", err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	return nil
}
