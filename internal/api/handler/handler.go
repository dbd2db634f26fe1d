// Package handler provides HTTP handlers for all API endpoints. Handlers
// talk to the store interfaces directly — no service layer.
package handler

import (
	"net/http"
	"time"

	"github.com/Ahssan23/medication-tracker/internal/api/respond"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/config"
	"github.com/Ahssan23/medication-tracker/internal/db"
	"github.com/Ahssan23/medication-tracker/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	users     store.UserStore
	medicines store.MedicineStore
	subs      store.SubscriptionStore
	tokens    *auth.TokenService
	cfg       *config.Config
	pool      *db.Pool // nil when running on memory stores
}

// New creates a Handler with shared dependencies. pool may be nil; the
// database health endpoint then reports not configured.
func New(users store.UserStore, medicines store.MedicineStore, subs store.SubscriptionStore, tokens *auth.TokenService, cfg *config.Config, pool *db.Pool) *Handler {
	return &Handler{
		users:     users,
		medicines: medicines,
		subs:      subs,
		tokens:    tokens,
		cfg:       cfg,
		pool:      pool,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Medication Tracker API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
