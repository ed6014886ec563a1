package rest

import (
	"encoding/json"
	"net/http"

	"github.com/soundprint-labs/soundprint/internal/core/services"
	"github.com/soundprint-labs/soundprint/internal/logger"
	"github.com/soundprint-labs/soundprint/internal/worker"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	pool   *worker.Pool           // Background batch execution
	router *http.ServeMux         // Standard library router
	log    *logger.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, pool *worker.Pool) *Handler {
	h := &Handler{
		svc:    svc,
		pool:   pool,
		router: http.NewServeMux(),
		log:    logger.New(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.WithRequest(r).Debug("request received")
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Batch lifecycle
	h.router.HandleFunc("POST /batches", h.SubmitBatch)
	h.router.HandleFunc("GET /batches/{id}", h.GetBatch)
	// Recommendations
	h.router.HandleFunc("POST /batches/{id}/recommendations", h.Recommend)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
