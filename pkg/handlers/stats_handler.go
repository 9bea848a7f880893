package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/services"
)

// StatsHandler serves pipeline counters as JSON.
type StatsHandler struct {
	stats  services.StatsService
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", h.Stats)
}

// Stats handles GET /api/stats.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	if err := WriteJSON(w, http.StatusOK, h.stats.Snapshot()); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}
