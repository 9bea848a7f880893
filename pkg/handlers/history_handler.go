package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/repositories"
)

// HistoryHandler serves recent query history for a tenant.
type HistoryHandler struct {
	history repositories.QueryHistoryRepository
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler. history may be nil
// when the engine store is not configured; requests then return 404.
func NewHistoryHandler(history repositories.QueryHistoryRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// RegisterRoutes registers the history handler's routes on the given mux.
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.List)
}

// List handles GET /api/history?tenant_id=...&limit=N.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	if h.history == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "history_disabled", "query history is not configured")
		return
	}

	tenantID := strings.TrimSpace(r.URL.Query().Get("tenant_id"))
	if tenantID == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_tenant", "tenant_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.history.ListRecent(r.Context(), tenantID, limit)
	if err != nil {
		h.logger.Error("Failed to list query history",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list query history")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}
