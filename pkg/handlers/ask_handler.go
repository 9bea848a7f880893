package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/apperrors"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/services"
)

// maxQuestionBytes bounds the request body so oversized payloads are
// rejected before JSON decoding.
const maxQuestionBytes = 16 * 1024

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	TenantID  string `json:"tenant_id"`
	Question  string `json:"question"`
	RequestID string `json:"request_id,omitempty"`
}

// AskHandler handles question-answering requests.
type AskHandler struct {
	pipeline services.PipelineService
	logger   *zap.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(pipeline services.PipelineService, logger *zap.Logger) *AskHandler {
	return &AskHandler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers the ask handler's routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ask", h.Ask)
}

// Ask handles POST /api/ask. The pipeline outcome is always 200 with a
// QueryResponse body; non-200 statuses are reserved for malformed
// requests and unknown tenants.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	var req AskRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxQuestionBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	if strings.TrimSpace(req.TenantID) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_tenant", "tenant_id is required")
		return
	}

	response, err := h.pipeline.Process(r.Context(), req.TenantID, req.Question, req.RequestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownTenant) {
			_ = ErrorResponse(w, http.StatusNotFound, "unknown_tenant", "tenant is not configured")
			return
		}
		h.logger.Error("Pipeline invocation failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to process question")
		return
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ask response", zap.Error(err))
	}
}
