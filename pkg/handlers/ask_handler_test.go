package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/apperrors"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// mockPipeline is a function-field mock for the pipeline service.
type mockPipeline struct {
	ProcessFunc  func(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error)
	ProcessCalls int
	Shutdowns    int
}

func (m *mockPipeline) Process(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error) {
	m.ProcessCalls++
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, tenantID, question, requestID)
	}
	return &models.QueryResponse{RequestID: requestID, Success: true, State: models.StateAnswered}, nil
}

func (m *mockPipeline) Shutdown() {
	m.Shutdowns++
}

func postAsk(t *testing.T, handler *AskHandler, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)
	return rec
}

func TestAskHandler_Success(t *testing.T) {
	pipeline := &mockPipeline{
		ProcessFunc: func(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error) {
			return &models.QueryResponse{
				RequestID: requestID,
				Success:   true,
				State:     models.StateAnswered,
				Intent:    models.IntentSalesAnalysis,
				Answer:    "ยอดขายรวม 150,000 บาท",
			}, nil
		},
	}
	handler := NewAskHandler(pipeline, zap.NewNop())

	rec := postAsk(t, handler, AskRequest{
		TenantID:  "demo",
		Question:  "ยอดขายปี 2024",
		RequestID: "req-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.QueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "ยอดขายรวม 150,000 บาท", resp.Answer)
}

func TestAskHandler_PipelineFailureStillOK(t *testing.T) {
	pipeline := &mockPipeline{
		ProcessFunc: func(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error) {
			return &models.QueryResponse{
				RequestID: requestID,
				Success:   false,
				State:     models.StateFailed,
				Error:     &models.PipelineError{Kind: models.ErrorKindDB, Message: "ไม่สามารถค้นหาข้อมูลได้"},
			}, nil
		},
	}
	handler := NewAskHandler(pipeline, zap.NewNop())

	rec := postAsk(t, handler, AskRequest{TenantID: "demo", Question: "ยอดขายปี 2024"})

	assert.Equal(t, http.StatusOK, rec.Code, "pipeline failures are reported in the body")

	var resp models.QueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrorKindDB, resp.Error.Kind)
}

func TestAskHandler_MethodNotAllowed(t *testing.T) {
	handler := NewAskHandler(&mockPipeline{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAskHandler_InvalidBody(t *testing.T) {
	pipeline := &mockPipeline{}
	handler := NewAskHandler(pipeline, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, pipeline.ProcessCalls)
}

func TestAskHandler_MissingTenant(t *testing.T) {
	pipeline := &mockPipeline{}
	handler := NewAskHandler(pipeline, zap.NewNop())

	rec := postAsk(t, handler, AskRequest{Question: "ยอดขายปี 2024"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, pipeline.ProcessCalls)
}

func TestAskHandler_UnknownTenant(t *testing.T) {
	pipeline := &mockPipeline{
		ProcessFunc: func(ctx context.Context, tenantID, question, requestID string) (*models.QueryResponse, error) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTenant, tenantID)
		},
	}
	handler := NewAskHandler(pipeline, zap.NewNop())

	rec := postAsk(t, handler, AskRequest{TenantID: "nope", Question: "ยอดขายปี 2024"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
