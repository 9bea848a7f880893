package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

func composerContext() *models.QueryContext {
	qc := models.NewQueryContext("req-1", "demo", "ยอดขายปี 2024")
	qc.CleanedRows = []map[string]any{{"total": float64(150000)}}
	qc.Insights = &models.Insights{
		RowCount: 1,
		Numeric: map[string]models.NumericSummary{
			"total": {Count: 1, Sum: 150000, Min: 150000, Max: 150000, Avg: 150000},
		},
	}
	return qc
}

func TestAnswerComposer_UsesModelAnswer(t *testing.T) {
	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
		return "  ยอดขายปี 2024 รวม 150,000 บาท  ", nil
	}
	composer := NewAnswerComposer(mock, 0.3, zap.NewNop())

	answer := composer.Compose(context.Background(), composerContext())

	assert.Equal(t, "ยอดขายปี 2024 รวม 150,000 บาท", answer)
}

func TestAnswerComposer_FallbackOnModelError(t *testing.T) {
	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
		return "", errors.New("model unavailable")
	}
	composer := NewAnswerComposer(mock, 0.3, zap.NewNop())

	answer := composer.Compose(context.Background(), composerContext())

	require.NotEmpty(t, answer)
	assert.Contains(t, answer, "พบข้อมูลทั้งหมด 1 รายการ")
	assert.Contains(t, answer, "150000")
}

func TestAnswerComposer_FallbackOnEmptyModelAnswer(t *testing.T) {
	mock := llm.NewMockLLMClient()
	composer := NewAnswerComposer(mock, 0.3, zap.NewNop())

	answer := composer.Compose(context.Background(), composerContext())

	assert.Contains(t, answer, "พบข้อมูลทั้งหมด 1 รายการ")
}

func TestFallbackAnswer(t *testing.T) {
	t.Run("nil insights", func(t *testing.T) {
		assert.Equal(t, "ไม่พบข้อมูลที่ตรงกับคำถามของคุณ", FallbackAnswer(nil))
	})

	t.Run("empty result", func(t *testing.T) {
		answer := FallbackAnswer(&models.Insights{RowCount: 0})
		assert.Equal(t, "ไม่พบข้อมูลที่ตรงกับคำถามของคุณ", answer)
	})

	t.Run("with numbers and top entry", func(t *testing.T) {
		answer := FallbackAnswer(&models.Insights{
			RowCount: 3,
			Numeric: map[string]models.NumericSummary{
				"total": {Count: 3, Sum: 600, Min: 100, Max: 300, Avg: 200},
			},
			Top: []models.TopEntry{
				{Label: "ผ้าเบรค", Column: "total", Value: 300},
			},
		})

		assert.Contains(t, answer, "พบข้อมูลทั้งหมด 3 รายการ")
		assert.Contains(t, answer, "ยอดรวม 600")
		assert.Contains(t, answer, "ผ้าเบรค")
	})

	t.Run("fractional values keep decimals", func(t *testing.T) {
		answer := FallbackAnswer(&models.Insights{
			RowCount: 1,
			Numeric: map[string]models.NumericSummary{
				"avg_price": {Count: 1, Sum: 99.95, Min: 99.95, Max: 99.95, Avg: 99.95},
			},
		})

		assert.Contains(t, answer, "99.95")
	})
}
