package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/apperrors"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/llm"
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "bare statement",
			raw:      "SELECT * FROM v_sales2024",
			expected: "SELECT * FROM v_sales2024",
			ok:       true,
		},
		{
			name:     "fenced sql block",
			raw:      "Here is the query:\n```sql\nSELECT SUM(amount) FROM v_sales2024;\n```\nHope this helps.",
			expected: "SELECT SUM(amount) FROM v_sales2024",
			ok:       true,
		},
		{
			name:     "plain fence",
			raw:      "```\nSELECT * FROM v_inventory\n```",
			expected: "SELECT * FROM v_inventory",
			ok:       true,
		},
		{
			name:     "prose before statement",
			raw:      "The answer can be found with SELECT COUNT(*) FROM v_workforce",
			expected: "SELECT COUNT(*) FROM v_workforce",
			ok:       true,
		},
		{
			name:     "cte statement",
			raw:      "WITH totals AS (SELECT SUM(amount) AS t FROM v_sales2024) SELECT t FROM totals",
			expected: "WITH totals AS (SELECT SUM(amount) AS t FROM v_sales2024) SELECT t FROM totals",
			ok:       true,
		},
		{
			name:     "only first statement kept",
			raw:      "SELECT * FROM v_sales2024; DROP TABLE v_sales2024;",
			expected: "SELECT * FROM v_sales2024",
			ok:       true,
		},
		{
			name:     "semicolon inside literal not a boundary",
			raw:      "SELECT * FROM v_customer_history WHERE note = 'a;b'",
			expected: "SELECT * FROM v_customer_history WHERE note = 'a;b'",
			ok:       true,
		},
		{
			name: "no statement",
			raw:  "ขออภัย ไม่สามารถสร้างคำสั่งได้",
			ok:   false,
		},
		{
			name: "empty output",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSQL(tt.raw)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSQLGenerator_Generate(t *testing.T) {
	qc := models.NewQueryContext("req-1", "demo", "ยอดขายปี 2024")
	qc.Intent = models.IntentSalesAnalysis
	qc.Entities = map[string][]string{models.EntityYears: {"2024"}}

	t.Run("extracts statement from model output", func(t *testing.T) {
		mock := llm.NewMockLLMClient()
		mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
			return "```sql\nSELECT SUM(amount) FROM v_sales2024;\n```", nil
		}
		gen := NewSQLGenerator(mock, 0.0, zap.NewNop())

		sqlText, err := gen.Generate(context.Background(), qc)

		require.NoError(t, err)
		assert.Equal(t, "SELECT SUM(amount) FROM v_sales2024", sqlText)
		assert.Equal(t, 1, mock.GenerateResponseCalls)
	})

	t.Run("no statement in output", func(t *testing.T) {
		mock := llm.NewMockLLMClient()
		mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
			return "ไม่ทราบคำตอบ", nil
		}
		gen := NewSQLGenerator(mock, 0.0, zap.NewNop())

		_, err := gen.Generate(context.Background(), qc)

		assert.True(t, errors.Is(err, apperrors.ErrNoSQLFound))
	})

	t.Run("model error propagates", func(t *testing.T) {
		mock := llm.NewMockLLMClient()
		mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
			return "", errors.New("boom")
		}
		gen := NewSQLGenerator(mock, 0.0, zap.NewNop())

		_, err := gen.Generate(context.Background(), qc)

		assert.Error(t, err)
	})
}
