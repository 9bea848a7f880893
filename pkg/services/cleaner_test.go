package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCleaner_EmptyResult(t *testing.T) {
	cleaner := NewResultCleaner()

	cleaned, insights := cleaner.Clean(nil)

	assert.Empty(t, cleaned)
	assert.Equal(t, 0, insights.RowCount)
	require.NotEmpty(t, insights.Notes)
	assert.Contains(t, insights.Notes[0], "ไม่พบข้อมูล")
}

func TestResultCleaner_NormalizesCells(t *testing.T) {
	cleaner := NewResultCleaner()

	cleaned, insights := cleaner.Clean([]map[string]any{
		{
			"product": []byte("ผ้าเบรค"),
			"qty":     int32(5),
			"amount":  "1,250.50",
			"note":    nil,
		},
	})

	require.Len(t, cleaned, 1)
	assert.Equal(t, "ผ้าเบรค", cleaned[0]["product"])
	assert.Equal(t, float64(5), cleaned[0]["qty"])
	assert.Equal(t, 1250.50, cleaned[0]["amount"])
	assert.Nil(t, cleaned[0]["note"])
	assert.Equal(t, 1, insights.RowCount)
}

func TestResultCleaner_NonNumericStringsPreserved(t *testing.T) {
	cleaner := NewResultCleaner()

	cleaned, insights := cleaner.Clean([]map[string]any{
		{"code": "A-100", "name": "ผ้าเบรค"},
	})

	assert.Equal(t, "A-100", cleaned[0]["code"])
	assert.Equal(t, "ผ้าเบรค", cleaned[0]["name"])
	assert.Empty(t, insights.Numeric)
}

func TestResultCleaner_NumericSummary(t *testing.T) {
	cleaner := NewResultCleaner()

	_, insights := cleaner.Clean([]map[string]any{
		{"month": "01", "amount": float64(100)},
		{"month": "02", "amount": float64(300)},
		{"month": "03", "amount": float64(200)},
	})

	require.Contains(t, insights.Numeric, "amount")
	summary := insights.Numeric["amount"]
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, float64(600), summary.Sum)
	assert.Equal(t, float64(100), summary.Min)
	assert.Equal(t, float64(300), summary.Max)
	assert.Equal(t, float64(200), summary.Avg)
}

func TestResultCleaner_TopRanking(t *testing.T) {
	cleaner := NewResultCleaner()

	_, insights := cleaner.Clean([]map[string]any{
		{"product_name": "ผ้าเบรค", "total": float64(90000)},
		{"product_name": "ไส้กรอง", "total": float64(60000)},
		{"product_name": "หัวเทียน", "total": float64(120000)},
		{"product_name": "น้ำมันเครื่อง", "total": float64(30000)},
	})

	require.Len(t, insights.Top, 3, "ranking is capped")
	assert.Equal(t, "หัวเทียน", insights.Top[0].Label)
	assert.Equal(t, float64(120000), insights.Top[0].Value)
	assert.Equal(t, "ผ้าเบรค", insights.Top[1].Label)
	assert.Equal(t, "ไส้กรอง", insights.Top[2].Label)
}

func TestResultCleaner_SingleRowHasNoSummaries(t *testing.T) {
	cleaner := NewResultCleaner()

	cleaned, insights := cleaner.Clean([]map[string]any{
		{"total": float64(150000)},
	})

	assert.Equal(t, float64(150000), cleaned[0]["total"])
	assert.Equal(t, 1, insights.RowCount)
	assert.Empty(t, insights.Top)
	assert.Empty(t, insights.Numeric, "summaries start at two rows")
}

func TestResultCleaner_TwoRowsGetSummaries(t *testing.T) {
	cleaner := NewResultCleaner()

	_, insights := cleaner.Clean([]map[string]any{
		{"total": float64(100)},
		{"total": float64(300)},
	})

	require.Contains(t, insights.Numeric, "total")
	assert.Equal(t, 2, insights.Numeric["total"].Count)
}

func TestResultCleaner_Deterministic(t *testing.T) {
	cleaner := NewResultCleaner()
	rows := []map[string]any{
		{"product_name": "ผ้าเบรค", "total": float64(90000)},
		{"product_name": "ไส้กรอง", "total": float64(60000)},
	}

	_, first := cleaner.Clean(rows)
	_, second := cleaner.Clean(rows)

	assert.Equal(t, first, second)
}
