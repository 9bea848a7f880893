package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

func TestBuildSQLPrompt_SalesUsesYearViews(t *testing.T) {
	qc := models.NewQueryContext("req-1", "demo", "เปรียบเทียบยอดขายปี 2023 กับ 2024")
	qc.Intent = models.IntentSalesAnalysis
	qc.Entities = map[string][]string{models.EntityYears: {"2023", "2024"}}

	prompt := BuildSQLPrompt(qc)

	assert.Contains(t, prompt, "เปรียบเทียบยอดขายปี 2023 กับ 2024")
	assert.Contains(t, prompt, "sales_analysis")
	assert.Contains(t, prompt, "v_sales2023, v_sales2024")
	assert.Contains(t, prompt, "v_sales<YEAR>")
}

func TestBuildSQLPrompt_EntitiesSorted(t *testing.T) {
	qc := models.NewQueryContext("req-1", "demo", "กำลังคนเดือนมีนาคม 2024")
	qc.Intent = models.IntentWorkForce
	qc.Entities = map[string][]string{
		models.EntityYears:  {"2024"},
		models.EntityMonths: {"03"},
	}

	prompt := BuildSQLPrompt(qc)

	monthsIdx := strings.Index(prompt, "months: 03")
	yearsIdx := strings.Index(prompt, "years: 2024")
	assert.Greater(t, monthsIdx, 0)
	assert.Greater(t, yearsIdx, monthsIdx, "entity categories render in sorted order")
	assert.Contains(t, prompt, "v_workforce")
	assert.NotContains(t, prompt, "v_sales")
}

func TestBuildSQLPrompt_UnknownIntentOmitsSchema(t *testing.T) {
	qc := models.NewQueryContext("req-1", "demo", "อะไรก็ได้")
	qc.Intent = models.IntentUnknown

	prompt := BuildSQLPrompt(qc)

	assert.NotContains(t, prompt, "Available schema")
}

func TestBuildAnswerPrompt(t *testing.T) {
	qc := models.NewQueryContext("req-1", "demo", "ยอดขายปี 2024")
	qc.CleanedRows = []map[string]any{{"total": float64(150000)}}
	qc.Insights = &models.Insights{
		RowCount: 1,
		Numeric: map[string]models.NumericSummary{
			"total": {Count: 1, Sum: 150000, Min: 150000, Max: 150000, Avg: 150000},
		},
		Notes: []string{"หมายเหตุทดสอบ"},
	}

	prompt := BuildAnswerPrompt(qc, qc.CleanedRows)

	assert.Contains(t, prompt, "ยอดขายปี 2024")
	assert.Contains(t, prompt, "1 rows")
	assert.Contains(t, prompt, "total: sum=150000.00")
	assert.Contains(t, prompt, "หมายเหตุทดสอบ")
	assert.Contains(t, prompt, "Answer (Thai):")
}
