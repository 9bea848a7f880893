// Package prompts builds the language-model prompts used for SQL
// generation and answer composition.
package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// SQLSystemMessage instructs the model to emit exactly one SELECT
// statement. The pipeline still validates whatever comes back.
const SQLSystemMessage = `You are a SQL generator for a Thai automotive-service business database.
Generate exactly ONE SQL SELECT statement answering the user's question.
Rules:
- SELECT statements only. Never generate INSERT, UPDATE, DELETE, DROP, ALTER, TRUNCATE, or GRANT.
- Use only the views described in the prompt.
- Filter dates with BETWEEN and explicit bounds, never LIKE on date columns.
- End the statement with a semicolon. Do not explain.`

// AnswerSystemMessage instructs the model to compose a Thai answer
// from query results.
const AnswerSystemMessage = `You are a business analyst assistant answering in Thai.
Compose a short, factual answer to the user's question from the query results and summary provided.
Use Thai language, include concrete numbers, and do not invent data that is not in the results.`

// viewHints describes the queryable views per intent. Sales views are
// partitioned per calendar year (v_sales2023, v_sales2024, ...).
var viewHints = map[models.Intent]string{
	models.IntentSalesAnalysis: "View v_sales<YEAR> (one view per year, e.g. v_sales2024): sale_date DATE, product_name TEXT, customer_name TEXT, quantity INT, amount NUMERIC",
	models.IntentWorkForce:     "View v_workforce: work_year INT, work_month INT, technician_count INT, labor_hours NUMERIC",
	models.IntentPartsPrice:    "View v_parts_price: part_name TEXT, part_code TEXT, unit_price NUMERIC, updated_at DATE",
	models.IntentCustomerHistory: "View v_customer_history: customer_name TEXT, service_date DATE, service_description TEXT, amount NUMERIC",
	models.IntentInventory:     "View v_inventory: part_name TEXT, part_code TEXT, qty_on_hand INT, updated_at DATE",
}

// BuildSQLPrompt renders the SQL-generation prompt from the detected
// intent, extracted entities, and the original question.
func BuildSQLPrompt(qc *models.QueryContext) string {
	var b strings.Builder

	b.WriteString("Question (Thai): ")
	b.WriteString(qc.RawQuestion)
	b.WriteString("\n\nDetected intent: ")
	b.WriteString(string(qc.Intent))
	b.WriteString("\n")

	if len(qc.Entities) > 0 {
		b.WriteString("Extracted entities:\n")
		for _, category := range sortedKeys(qc.Entities) {
			fmt.Fprintf(&b, "- %s: %s\n", category, strings.Join(qc.Entities[category], ", "))
		}
	}

	if hint, ok := viewHints[qc.Intent]; ok {
		b.WriteString("\nAvailable schema:\n")
		b.WriteString(hint)
		b.WriteString("\n")
	}

	if years := qc.Entities[models.EntityYears]; len(years) > 0 && qc.Intent == models.IntentSalesAnalysis {
		b.WriteString("\nUse these sales views: ")
		for i, year := range years {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("v_sales" + year)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nSQL:")
	return b.String()
}

// BuildAnswerPrompt renders the answer-composition prompt from the
// cleaned result set and derived insights.
func BuildAnswerPrompt(qc *models.QueryContext, sampleRows []map[string]any) string {
	var b strings.Builder

	b.WriteString("Question (Thai): ")
	b.WriteString(qc.RawQuestion)
	fmt.Fprintf(&b, "\n\nQuery returned %d rows.\n", len(qc.CleanedRows))

	if qc.Insights != nil {
		if len(qc.Insights.Numeric) > 0 {
			b.WriteString("\nNumeric summary:\n")
			for _, col := range sortedSummaryKeys(qc.Insights.Numeric) {
				s := qc.Insights.Numeric[col]
				fmt.Fprintf(&b, "- %s: sum=%.2f min=%.2f max=%.2f avg=%.2f\n", col, s.Sum, s.Min, s.Max, s.Avg)
			}
		}
		for _, note := range qc.Insights.Notes {
			fmt.Fprintf(&b, "Note: %s\n", note)
		}
	}

	if len(sampleRows) > 0 {
		b.WriteString("\nSample rows:\n")
		for _, row := range sampleRows {
			fmt.Fprintf(&b, "%v\n", row)
		}
	}

	b.WriteString("\nAnswer (Thai):")
	return b.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSummaryKeys(m map[string]models.NumericSummary) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
