package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// topEntryLimit bounds how many ranked entries the cleaner keeps per result.
const topEntryLimit = 3

// summaryRowThreshold is the minimum row count before summary stats and
// rankings are derived; a single row speaks for itself.
const summaryRowThreshold = 2

// ResultCleaner normalizes raw driver rows and derives insights for the
// answer composer. It is deterministic and side-effect free.
type ResultCleaner interface {
	Clean(rows []map[string]any) ([]map[string]any, *models.Insights)
}

type resultCleaner struct{}

// NewResultCleaner creates the default cleaner.
func NewResultCleaner() ResultCleaner {
	return &resultCleaner{}
}

// Clean normalizes each cell (bytes to strings, numeric strings and all
// integer widths to float64, nils preserved). Per-column numeric
// summaries and the top-N ranking are derived only once the result has
// at least two rows.
func (c *resultCleaner) Clean(rows []map[string]any) ([]map[string]any, *models.Insights) {
	insights := &models.Insights{RowCount: len(rows)}

	if len(rows) == 0 {
		insights.Notes = append(insights.Notes, "ไม่พบข้อมูลที่ตรงกับเงื่อนไข")
		return []map[string]any{}, insights
	}

	cleaned := make([]map[string]any, 0, len(rows))
	numericValues := map[string][]float64{}
	columnOrder := orderedColumns(rows[0])

	for _, row := range rows {
		out := make(map[string]any, len(row))
		for col, val := range row {
			norm := normalizeCell(val)
			out[col] = norm
			if f, ok := asFloat(norm); ok {
				numericValues[col] = append(numericValues[col], f)
			}
		}
		cleaned = append(cleaned, out)
	}

	if len(rows) >= summaryRowThreshold {
		insights.Numeric = make(map[string]models.NumericSummary)
		for _, col := range columnOrder {
			values := numericValues[col]
			if len(values) == 0 {
				continue
			}
			insights.Numeric[col] = summarize(values)
		}
		insights.Top = rankTop(cleaned, columnOrder, numericValues)
	}

	return cleaned, insights
}

// normalizeCell maps driver-specific cell types onto the small set the
// composer understands: nil, string, float64 and bool.
func normalizeCell(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeCell(string(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return ""
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil && looksNumeric(trimmed) {
			return f
		}
		return v
	case bool:
		return v
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return v
	}
}

// looksNumeric guards against ParseFloat accepting values like "Inf" or
// hex notation that are not numeric in a tabular sense.
func looksNumeric(s string) bool {
	s = strings.ReplaceAll(s, ",", "")
	for i, char := range s {
		switch {
		case char >= '0' && char <= '9':
		case char == '.':
		case (char == '-' || char == '+') && i == 0:
		default:
			return false
		}
	}
	return strings.ContainsAny(s, "0123456789")
}

func asFloat(val any) (float64, bool) {
	f, ok := val.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func summarize(values []float64) models.NumericSummary {
	summary := models.NumericSummary{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		summary.Sum += v
		if v < summary.Min {
			summary.Min = v
		}
		if v > summary.Max {
			summary.Max = v
		}
	}
	summary.Avg = summary.Sum / float64(len(values))
	return summary
}

// rankTop picks the first textual column as label and the numeric column
// with the most values as metric, then returns the highest entries.
func rankTop(rows []map[string]any, columns []string, numeric map[string][]float64) []models.TopEntry {
	labelCol := ""
	for _, col := range columns {
		if _, isNumeric := numeric[col]; isNumeric {
			continue
		}
		if _, ok := rows[0][col].(string); ok {
			labelCol = col
			break
		}
	}
	if labelCol == "" {
		return nil
	}

	metricCol := ""
	for _, col := range columns {
		if len(numeric[col]) > len(numeric[metricCol]) {
			metricCol = col
		}
	}
	if metricCol == "" {
		return nil
	}

	var entries []models.TopEntry
	for _, row := range rows {
		label, lok := row[labelCol].(string)
		value, vok := asFloat(row[metricCol])
		if !lok || !vok {
			continue
		}
		entries = append(entries, models.TopEntry{Label: label, Column: metricCol, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	if len(entries) > topEntryLimit {
		entries = entries[:topEntryLimit]
	}
	return entries
}

func orderedColumns(row map[string]any) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
