package sqlguard

import (
	"strings"
)

// Result contains the validation outcome for one statement. Issues is a
// complete audit trail: rewrites are recorded even when the statement
// remains valid. FixedSQL is populated even for rejected statements so
// callers can decide whether to display it for diagnostics.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	FixedSQL string   `json:"fixed_sql"`
	Issues   []string `json:"issues,omitempty"`
}

// ValidateAndFix runs the fixed rule pipeline over a statement: the
// dangerous-operation check first (short-circuits on rejection), then
// the date-literal rewrite, then the limit guard. A statement can be
// both validated and modified in the same call. Pure function of its
// input; calling it twice on its own output yields the same FixedSQL
// with no new issues.
func ValidateAndFix(sqlQuery string) Result {
	result := Result{
		IsValid:  true,
		FixedSQL: strings.TrimSpace(sqlQuery),
	}

	if result.FixedSQL == "" {
		result.IsValid = false
		result.Issues = append(result.Issues, "Empty SQL statement")
		return result
	}

	for _, rule := range Rules() {
		fixed, issues, reject := rule.Apply(result.FixedSQL)
		result.FixedSQL = fixed
		result.Issues = append(result.Issues, issues...)
		if reject {
			result.IsValid = false
			return result
		}
	}

	return result
}
