package sqlguard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultLimit bounds bare SELECT statements that arrive without a
// LIMIT clause.
const DefaultLimit = 100

// Rule is one pure rewrite step of the validation pipeline. Apply
// returns the (possibly rewritten) statement, audit issues describing
// what changed, and reject=true when the statement must not run.
type Rule struct {
	Name  string
	Apply func(sqlQuery string) (fixed string, issues []string, reject bool)
}

// Rules returns the validation pipeline in its fixed application
// order: the dangerous-operation check short-circuits, then rewrites
// run in sequence.
func Rules() []Rule {
	return []Rule{
		{Name: "dangerous_operations", Apply: checkDangerousOperations},
		{Name: "date_like_rewrite", Apply: rewriteDateLikePatterns},
		{Name: "limit_guard", Apply: ensureLimit},
	}
}

// dangerousKeywords must never appear outside string literals in a
// generated statement.
var dangerousKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER", "INSERT", "UPDATE", "GRANT",
}

// checkDangerousOperations rejects statements containing denylisted
// keywords or a second statement after a semicolon. The policy reason
// is reported without echoing the statement itself.
func checkDangerousOperations(sqlQuery string) (string, []string, bool) {
	var issues []string

	normalized := stripTrailingSemicolon(sqlQuery)
	if hasSemicolonOutsideStrings(normalized) {
		issues = append(issues, "Dangerous operation: multiple statements")
	}

	for _, keyword := range dangerousKeywords {
		if containsKeywordOutsideStrings(normalized, keyword) {
			issues = append(issues, "Dangerous operation: "+keyword)
		}
	}

	if len(issues) > 0 {
		return normalized, issues, true
	}
	return normalized, nil, false
}

// dateLikePattern matches loose date comparisons of the form
// col LIKE '%YYYY-MM%' (wildcards on either side are optional).
var dateLikePattern = regexp.MustCompile(`(?i)([A-Za-z_][A-Za-z0-9_."]*)\s+LIKE\s+'%?(\d{4})-(\d{1,2})-?%'`)

// rewriteDateLikePatterns replaces LIKE-on-date comparisons with an
// equivalent BETWEEN over the full month. LIKE against date columns is
// fragile across locale and format drift in the underlying views;
// BETWEEN with explicit bounds is not.
func rewriteDateLikePatterns(sqlQuery string) (string, []string, bool) {
	var issues []string

	fixed := dateLikePattern.ReplaceAllStringFunc(sqlQuery, func(match string) string {
		sub := dateLikePattern.FindStringSubmatch(match)
		column := sub[1]
		year, _ := strconv.Atoi(sub[2])
		month, _ := strconv.Atoi(sub[3])
		if month < 1 || month > 12 {
			return match
		}

		lastDay := daysInMonth(year, month)
		from := fmt.Sprintf("%04d-%02d-01", year, month)
		to := fmt.Sprintf("%04d-%02d-%02d", year, month, lastDay)
		issues = append(issues, fmt.Sprintf("Rewrote %s LIKE date pattern to BETWEEN '%s' AND '%s'", column, from, to))
		return fmt.Sprintf("%s BETWEEN '%s' AND '%s'", column, from, to)
	})

	return fixed, issues, false
}

// daysInMonth returns the number of days in the given month, accounting
// for leap-year February.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

var (
	limitClausePattern = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)
	selectProjPattern  = regexp.MustCompile(`(?is)^\s*SELECT\s+(?:DISTINCT\s+)?(.*?)\s+FROM\s`)
	aggregatePattern   = regexp.MustCompile(`(?i)^\s*(COUNT|SUM|AVG|MIN|MAX)\s*\(`)
	groupByPattern     = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
)

// ensureLimit appends a default LIMIT to bare SELECT statements so a
// runaway scan cannot flood the pipeline. Statements whose projection
// is purely aggregate (and ungrouped, hence single-row) are left alone.
func ensureLimit(sqlQuery string) (string, []string, bool) {
	masked := maskStringLiterals(sqlQuery)

	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(masked)), "SELECT") {
		return sqlQuery, nil, false
	}
	if limitClausePattern.MatchString(masked) {
		return sqlQuery, nil, false
	}
	if isAggregateOnly(masked) {
		return sqlQuery, nil, false
	}

	fixed := strings.TrimRight(sqlQuery, " \t\n\r") + fmt.Sprintf(" LIMIT %d", DefaultLimit)
	return fixed, []string{fmt.Sprintf("Appended LIMIT %d to unbounded SELECT", DefaultLimit)}, false
}

// isAggregateOnly reports whether every projection item is an aggregate
// function and the statement has no GROUP BY, i.e. the result is a
// single row that needs no bound.
func isAggregateOnly(maskedSQL string) bool {
	if groupByPattern.MatchString(maskedSQL) {
		return false
	}

	sub := selectProjPattern.FindStringSubmatch(maskedSQL)
	if sub == nil {
		return false
	}

	for _, item := range splitProjection(sub[1]) {
		if !aggregatePattern.MatchString(item) {
			return false
		}
	}
	return true
}

// splitProjection splits a projection list on top-level commas,
// ignoring commas nested inside parentheses.
func splitProjection(projection string) []string {
	var items []string
	depth := 0
	start := 0

	for i, char := range projection {
		switch char {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, projection[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, projection[start:])
	return items
}
