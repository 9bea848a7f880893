// Package sqlguard validates and deterministically repairs SQL
// statements produced by the language model before they reach a tenant
// database. All checks are pure functions of the statement text.
package sqlguard

import (
	"strings"
)

// maskStringLiterals replaces the contents of single- and double-quoted
// literals with spaces so keyword and semicolon scans never match text
// inside strings. Handles backslash escapes and SQL standard doubled
// quotes ('').
func maskStringLiterals(sqlQuery string) string {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)
	out := []rune(sqlQuery)

	for i, char := range out {
		switch state {
		case stateNormal:
			switch char {
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			if char == '\'' && prevChar != '\\' {
				// A doubled quote ('') exits and immediately re-enters,
				// which keeps the scan inside the string.
				state = stateNormal
			} else {
				out[i] = ' '
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			} else {
				out[i] = ' '
			}
		}
		prevChar = char
	}

	return string(out)
}

// hasSemicolonOutsideStrings returns true if the statement contains a
// semicolon outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	return strings.ContainsRune(maskStringLiterals(sqlQuery), ';')
}

// stripTrailingSemicolon removes one trailing semicolon and surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimRight(strings.TrimSuffix(sqlQuery, ";"), " \t\n\r")
	}
	return sqlQuery
}

// containsKeywordOutsideStrings reports whether the uppercase keyword
// appears as a standalone word outside string literals.
func containsKeywordOutsideStrings(sqlQuery, keyword string) bool {
	masked := strings.ToUpper(maskStringLiterals(sqlQuery))

	idx := 0
	for {
		pos := strings.Index(masked[idx:], keyword)
		if pos < 0 {
			return false
		}
		pos += idx

		beforeOK := pos == 0 || !isWordChar(masked[pos-1])
		end := pos + len(keyword)
		afterOK := end == len(masked) || !isWordChar(masked[end])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
