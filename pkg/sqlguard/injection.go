package sqlguard

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionFinding describes a SQL injection pattern detected in a
// free-text value before it ever reaches SQL generation.
type InjectionFinding struct {
	Source      string // which input failed the check ("question", entity category)
	Value       string // the offending value
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// ScreenValue runs libinjection over a single free-text value. Returns
// nil when no injection pattern is detected.
func ScreenValue(source, value string) *InjectionFinding {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}

	return &InjectionFinding{
		Source:      source,
		Value:       value,
		Fingerprint: string(fingerprint),
	}
}

// ScreenQuestion checks the raw question and every extracted entity
// literal for injection patterns. Findings are returned in no
// particular order; an empty slice means all inputs are clean.
func ScreenQuestion(question string, entities map[string][]string) []InjectionFinding {
	var findings []InjectionFinding

	if f := ScreenValue("question", question); f != nil {
		findings = append(findings, *f)
	}
	for category, values := range entities {
		for _, value := range values {
			if f := ScreenValue(category, value); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	return findings
}
