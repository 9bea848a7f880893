package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// Plausible calendar window for Gregorian years found in questions.
const (
	minGregorianYear = 1990
	maxGregorianYear = 2035
)

// Thai Buddhist-era years (พ.ศ.) are 543 ahead of Gregorian.
const buddhistEraOffset = 543

var (
	yearPattern   = regexp.MustCompile(`\d{4}`)
	quotedPattern = regexp.MustCompile(`["'“”]([^"'“”]{1,60})["'“”]`)
	// A run of Thai characters directly following the word "ลูกค้า"
	// names a specific customer (Thai has no word spacing).
	customerPattern = regexp.MustCompile(`ลูกค้า\s*([ก-๙A-Za-z0-9]{2,40})`)
	// Capitalized English tokens, e.g. company or customer names.
	properNamePattern = regexp.MustCompile(`\b[A-Z][a-z]{2,}(?:\s+[A-Z][a-z]{2,})*\b`)
)

// thaiMonths maps Thai month names and abbreviations to month numbers.
var thaiMonths = map[string]int{
	"มกราคม": 1, "ม.ค.": 1,
	"กุมภาพันธ์": 2, "ก.พ.": 2,
	"มีนาคม": 3, "มี.ค.": 3,
	"เมษายน": 4, "เม.ย.": 4,
	"พฤษภาคม": 5, "พ.ค.": 5,
	"มิถุนายน": 6, "มิ.ย.": 6,
	"กรกฎาคม": 7, "ก.ค.": 7,
	"สิงหาคม": 8, "ส.ค.": 8,
	"กันยายน": 9, "ก.ย.": 9,
	"ตุลาคม": 10, "ต.ค.": 10,
	"พฤศจิกายน": 11, "พ.ย.": 11,
	"ธันวาคม": 12, "ธ.ค.": 12,
}

var englishMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// Generic words that follow "ลูกค้า" without naming anyone.
var customerStopwords = map[string]bool{
	"ทั้งหมด": true, // all
	"ทุกคน":   true, // everyone
	"ใหม่":    true, // new
	"เก่า":    true, // old
	"ราย":     true,
}

// ExtractEntities pulls years, months, products, and customers out of a
// question. Extraction is independent of intent classification. Absent
// entities yield no key rather than a failure.
func ExtractEntities(question string) map[string][]string {
	entities := make(map[string][]string)

	if years := extractYears(question); len(years) > 0 {
		entities[models.EntityYears] = years
	}
	if months := extractMonths(question); len(months) > 0 {
		entities[models.EntityMonths] = months
	}
	if products := extractProducts(question); len(products) > 0 {
		entities[models.EntityProducts] = products
	}
	if customers := extractCustomers(question); len(customers) > 0 {
		entities[models.EntityCustomers] = customers
	}

	return entities
}

// extractYears finds 4-digit year tokens. Thai Buddhist-era years are
// converted to Gregorian (e.g. 2567 → 2024); everything outside the
// plausible calendar window is ignored.
func extractYears(question string) []string {
	var years []string
	seen := make(map[string]bool)

	for _, tok := range yearPattern.FindAllString(question, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}

		switch {
		case n >= minGregorianYear && n <= maxGregorianYear:
			// already Gregorian
		case n-buddhistEraOffset >= minGregorianYear && n-buddhistEraOffset <= maxGregorianYear:
			n -= buddhistEraOffset
		default:
			continue
		}

		year := strconv.Itoa(n)
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}

	return years
}

// extractMonths finds Thai/English month names and abbreviations.
// Months are normalized to zero-padded numbers ("01".."12") and
// ordered by where they first appear in the question, so the result is
// stable regardless of map iteration order.
func extractMonths(question string) []string {
	lower := strings.ToLower(question)

	// Earliest byte offset per month.
	positions := make(map[int]int)
	note := func(m, pos int) {
		if pos < 0 {
			return
		}
		if cur, ok := positions[m]; !ok || pos < cur {
			positions[m] = pos
		}
	}

	for name, m := range thaiMonths {
		note(m, strings.Index(question, name))
	}
	for name, m := range englishMonths {
		note(m, strings.Index(lower, name))
	}

	if len(positions) == 0 {
		return nil
	}

	found := make([]int, 0, len(positions))
	for m := range positions {
		found = append(found, m)
	}
	sort.Slice(found, func(i, j int) bool {
		if positions[found[i]] != positions[found[j]] {
			return positions[found[i]] < positions[found[j]]
		}
		return found[i] < found[j]
	})

	months := make([]string, 0, len(found))
	for _, m := range found {
		months = append(months, padMonth(m))
	}
	return months
}

// extractProducts finds quoted literals, which in parts questions name
// the product being asked about.
func extractProducts(question string) []string {
	var products []string
	seen := make(map[string]bool)

	for _, match := range quotedPattern.FindAllStringSubmatch(question, -1) {
		token := strings.TrimSpace(match[1])
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		products = append(products, token)
	}

	return products
}

// extractCustomers finds names following the word "ลูกค้า" and
// capitalized English proper names.
func extractCustomers(question string) []string {
	var customers []string
	seen := make(map[string]bool)

	add := func(token string) {
		token = strings.TrimSpace(token)
		if token == "" || seen[token] {
			return
		}
		// Thai has no word spacing, so a generic word right after
		// "ลูกค้า" swallows the rest of the clause. A stopword prefix
		// means no specific customer was named.
		for stop := range customerStopwords {
			if strings.HasPrefix(token, stop) {
				return
			}
		}
		seen[token] = true
		customers = append(customers, token)
	}

	for _, match := range customerPattern.FindAllStringSubmatch(question, -1) {
		add(match[1])
	}
	for _, match := range properNamePattern.FindAllString(question, -1) {
		add(match)
	}

	return customers
}

func padMonth(m int) string {
	if m < 10 {
		return "0" + strconv.Itoa(m)
	}
	return strconv.Itoa(m)
}
