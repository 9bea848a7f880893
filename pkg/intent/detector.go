// Package intent classifies Thai business questions into intent
// categories and extracts structured entities from free text. All
// functions are pure and perform no I/O.
package intent

import (
	"strings"

	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// Detection is the result of classifying one question.
type Detection struct {
	Intent     models.Intent
	Entities   map[string][]string
	Confidence float64
}

// ruleGroup scores one intent category. Keywords carry individual
// weights so strong signals ("ยอดขาย") outrank generic ones ("ยอด").
type ruleGroup struct {
	intent   models.Intent
	keywords []weightedKeyword
}

type weightedKeyword struct {
	token  string
	weight float64
}

// ruleGroups are ordered by tie-break priority:
// sales > work_force > parts_price > customer_history > inventory.
var ruleGroups = []ruleGroup{
	{
		intent: models.IntentSalesAnalysis,
		keywords: []weightedKeyword{
			{"ยอดขาย", 3}, {"รายได้", 3}, {"รายรับ", 3}, {"กำไร", 2},
			{"ขาย", 1}, {"ยอด", 1},
			{"revenue", 3}, {"sales", 3}, {"income", 2}, {"profit", 2},
		},
	},
	{
		intent: models.IntentWorkForce,
		keywords: []weightedKeyword{
			{"กำลังคน", 3}, {"พนักงาน", 3}, {"ช่าง", 2}, {"คนงาน", 2},
			{"ทีมช่าง", 3}, {"ชั่วโมงงาน", 2},
			{"workforce", 3}, {"work force", 3}, {"staff", 2}, {"technician", 2},
		},
	},
	{
		intent: models.IntentPartsPrice,
		keywords: []weightedKeyword{
			{"ราคาอะไหล่", 4}, {"อะไหล่", 3}, {"ชิ้นส่วน", 2}, {"ราคา", 1},
			{"ค่าแรง", 1},
			{"parts", 3}, {"spare part", 3}, {"price", 1},
		},
	},
	{
		intent: models.IntentCustomerHistory,
		keywords: []weightedKeyword{
			{"ประวัติลูกค้า", 4}, {"ลูกค้า", 2}, {"ประวัติ", 2},
			{"เข้าศูนย์", 2}, {"เข้ารับบริการ", 2},
			{"customer", 2}, {"history", 2},
		},
	},
	{
		intent: models.IntentInventory,
		keywords: []weightedKeyword{
			{"สต็อก", 3}, {"คงคลัง", 3}, {"คลังสินค้า", 3}, {"คงเหลือ", 2},
			{"stock", 3}, {"inventory", 3},
		},
	},
}

// Detector classifies questions into intents and extracts entities.
// It is stateless and safe for concurrent use.
type Detector struct{}

// NewDetector creates a new detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect classifies a question and extracts entities. It never fails:
// an unmatchable question yields IntentUnknown with zero confidence and
// empty entity lists.
func (d *Detector) Detect(question string) Detection {
	det := Detection{
		Intent:   models.IntentUnknown,
		Entities: ExtractEntities(question),
	}

	normalized := strings.ToLower(strings.TrimSpace(question))
	if normalized == "" {
		return det
	}

	var bestScore float64
	for _, group := range ruleGroups {
		var score float64
		for _, kw := range group.keywords {
			if strings.Contains(normalized, kw.token) {
				score += kw.weight
			}
		}
		// Strictly greater keeps the earlier group on ties (fixed
		// priority order).
		if score > bestScore {
			bestScore = score
			det.Intent = group.intent
		}
	}

	if bestScore > 0 {
		// A single strong keyword is already a confident signal;
		// scale so two strong matches saturate.
		conf := bestScore / 6.0
		if conf > 1 {
			conf = 1
		}
		det.Confidence = conf
	}

	return det
}
