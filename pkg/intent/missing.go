package intent

import (
	"github.com/chaiyo-ai/chaiyo-engine/pkg/models"
)

// requirement declares one entity requirement for an intent: at least
// one of the listed categories must be present, otherwise the prompt is
// returned to the user.
type requirement struct {
	anyOf  []string
	prompt string
}

// requiredEntities drives the missing-information check. Requirements
// are ordered; clarification prompts are emitted in this order.
var requiredEntities = map[models.Intent][]requirement{
	models.IntentSalesAnalysis: {
		{anyOf: []string{models.EntityYears}, prompt: "กรุณาระบุปีที่ต้องการดูยอดขาย เช่น ปี 2024 หรือ พ.ศ. 2567"},
	},
	models.IntentWorkForce: {
		{anyOf: []string{models.EntityYears, models.EntityMonths}, prompt: "กรุณาระบุเดือนหรือปีที่ต้องการดูข้อมูลกำลังคน"},
	},
	models.IntentPartsPrice: {
		{anyOf: []string{models.EntityProducts}, prompt: "กรุณาระบุชื่ออะไหล่หรือชิ้นส่วนที่ต้องการสอบถามราคา"},
	},
	models.IntentCustomerHistory: {
		{anyOf: []string{models.EntityCustomers}, prompt: "กรุณาระบุชื่อลูกค้าที่ต้องการดูประวัติการเข้ารับบริการ"},
	},
	models.IntentInventory: {
		{anyOf: []string{models.EntityProducts}, prompt: "กรุณาระบุสินค้าหรืออะไหล่ที่ต้องการตรวจสอบสต็อก"},
	},
}

// unknownIntentPrompt is returned when no intent could be classified;
// without an intent there is no prompt context to generate SQL from.
const unknownIntentPrompt = "ขออภัย ไม่เข้าใจคำถาม กรุณาระบุรายละเอียดเพิ่มเติม เช่น ยอดขาย กำลังคน ราคาอะไหล่ หรือประวัติลูกค้า"

// IdentifyMissing returns clarification prompts for every unmet entity
// requirement of the detected intent, in a fixed intent-specific order.
// An empty result means the pipeline can proceed. Pure and idempotent.
func IdentifyMissing(detected models.Intent, entities map[string][]string) []string {
	if detected == models.IntentUnknown {
		return []string{unknownIntentPrompt}
	}

	var missing []string
	for _, req := range requiredEntities[detected] {
		if !hasAny(entities, req.anyOf) {
			missing = append(missing, req.prompt)
		}
	}
	return missing
}

func hasAny(entities map[string][]string, categories []string) bool {
	for _, cat := range categories {
		if len(entities[cat]) > 0 {
			return true
		}
	}
	return false
}
