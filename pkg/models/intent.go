package models

// Intent represents the classified business-question category.
// The intent selects which prompt context and view hints are used
// for SQL generation.
type Intent string

const (
	IntentSalesAnalysis   Intent = "sales_analysis"
	IntentWorkForce       Intent = "work_force"
	IntentPartsPrice      Intent = "parts_price"
	IntentCustomerHistory Intent = "customer_history"
	IntentInventory       Intent = "inventory"
	IntentUnknown         Intent = "unknown"
)

// ValidIntents contains all intent values the detector can produce.
var ValidIntents = []Intent{
	IntentSalesAnalysis,
	IntentWorkForce,
	IntentPartsPrice,
	IntentCustomerHistory,
	IntentInventory,
	IntentUnknown,
}

// IsValidIntent checks if the given intent is a known category.
func IsValidIntent(i Intent) bool {
	for _, v := range ValidIntents {
		if v == i {
			return true
		}
	}
	return false
}

// Entity category keys used in QueryContext.Entities.
const (
	EntityYears     = "years"
	EntityMonths    = "months"
	EntityProducts  = "products"
	EntityCustomers = "customers"
)
