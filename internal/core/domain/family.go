package domain

// Family is the tenant root owning all financial data for a household.
// Every account, entry, balance and transfer is scoped to exactly one family.
type Family struct {
	FamilyID         string `json:"familyID"`         // Primary Key (e.g., UUID)
	Name             string `json:"name"`             // User-defined household name
	BaseCurrencyCode string `json:"baseCurrencyCode"` // FK -> currencies.code; cross-account aggregation normalizes into this
	AuditFields
}
