package domain

// Currency is one row of the currency registry. Every entry, account, and
// exchange rate references a registered code, so unknown codes are rejected
// at the edge instead of surfacing later as unpriceable amounts.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 style code, uppercase, primary key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	AuditFields
}
