package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a
// specific date. Rates are cached write-through per exact date; there is no
// interpolation across dates.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`   // Primary Key (e.g., UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"` // FK -> currencies.code
	ToCurrencyCode   string          `json:"toCurrencyCode"`   // FK -> currencies.code
	Rate             decimal.Decimal `json:"rate"`             // Positive; precise decimal type
	RateDate         time.Time       `json:"rateDate"`         // Exact date the rate applies to (UTC midnight)
	AuditFields
}
