package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a derived, recomputable end-of-day snapshot of an account's
// value, keyed by (account, date). Exactly one row exists per key; the
// calculator overwrites prior rows so recomputation is idempotent.
type Balance struct {
	BalanceID   string          `json:"balanceID"`   // Primary Key (e.g., UUID)
	AccountID   string          `json:"accountID"`   // FK -> accounts.account_id (Not Null)
	BalanceDate time.Time       `json:"balanceDate"` // Snapshot date (UTC midnight)
	Amount      decimal.Decimal `json:"amount"`      // End-of-day value in the account's currency
	FlowsFactor int             `json:"flowsFactor"` // Exactly -1 or +1; how the day's flows combined with the prior balance
	AuditFields
}
