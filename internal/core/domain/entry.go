package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the closed set of financial event kinds. Dispatch on it with a
// switch; there is deliberately no open-ended subtyping here.
type EntryKind string

const (
	KindTransaction EntryKind = "TRANSACTION"
	KindValuation   EntryKind = "VALUATION"
	KindTrade       EntryKind = "TRADE"
)

// ValidEntryKind reports whether k is one of the recognized entry kinds.
func ValidEntryKind(k EntryKind) bool {
	switch k {
	case KindTransaction, KindValuation, KindTrade:
		return true
	}
	return false
}

// Entry is an immutable, append-only record of one financial event against an
// account. Entries are never mutated or deleted after creation; corrections
// are made via compensating entries (see OriginalEntryID).
//
// Sign convention, uniform system-wide: positive amount = inflow (money into
// the account), negative amount = outflow.
type Entry struct {
	EntryID         string          `json:"entryID"`         // Primary Key (e.g., UUID)
	AccountID       string          `json:"accountID"`       // FK -> accounts.account_id (Not Null)
	EntryDate       time.Time       `json:"entryDate"`       // Date the event occurred (UTC midnight)
	Amount          decimal.Decimal `json:"amount"`          // Signed; precise decimal type
	CurrencyCode    string          `json:"currencyCode"`    // ISO code of the amount as recorded
	Kind            EntryKind       `json:"kind"`            // TRANSACTION, VALUATION or TRADE
	Memo            string          `json:"memo"`            // Nullable user description
	ExternalID      string          `json:"externalID"`      // Provider-side identifier for synced entries; empty for manual appends
	OriginalEntryID string          `json:"originalEntryID"` // Set on compensating entries only; back-reference to the voided entry
	AuditFields
}

// IsCompensating reports whether this entry voids an earlier one.
func (e Entry) IsCompensating() bool {
	return e.OriginalEntryID != ""
}

// IsInflow reports whether the entry moves money into the account.
func (e Entry) IsInflow() bool {
	return e.Amount.IsPositive()
}

// IsOutflow reports whether the entry moves money out of the account.
func (e Entry) IsOutflow() bool {
	return e.Amount.IsNegative()
}
