package services

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProvider supplies exchange rates on demand from an external market-data
// source. Implementations must honor ctx deadlines; the normalizer bounds
// every call with a timeout and treats timeouts as retryable.
type RateProvider interface {
	// FetchRate returns the rate converting fromCode into toCode on the exact
	// date. Returns ErrRateUnavailable when the provider has no quote.
	FetchRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error)
}

// ProviderEntry is one raw financial event from an external bank feed, before
// it is adapted into a ledger entry.
type ProviderEntry struct {
	ExternalID   string          // Provider-side identifier, used for de-duplication
	Date         time.Time       // Date the event occurred
	Amount       decimal.Decimal // Signed; positive = inflow
	CurrencyCode string
	Kind         domain.EntryKind
	Memo         string
}

// BankDataProvider supplies raw transaction payloads for an account from an
// external aggregator. Implementations must honor ctx deadlines.
type BankDataProvider interface {
	// FetchEntries returns the account's raw events within the inclusive
	// date range.
	FetchEntries(ctx context.Context, account domain.Account, from, to time.Time) ([]ProviderEntry, error)
}
