package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizerSvcFacade converts monetary amounts between currencies using
// dated exchange rates.
type NormalizerSvcFacade interface {
	// Normalize converts amount from one currency to another for the exact
	// date. Identity when from == to (no lookup). Returns ErrRateUnavailable
	// when no cached rate exists and no provider can supply one.
	Normalize(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date time.Time) (decimal.Decimal, error)
}
