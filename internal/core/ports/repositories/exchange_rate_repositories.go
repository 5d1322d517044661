package repositories

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateByDate retrieves the rate for the exact (from, to, date) tuple,
	// or ErrNotFound when none is cached.
	FindRateByDate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveRateIfAbsent persists a rate unless one already exists for the same
	// (from, to, date) tuple. Racing writers both succeed; the first row wins.
	SaveRateIfAbsent(ctx context.Context, rate domain.ExchangeRate) error

	// UpsertRate persists a rate, overwriting any existing row for the same
	// (from, to, date) tuple. Used by the manual rate API.
	UpsertRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange-rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
