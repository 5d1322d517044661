package services

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/homefin/ledger_backend/internal/dto"
)

// CurrencySvcFacade exposes the currency registry backing ISO-code validation.
type CurrencySvcFacade interface {
	// CreateCurrency registers a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by its ISO code.
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all registered currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateSvcFacade exposes manual exchange-rate maintenance alongside the
// provider-sourced normalizer cache.
type ExchangeRateSvcFacade interface {
	// UpsertExchangeRate records a rate for an exact date, overwriting any
	// existing row for the same (from, to, date) tuple.
	UpsertExchangeRate(ctx context.Context, req dto.UpsertExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// GetExchangeRate retrieves the cached rate for an exact (from, to, date).
	GetExchangeRate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)
}
