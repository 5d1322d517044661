package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

// normalizerService converts monetary amounts between currencies using dated
// exchange rates. Lookup order: exact-date cache hit, then provider
// fetch-and-cache, then failure. Rates are keyed by the exact date requested;
// there is no interpolation across dates.
type normalizerService struct {
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	provider        portssvc.RateProvider
	providerTimeout time.Duration

	// fetchGroup collapses concurrent fetches for the same (from, to, date)
	// so racing readers trigger a single provider call.
	fetchGroup singleflight.Group
}

// NewNormalizerService creates a new NormalizerService. provider may be nil,
// in which case only cached rates are served.
func NewNormalizerService(rateRepo portsrepo.ExchangeRateRepositoryFacade, provider portssvc.RateProvider, providerTimeout time.Duration) portssvc.NormalizerSvcFacade {
	return &normalizerService{
		rateRepo:        rateRepo,
		provider:        provider,
		providerTimeout: providerTimeout,
	}
}

var _ portssvc.NormalizerSvcFacade = (*normalizerService)(nil)

// Normalize converts amount from one currency to another for the exact date.
func (s *normalizerService) Normalize(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)

	// Identity conversion does no lookup at all.
	if fromCode == toCode {
		return amount, nil
	}

	rate, err := s.lookupRate(ctx, fromCode, toCode, ledger.NormalizeDate(date))
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// lookupRate resolves a rate from the cache or the provider.
func (s *normalizerService) lookupRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	cached, err := s.rateRepo.FindRateByDate(ctx, fromCode, toCode, date)
	if err == nil {
		return cached.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to read rate cache: %w", err)
	}

	if s.provider == nil {
		return decimal.Zero, fmt.Errorf("%w: no cached rate for %s/%s on %s and no provider configured",
			apperrors.ErrRateUnavailable, fromCode, toCode, date.Format("2006-01-02"))
	}

	key := fromCode + "|" + toCode + "|" + date.Format("2006-01-02")
	v, err, _ := s.fetchGroup.Do(key, func() (interface{}, error) {
		return s.fetchAndCache(ctx, fromCode, toCode, date)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// fetchAndCache asks the provider for a rate and persists it write-through.
func (s *normalizerService) fetchAndCache(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	rate, err := s.provider.FetchRate(fetchCtx, fromCode, toCode, date)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// Timeouts are transient; callers may retry with backoff.
			return decimal.Zero, fmt.Errorf("%w: provider timed out for %s/%s: %v", apperrors.ErrRateUnavailable, fromCode, toCode, err)
		}
		return decimal.Zero, fmt.Errorf("%w: provider failed for %s/%s: %v", apperrors.ErrRateUnavailable, fromCode, toCode, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: provider returned non-positive rate %s for %s/%s", apperrors.ErrRateUnavailable, rate, fromCode, toCode)
	}

	now := time.Now().UTC()
	record := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             rate,
		RateDate:         date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}

	// Insert-if-absent so racing fetchers never duplicate rows; a cache-write
	// failure is logged but does not fail the conversion we already have.
	if err := s.rateRepo.SaveRateIfAbsent(ctx, record); err != nil {
		logger.Error("Failed to cache fetched exchange rate",
			slog.String("from", fromCode),
			slog.String("to", toCode),
			slog.String("error", err.Error()))
	}

	return rate, nil
}
