package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/homefin/ledger_backend/internal/apperrors"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// HTTPRateProvider fetches exchange rates from an external market-data HTTP
// API. Responses carry one quote per (from, to, date) request.
type HTTPRateProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRateProvider creates a rate provider against the given base URL.
// Per-request deadlines come from ctx; the client itself has no timeout.
func NewHTTPRateProvider(baseURL string) *HTTPRateProvider {
	return &HTTPRateProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

var _ portssvc.RateProvider = (*HTTPRateProvider)(nil)

type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// FetchRate returns the rate converting fromCode into toCode on the exact
// date. A 404 from the provider maps to ErrRateUnavailable.
func (p *HTTPRateProvider) FetchRate(ctx context.Context, fromCode, toCode string, date time.Time) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/rates?%s", p.baseURL, url.Values{
		"from": {fromCode},
		"to":   {toCode},
		"date": {date.Format("2006-01-02")},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching rate %s/%s: %w", fromCode, toCode, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return decimal.Zero, fmt.Errorf("%w: no quote for %s/%s on %s", apperrors.ErrRateUnavailable, fromCode, toCode, date.Format("2006-01-02"))
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decoding rate response: %w", err)
	}
	if !body.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: provider returned non-positive rate", apperrors.ErrRateUnavailable)
	}
	return body.Rate, nil
}
