package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// HTTPBankDataProvider fetches raw account events from an external aggregator
// HTTP API.
type HTTPBankDataProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBankDataProvider creates a bank data provider against the given base
// URL. Per-request deadlines come from ctx.
func NewHTTPBankDataProvider(baseURL string) *HTTPBankDataProvider {
	return &HTTPBankDataProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

var _ portssvc.BankDataProvider = (*HTTPBankDataProvider)(nil)

type providerEntryPayload struct {
	ExternalID   string          `json:"externalID"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Kind         string          `json:"kind"`
	Memo         string          `json:"memo"`
}

type entriesResponse struct {
	Entries []providerEntryPayload `json:"entries"`
}

// FetchEntries returns the account's raw events within the inclusive date
// range. Rows with an unparseable date are returned with a zero Date and left
// for the caller's row validation to reject.
func (p *HTTPBankDataProvider) FetchEntries(ctx context.Context, account domain.Account, from, to time.Time) ([]portssvc.ProviderEntry, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/entries?%s", p.baseURL, url.PathEscape(account.AccountID), url.Values{
		"from": {from.Format("2006-01-02")},
		"to":   {to.Format("2006-01-02")},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building entries request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching entries for account %s: %w", account.AccountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank data provider returned status %d", resp.StatusCode)
	}

	var body entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding entries response: %w", err)
	}

	entries := make([]portssvc.ProviderEntry, 0, len(body.Entries))
	for _, raw := range body.Entries {
		date, _ := time.ParseInLocation("2006-01-02", raw.Date, time.UTC)
		entries = append(entries, portssvc.ProviderEntry{
			ExternalID:   raw.ExternalID,
			Date:         date,
			Amount:       raw.Amount,
			CurrencyCode: raw.CurrencyCode,
			Kind:         domain.EntryKind(raw.Kind),
			Memo:         raw.Memo,
		})
	}
	return entries, nil
}
