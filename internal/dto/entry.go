package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AppendEntryRequest defines the data needed to append one entry to an
// account's ledger. Amount is signed: positive = inflow, negative = outflow.
type AppendEntryRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	EntryDate    time.Time        `json:"entryDate" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode string           `json:"currencyCode" binding:"required,currencycode"`
	Kind         domain.EntryKind `json:"kind" binding:"required,oneof=TRANSACTION VALUATION TRADE"`
	Memo         string           `json:"memo"` // Optional
}

// VoidEntryRequest defines the data needed to void an entry via a
// compensating append.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID         string           `json:"entryID"`
	AccountID       string           `json:"accountID"`
	EntryDate       time.Time        `json:"entryDate"`
	Amount          decimal.Decimal  `json:"amount"`
	CurrencyCode    string           `json:"currencyCode"`
	Kind            domain.EntryKind `json:"kind"`
	Memo            string           `json:"memo"`
	OriginalEntryID string           `json:"originalEntryID,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		AccountID:       e.AccountID,
		EntryDate:       e.EntryDate,
		Amount:          e.Amount,
		CurrencyCode:    e.CurrencyCode,
		Kind:            e.Kind,
		Memo:            e.Memo,
		OriginalEntryID: e.OriginalEntryID,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToListEntryResponse converts a slice of domain.Entry to EntryResponse DTOs
func ToListEntryResponse(entries []domain.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return res
}

// ListEntriesParams defines query parameters for listing an account's entries.
type ListEntriesParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=50"`
	NextToken *string    `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
