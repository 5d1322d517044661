package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// ListTransfersParams defines query parameters for reading transfer pairings.
type ListTransfersParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// TransferResponse defines the data returned for one transfer pairing.
type TransferResponse struct {
	TransferID     string    `json:"transferID"`
	FamilyID       string    `json:"familyID"`
	OutflowEntryID string    `json:"outflowEntryID"`
	InflowEntryID  string    `json:"inflowEntryID"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToTransferResponse converts a domain.Transfer to TransferResponse DTO
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:     t.TransferID,
		FamilyID:       t.FamilyID,
		OutflowEntryID: t.OutflowEntryID,
		InflowEntryID:  t.InflowEntryID,
		CreatedAt:      t.CreatedAt,
	}
}

// ToListTransferResponse converts a slice of domain.Transfer to TransferResponse DTOs
func ToListTransferResponse(transfers []domain.Transfer) []TransferResponse {
	res := make([]TransferResponse, len(transfers))
	for i := range transfers {
		res[i] = ToTransferResponse(&transfers[i])
	}
	return res
}
