package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// CreateFamilyRequest defines the data needed to create a new family.
type CreateFamilyRequest struct {
	Name             string `json:"name" binding:"required"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,currencycode"`
}

// FamilyResponse defines the data returned for a family.
type FamilyResponse struct {
	FamilyID         string    `json:"familyID"`
	Name             string    `json:"name"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ToFamilyResponse converts a domain.Family to FamilyResponse DTO
func ToFamilyResponse(f *domain.Family) FamilyResponse {
	return FamilyResponse{
		FamilyID:         f.FamilyID,
		Name:             f.Name,
		BaseCurrencyCode: f.BaseCurrencyCode,
		CreatedAt:        f.CreatedAt,
	}
}
