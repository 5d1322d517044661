package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string                       `json:"name" binding:"required"`
	Classification domain.AccountClassification `json:"classification" binding:"required,oneof=ASSET LIABILITY"`
	Kind           domain.AccountKind           `json:"kind" binding:"required,oneof=DEPOSITORY INVESTMENT CRYPTO PROPERTY VEHICLE CREDIT_CARD LOAN OTHER"`
	CurrencyCode   string                       `json:"currencyCode" binding:"required,currencycode"`
	Description    string                       `json:"description"` // Optional
}

// UpdateAccountStatusRequest moves an account to a new lifecycle status.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE DRAFT DISABLED PENDING_DELETION"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string                       `json:"accountID"`
	FamilyID       string                       `json:"familyID"`
	Name           string                       `json:"name"`
	Classification domain.AccountClassification `json:"classification"`
	Kind           domain.AccountKind           `json:"kind"`
	CurrencyCode   string                       `json:"currencyCode"`
	Status         domain.AccountStatus         `json:"status"`
	Description    string                       `json:"description"`
	CreatedAt      time.Time                    `json:"createdAt"`
	LastUpdatedAt  time.Time                    `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		FamilyID:       acc.FamilyID,
		Name:           acc.Name,
		Classification: acc.Classification,
		Kind:           acc.Kind,
		CurrencyCode:   acc.CurrencyCode,
		Status:         acc.Status,
		Description:    acc.Description,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
