package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListBalancesParams defines query parameters for reading balance snapshots.
type ListBalancesParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// BalanceResponse defines the data returned for one daily balance snapshot.
type BalanceResponse struct {
	AccountID   string          `json:"accountID"`
	BalanceDate time.Time       `json:"balanceDate"`
	Amount      decimal.Decimal `json:"amount"`
	FlowsFactor int             `json:"flowsFactor"`
}

// ToBalanceResponse converts a domain.Balance to BalanceResponse DTO
func ToBalanceResponse(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID:   b.AccountID,
		BalanceDate: b.BalanceDate,
		Amount:      b.Amount,
		FlowsFactor: b.FlowsFactor,
	}
}

// ToListBalanceResponse converts a slice of domain.Balance to BalanceResponse DTOs
func ToListBalanceResponse(balances []domain.Balance) []BalanceResponse {
	res := make([]BalanceResponse, len(balances))
	for i := range balances {
		res[i] = ToBalanceResponse(&balances[i])
	}
	return res
}
