package services

import (
	"context"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/homefin/ledger_backend/internal/dto"
)

// AccountSvcFacade exposes account lifecycle operations.
type AccountSvcFacade interface {
	// CreateAccount persists a new account owned by the family.
	CreateAccount(ctx context.Context, familyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account, scoped to the family.
	GetAccountByID(ctx context.Context, familyID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts owned by the family.
	ListAccounts(ctx context.Context, familyID string) ([]domain.Account, error)

	// UpdateAccountStatus moves an account to a new lifecycle status.
	UpdateAccountStatus(ctx context.Context, familyID string, accountID string, status domain.AccountStatus, userID string) (*domain.Account, error)
}
