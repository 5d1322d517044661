package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
)

// accountService provides business logic for account lifecycle.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	familySvc   portssvc.FamilySvcFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, familySvc portssvc.FamilySvcFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		familySvc:   familySvc,
		currencySvc: currencySvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account owned by the family.
func (s *accountService) CreateAccount(ctx context.Context, familyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if _, err := s.familySvc.GetFamilyByID(ctx, familyID); err != nil {
		return nil, err
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", req.CurrencyCode, err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		FamilyID:       familyID,
		Name:           req.Name,
		Classification: req.Classification,
		Kind:           req.Kind,
		CurrencyCode:   req.CurrencyCode,
		Status:         domain.AccountActive,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account in service: %w", err)
	}
	return &account, nil
}

// GetAccountByID retrieves an account, scoped to the family.
func (s *accountService) GetAccountByID(ctx context.Context, familyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account in service: %w", err)
	}
	// Tenant isolation: an account outside the caller's family is not found.
	if account.FamilyID != familyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

// ListAccounts retrieves all accounts owned by the family.
func (s *accountService) ListAccounts(ctx context.Context, familyID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts in service: %w", err)
	}
	return accounts, nil
}

// UpdateAccountStatus moves an account to a new lifecycle status.
func (s *accountService) UpdateAccountStatus(ctx context.Context, familyID string, accountID string, status domain.AccountStatus, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, familyID, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update account status in service: %w", err)
	}

	account.Status = status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	return account, nil
}
