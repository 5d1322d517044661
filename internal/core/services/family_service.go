package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
)

// familyService provides business logic for the tenant root.
type familyService struct {
	familyRepo  portsrepo.FamilyRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(familyRepo portsrepo.FamilyRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.FamilySvcFacade {
	return &familyService{
		familyRepo:  familyRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.FamilySvcFacade = (*familyService)(nil)

// CreateFamily persists a new family with its base currency.
func (s *familyService) CreateFamily(ctx context.Context, req dto.CreateFamilyRequest, creatorUserID string) (*domain.Family, error) {
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.BaseCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: base currency code '%s' not found", apperrors.ErrValidation, req.BaseCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate base currency '%s': %w", req.BaseCurrencyCode, err)
	}

	now := time.Now().UTC()
	family := domain.Family{
		FamilyID:         uuid.NewString(),
		Name:             req.Name,
		BaseCurrencyCode: req.BaseCurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.familyRepo.SaveFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("failed to create family in service: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Family created",
		slog.String("family_id", family.FamilyID),
		slog.String("base_currency", family.BaseCurrencyCode))
	return &family, nil
}

// GetFamilyByID retrieves a family by its ID.
func (s *familyService) GetFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family in service: %w", err)
	}
	return family, nil
}

// DeleteFamily removes a family; the store cascades to all owned entities.
func (s *familyService) DeleteFamily(ctx context.Context, familyID string) error {
	if err := s.familyRepo.DeleteFamily(ctx, familyID); err != nil {
		return fmt.Errorf("failed to delete family in service: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Family deleted", slog.String("family_id", familyID))
	return nil
}
