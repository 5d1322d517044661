package services

import (
	"context"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/homefin/ledger_backend/internal/dto"
)

// FamilySvcFacade exposes family lifecycle operations.
type FamilySvcFacade interface {
	// CreateFamily persists a new family with its base currency.
	CreateFamily(ctx context.Context, req dto.CreateFamilyRequest, creatorUserID string) (*domain.Family, error)

	// GetFamilyByID retrieves a family by its ID.
	GetFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)

	// DeleteFamily removes a family; the store cascades to all owned entities.
	DeleteFamily(ctx context.Context, familyID string) error
}
