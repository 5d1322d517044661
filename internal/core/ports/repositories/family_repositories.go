package repositories

import (
	"context"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// FamilyReader defines read operations for family data
type FamilyReader interface {
	// FindFamilyByID retrieves a specific family by its unique identifier.
	FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)
}

// FamilyWriter defines write operations for family data
type FamilyWriter interface {
	// SaveFamily persists a new family.
	SaveFamily(ctx context.Context, family domain.Family) error

	// DeleteFamily removes a family and cascades to all owned entities.
	DeleteFamily(ctx context.Context, familyID string) error
}

// FamilyRepositoryFacade combines all family-related repository interfaces
type FamilyRepositoryFacade interface {
	FamilyReader
	FamilyWriter
}
