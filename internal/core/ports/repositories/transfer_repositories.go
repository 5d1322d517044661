package repositories

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// TransferReader defines read operations for derived transfer pairings
type TransferReader interface {
	// ListTransfersByFamily retrieves transfer pairings for a family whose
	// entries fall within the inclusive date range.
	ListTransfersByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error)

	// FindClaimedEntryIDs returns the set of entry IDs already referenced by a
	// transfer within the family.
	FindClaimedEntryIDs(ctx context.Context, familyID string) (map[string]struct{}, error)
}

// TransferWriter defines write operations for derived transfer pairings
type TransferWriter interface {
	// SaveTransfers persists new transfer pairings. Pairings referencing an
	// already-claimed entry are rejected as a whole.
	SaveTransfers(ctx context.Context, transfers []domain.Transfer) error
}

// TransferRepositoryFacade combines all transfer-related repository interfaces
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}
