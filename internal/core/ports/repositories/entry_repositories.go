package repositories

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// EntryReader defines read operations for the append-only entry log
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)

	// ListEntriesByAccount retrieves every entry for an account within the
	// inclusive date range, ordered by date with ties broken by insertion order.
	ListEntriesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Entry, error)

	// ListEntriesByAccountPaginated retrieves a paginated slice of an account's
	// entries using token-based pagination. It returns the entries, a token for
	// the next page, and an error.
	ListEntriesByAccountPaginated(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// ListEntriesByFamily retrieves entries across all of a family's accounts
	// within the inclusive date range, ordered by date then insertion order.
	ListEntriesByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Entry, error)

	// FindCompensatingEntry retrieves the compensating entry referencing the
	// given original entry, if one exists.
	FindCompensatingEntry(ctx context.Context, originalEntryID string) (*domain.Entry, error)
}

// EntryWriter defines write operations for the append-only entry log.
// There is deliberately no update or delete: corrections happen by appending
// compensating entries.
type EntryWriter interface {
	// SaveEntry appends one entry to the log.
	SaveEntry(ctx context.Context, entry domain.Entry) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
