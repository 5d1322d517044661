package services

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/homefin/ledger_backend/internal/dto"
)

// EntryReaderSvc defines read operations on the entry log
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry, scoped to the family.
	GetEntryByID(ctx context.Context, familyID string, entryID string) (*domain.Entry, error)

	// ListEntries retrieves an account's entries within a date range, ordered
	// by date with ties broken by insertion order.
	ListEntries(ctx context.Context, familyID string, accountID string, from, to time.Time) ([]domain.Entry, error)

	// ListEntriesPaginated retrieves a token-paginated page of an account's entries.
	ListEntriesPaginated(ctx context.Context, familyID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines append operations on the entry log
type EntryWriterSvc interface {
	// AppendEntry validates and appends one entry. On success an
	// EntryAppended event is published for derived-state recomputation.
	AppendEntry(ctx context.Context, familyID string, req dto.AppendEntryRequest, creatorUserID string) (*domain.Entry, error)

	// VoidEntry appends a compensating entry negating the original. The
	// original row is never touched.
	VoidEntry(ctx context.Context, familyID string, entryID string, reason string, userID string) (*domain.Entry, error)
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
