package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/homefin/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxEntryRepository implements the append-only entry log using pgxpool.
// There are no UPDATE or DELETE statements in this file on purpose.
type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

// Nullable text columns come back as empty strings so the domain type stays
// free of pointer fields.
const entryColumns = `entry_id, account_id, entry_date, amount, currency_code, kind,
	COALESCE(memo, ''), COALESCE(external_id, ''), COALESCE(original_entry_id, ''),
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.EntryID, &e.AccountID, &e.EntryDate, &e.Amount, &e.CurrencyCode, &e.Kind,
		&e.Memo, &e.ExternalID, &e.OriginalEntryID,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()
	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating entry rows", err)
	}
	return entries, nil
}

// SaveEntry appends one entry to the log. A duplicate (account, external ID)
// pair maps to ErrDuplicate so sync ingestion can skip already-seen rows.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	query := `
		INSERT INTO entries (
			entry_id, account_id, entry_date, amount, currency_code, kind,
			memo, external_id, original_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.EntryID, entry.AccountID, entry.EntryDate,
		entry.Amount, entry.CurrencyCode, entry.Kind,
		entry.Memo, entry.ExternalID, entry.OriginalEntryID,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "entry already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert entry", err)
	}
	return nil
}

// FindEntryByID retrieves a specific entry by its unique identifier.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find entry", err)
	}
	return entry, nil
}

// ListEntriesByAccount retrieves every entry for an account within the
// inclusive date range, ordered by date with ties broken by insertion order.
func (r *PgxEntryRepository) ListEntriesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list entries", err)
	}
	return scanEntries(rows)
}

// ListEntriesByAccountPaginated retrieves one page of an account's entries in
// log order. The returned token resumes after the last row of the page.
func (r *PgxEntryRepository) ListEntriesByAccountPaginated(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE account_id = $1
		ORDER BY entry_date, created_at, entry_id
		LIMIT $2;
	`
	args := []any{accountID, limit + 1}
	if nextToken != nil && *nextToken != "" {
		afterDate, afterCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query = `
			SELECT ` + entryColumns + `
			FROM entries
			WHERE account_id = $1 AND (entry_date, created_at) > ($2, $3)
			ORDER BY entry_date, created_at, entry_id
			LIMIT $4;
		`
		args = []any{accountID, afterDate, afterCreated, limit + 1}
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list entries", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// ListEntriesByFamily retrieves entries across all of a family's accounts
// within the inclusive date range, ordered by date then insertion order.
func (r *PgxEntryRepository) ListEntriesByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumnsQualified + `
		FROM entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE a.family_id = $1 AND e.entry_date >= $2 AND e.entry_date <= $3
		ORDER BY e.entry_date, e.created_at, e.entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list family entries", err)
	}
	return scanEntries(rows)
}

const entryColumnsQualified = `e.entry_id, e.account_id, e.entry_date, e.amount, e.currency_code, e.kind,
	COALESCE(e.memo, ''), COALESCE(e.external_id, ''), COALESCE(e.original_entry_id, ''),
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

// FindCompensatingEntry retrieves the compensating entry referencing the given
// original entry, if one exists.
func (r *PgxEntryRepository) FindCompensatingEntry(ctx context.Context, originalEntryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE original_entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, originalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no compensating entry for " + originalEntryID)
		}
		return nil, apperrors.NewAppError(500, "failed to find compensating entry", err)
	}
	return entry, nil
}
