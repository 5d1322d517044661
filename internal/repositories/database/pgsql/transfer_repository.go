package pgsql

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransferRepository implements the derived transfer store using pgxpool.
type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepositoryFacade {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

// ListTransfersByFamily retrieves transfer pairings for a family whose entries
// fall within the inclusive date range.
func (r *PgxTransferRepository) ListTransfersByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
	query := `
		SELECT t.transfer_id, t.family_id, t.outflow_entry_id, t.inflow_entry_id,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM transfers t
		JOIN entries o ON o.entry_id = t.outflow_entry_id
		WHERE t.family_id = $1 AND o.entry_date >= $2 AND o.entry_date <= $3
		ORDER BY o.entry_date, t.transfer_id;
	`
	rows, err := r.Pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transfers", err)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(&t.TransferID, &t.FamilyID, &t.OutflowEntryID, &t.InflowEntryID,
			&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transfer row", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating transfer rows", err)
	}
	return transfers, nil
}

// FindClaimedEntryIDs returns the set of entry IDs already referenced by a
// transfer within the family.
func (r *PgxTransferRepository) FindClaimedEntryIDs(ctx context.Context, familyID string) (map[string]struct{}, error) {
	query := `
		SELECT outflow_entry_id, inflow_entry_id
		FROM transfers
		WHERE family_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load claimed entry IDs", err)
	}
	defer rows.Close()

	claimed := make(map[string]struct{})
	for rows.Next() {
		var outflowID, inflowID string
		if err := rows.Scan(&outflowID, &inflowID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan claimed entry row", err)
		}
		claimed[outflowID] = struct{}{}
		claimed[inflowID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating claimed entry rows", err)
	}
	return claimed, nil
}

// SaveTransfers persists new transfer pairings in one transaction. Unique
// constraints on the entry references reject any pairing that would claim an
// entry twice, rolling back the whole batch.
func (r *PgxTransferRepository) SaveTransfers(ctx context.Context, transfers []domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO transfers (transfer_id, family_id, outflow_entry_id, inflow_entry_id,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, t := range transfers {
		batch.Queue(query,
			t.TransferID, t.FamilyID, t.OutflowEntryID, t.InflowEntryID,
			t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range transfers {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if isUniqueViolation(err) {
				return apperrors.NewAppError(409, "entry already claimed by a transfer", apperrors.ErrDuplicate)
			}
			return apperrors.NewAppError(500, "failed to insert transfer", err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to flush transfer batch", err)
	}

	return r.Commit(ctx, tx)
}
