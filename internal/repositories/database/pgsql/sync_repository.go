package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSyncRunRepository implements the sync run store using pgxpool.
type PgxSyncRunRepository struct {
	BaseRepository
}

func newPgxSyncRunRepository(pool *pgxpool.Pool) portsrepo.SyncRunRepositoryFacade {
	return &PgxSyncRunRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SyncRunRepositoryFacade = (*PgxSyncRunRepository)(nil)

const syncRunColumns = `sync_id, target_type, target_id, status, window_start, window_end,
	COALESCE(error_message, ''), created_at, created_by, last_updated_at, last_updated_by`

func scanSyncRun(row pgx.Row) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := row.Scan(
		&run.SyncID, &run.TargetType, &run.TargetID, &run.Status,
		&run.WindowStart, &run.WindowEnd, &run.ErrorMessage,
		&run.CreatedAt, &run.CreatedBy, &run.LastUpdatedAt, &run.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindSyncRunByID retrieves a sync run by its unique identifier.
func (r *PgxSyncRunRepository) FindSyncRunByID(ctx context.Context, syncID string) (*domain.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE sync_id = $1;`
	run, err := scanSyncRun(r.Pool.QueryRow(ctx, query, syncID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("sync run " + syncID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find sync run", err)
	}
	return run, nil
}

// FindLatestSyncRun retrieves the most recently created run for a unit.
func (r *PgxSyncRunRepository) FindLatestSyncRun(ctx context.Context, targetType domain.SyncTargetType, targetID string) (*domain.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC, sync_id DESC
		LIMIT 1;
	`
	run, err := scanSyncRun(r.Pool.QueryRow(ctx, query, targetType, targetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no sync runs for " + string(targetType) + " " + targetID)
		}
		return nil, apperrors.NewAppError(500, "failed to find latest sync run", err)
	}
	return run, nil
}

// ClaimSyncRun inserts the run in RUNNING state. A partial unique index on
// (target_type, target_id) WHERE status = 'RUNNING' enforces at most one
// active run per unit; losing the race maps to ErrConcurrentSync.
func (r *PgxSyncRunRepository) ClaimSyncRun(ctx context.Context, run domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (
			sync_id, target_type, target_id, status, window_start, window_end,
			error_message, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		run.SyncID, run.TargetType, run.TargetID, run.Status,
		run.WindowStart, run.WindowEnd, run.ErrorMessage,
		run.CreatedAt, run.CreatedBy, run.LastUpdatedAt, run.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "a sync is already running for this target", apperrors.ErrConcurrentSync)
		}
		return apperrors.NewAppError(500, "failed to claim sync run", err)
	}
	return nil
}

// ReleaseStaleSyncRuns fails RUNNING rows whose lease lapsed. Without this,
// a row stranded by a crashed worker would hold the partial unique index and
// reject every later claim for the unit.
func (r *PgxSyncRunRepository) ReleaseStaleSyncRuns(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE sync_runs
		SET status = $1, error_message = 'sync lease expired', last_updated_at = NOW(), last_updated_by = 'system'
		WHERE status = $2 AND last_updated_at < $3;
	`
	tag, err := r.Pool.Exec(ctx, query, domain.SyncFailed, domain.SyncRunning, cutoff)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to release stale sync runs", err)
	}
	return int(tag.RowsAffected()), nil
}

// FinishSyncRun records the terminal status of a run.
func (r *PgxSyncRunRepository) FinishSyncRun(ctx context.Context, syncID string, status domain.SyncStatus, errorMessage string, userID string, now time.Time) error {
	query := `
		UPDATE sync_runs
		SET status = $1, error_message = NULLIF($2, ''), last_updated_at = $3, last_updated_by = $4
		WHERE sync_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, status, errorMessage, now, userID, syncID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to finish sync run", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("sync run " + syncID + " not found")
	}
	return nil
}
