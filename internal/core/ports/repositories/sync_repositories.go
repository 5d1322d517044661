package repositories

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// SyncRunReader defines read operations for sync run records
type SyncRunReader interface {
	// FindSyncRunByID retrieves a sync run by its unique identifier.
	FindSyncRunByID(ctx context.Context, syncID string) (*domain.SyncRun, error)

	// FindLatestSyncRun retrieves the most recently created run for a unit, or
	// ErrNotFound when the unit has never synced.
	FindLatestSyncRun(ctx context.Context, targetType domain.SyncTargetType, targetID string) (*domain.SyncRun, error)
}

// SyncRunWriter defines write operations for sync run records
type SyncRunWriter interface {
	// ClaimSyncRun persists the run in RUNNING state if and only if no other
	// RUNNING run exists for the same unit. Returns ErrConcurrentSync when the
	// claim loses the race.
	ClaimSyncRun(ctx context.Context, run domain.SyncRun) error

	// FinishSyncRun records the terminal status of a run.
	FinishSyncRun(ctx context.Context, syncID string, status domain.SyncStatus, errorMessage string, userID string, now time.Time) error

	// ReleaseStaleSyncRuns marks RUNNING runs last updated before the cutoff
	// as FAILED, freeing their units for new claims. A crashed worker never
	// finishes its run, so its claim must expire rather than hold the unit.
	// Returns the number of runs released.
	ReleaseStaleSyncRuns(ctx context.Context, cutoff time.Time) (int, error)
}

// SyncRunRepositoryFacade combines all sync-run repository interfaces
type SyncRunRepositoryFacade interface {
	SyncRunReader
	SyncRunWriter
}
