package services

import (
	"context"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/homefin/ledger_backend/internal/dto"
)

// SyncSvcFacade exposes the sync orchestrator.
type SyncSvcFacade interface {
	// RunSync executes a sync for the requested unit synchronously. Returns
	// ErrConcurrentSync when a run for the same unit is already in flight.
	RunSync(ctx context.Context, familyID string, req dto.RequestSyncRequest, userID string) (*domain.SyncRun, error)

	// GetSyncRun retrieves a sync run by ID.
	GetSyncRun(ctx context.Context, syncID string) (*domain.SyncRun, error)

	// GetLatestSyncRun retrieves the most recent run for a unit.
	GetLatestSyncRun(ctx context.Context, targetType domain.SyncTargetType, targetID string) (*domain.SyncRun, error)
}
