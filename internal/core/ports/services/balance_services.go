package services

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// BalanceSvcFacade exposes the balance calculator.
type BalanceSvcFacade interface {
	// Recompute derives and persists one balance row per day for the account
	// over the inclusive date range, overwriting prior rows. Idempotent.
	Recompute(ctx context.Context, accountID string, from, to time.Time) ([]domain.Balance, error)

	// RecomputeFrom recomputes from the given date through today. Used when a
	// back-dated entry invalidates everything forward of its date.
	RecomputeFrom(ctx context.Context, accountID string, from time.Time) ([]domain.Balance, error)

	// GetBalances reads persisted balance snapshots, scoped to the family.
	GetBalances(ctx context.Context, familyID string, accountID string, from, to time.Time) ([]domain.Balance, error)
}
