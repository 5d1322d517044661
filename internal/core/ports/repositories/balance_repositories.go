package repositories

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// BalanceReader defines read operations for derived balance snapshots
type BalanceReader interface {
	// FindBalanceBefore retrieves the most recent balance row strictly before
	// the given date, or ErrNotFound when the account has no earlier snapshot.
	FindBalanceBefore(ctx context.Context, accountID string, date time.Time) (*domain.Balance, error)

	// ListBalances retrieves balance rows for an account within the inclusive
	// date range, ascending by date.
	ListBalances(ctx context.Context, accountID string, from, to time.Time) ([]domain.Balance, error)
}

// BalanceWriter defines write operations for derived balance snapshots
type BalanceWriter interface {
	// ReplaceBalances atomically replaces every balance row for the account in
	// the inclusive date range with the given rows. All rows land or none do,
	// so a failed recomputation leaves prior snapshots intact.
	ReplaceBalances(ctx context.Context, accountID string, from, to time.Time, balances []domain.Balance) error
}

// BalanceRepositoryFacade combines all balance-related repository interfaces
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
