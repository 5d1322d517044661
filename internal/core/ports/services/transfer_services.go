package services

import (
	"context"
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// TransferSvcFacade exposes the transfer matcher.
type TransferSvcFacade interface {
	// MatchTransfers pairs opposite-signed entries across a family's accounts
	// within the date window into transfers. Idempotent: already-claimed
	// entries are never re-paired.
	MatchTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error)

	// ListTransfers reads persisted transfer pairings for a family.
	ListTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error)
}
