package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

// TransferMatchConfig carries the matching tolerances. Both are deployment
// configuration, deliberately not hardcoded.
type TransferMatchConfig struct {
	WindowDays int             // Max day distance between the two sides
	Epsilon    decimal.Decimal // Max normalized amount delta, absorbs rate rounding
}

// transferService pairs opposite-signed transaction entries across a family's
// accounts into transfers. Matching is a derived index over the entry log:
// idempotent, and an entry is claimed by at most one transfer.
type transferService struct {
	entryRepo    portsrepo.EntryReader
	transferRepo portsrepo.TransferRepositoryFacade
	familyRepo   portsrepo.FamilyReader
	normalizer   portssvc.NormalizerSvcFacade
	cfg          TransferMatchConfig
}

// NewTransferService creates a new TransferService.
func NewTransferService(entryRepo portsrepo.EntryReader, transferRepo portsrepo.TransferRepositoryFacade, familyRepo portsrepo.FamilyReader, normalizer portssvc.NormalizerSvcFacade, cfg TransferMatchConfig) portssvc.TransferSvcFacade {
	return &transferService{
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		familyRepo:   familyRepo,
		normalizer:   normalizer,
		cfg:          cfg,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// candidate is one potential outflow/inflow pairing with its ranking keys.
type candidate struct {
	outflow     domain.Entry
	inflow      domain.Entry
	dayDelta    int
	amountDelta decimal.Decimal
}

// MatchTransfers pairs entries within the date window into transfers.
func (s *transferService) MatchTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family for matching: %w", err)
	}

	// Widen the scan by the window so pairs straddling the range edge are seen.
	scanFrom := ledger.NormalizeDate(from).AddDate(0, 0, -s.cfg.WindowDays)
	scanTo := ledger.NormalizeDate(to).AddDate(0, 0, s.cfg.WindowDays)
	entries, err := s.entryRepo.ListEntriesByFamily(ctx, familyID, scanFrom, scanTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for matching: %w", err)
	}

	claimed, err := s.transferRepo.FindClaimedEntryIDs(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claimed entries: %w", err)
	}

	// A voided original and its compensating negation cancel to nothing, so
	// neither side may claim a real counterpart. Compensating entries carry
	// the original's entry date, so both land inside the same scan.
	voided := make(map[string]struct{})
	for _, e := range entries {
		if e.IsCompensating() {
			voided[e.OriginalEntryID] = struct{}{}
		}
	}

	// Only live transactions participate; valuations/trades are not money
	// movements between accounts.
	var outflows, inflows []domain.Entry
	normalized := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		if e.Kind != domain.KindTransaction || e.IsCompensating() {
			continue
		}
		if _, ok := voided[e.EntryID]; ok {
			continue
		}
		if _, taken := claimed[e.EntryID]; taken {
			continue
		}
		norm, err := s.normalizer.Normalize(ctx, e.Amount, e.CurrencyCode, family.BaseCurrencyCode, e.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize entry %s for matching: %w", e.EntryID, err)
		}
		normalized[e.EntryID] = norm.Abs()
		switch {
		case e.IsOutflow():
			outflows = append(outflows, e)
		case e.IsInflow():
			inflows = append(inflows, e)
		}
	}

	var candidates []candidate
	for _, o := range outflows {
		for _, i := range inflows {
			if o.AccountID == i.AccountID {
				continue
			}
			dayDelta := ledger.AbsDays(o.EntryDate, i.EntryDate)
			if dayDelta > s.cfg.WindowDays {
				continue
			}
			amountDelta := normalized[o.EntryID].Sub(normalized[i.EntryID]).Abs()
			if amountDelta.GreaterThan(s.cfg.Epsilon) {
				continue
			}
			candidates = append(candidates, candidate{outflow: o, inflow: i, dayDelta: dayDelta, amountDelta: amountDelta})
		}
	}

	// Rank: closest date, then smallest amount delta, then earliest-created
	// entry; entry IDs break the final tie so matching is deterministic.
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.dayDelta != cb.dayDelta {
			return ca.dayDelta < cb.dayDelta
		}
		if !ca.amountDelta.Equal(cb.amountDelta) {
			return ca.amountDelta.LessThan(cb.amountDelta)
		}
		if !ca.outflow.CreatedAt.Equal(cb.outflow.CreatedAt) {
			return ca.outflow.CreatedAt.Before(cb.outflow.CreatedAt)
		}
		if ca.outflow.EntryID != cb.outflow.EntryID {
			return ca.outflow.EntryID < cb.outflow.EntryID
		}
		return ca.inflow.EntryID < cb.inflow.EntryID
	})

	now := time.Now().UTC()
	taken := make(map[string]struct{})
	var transfers []domain.Transfer
	for _, c := range candidates {
		if _, ok := taken[c.outflow.EntryID]; ok {
			continue
		}
		if _, ok := taken[c.inflow.EntryID]; ok {
			continue
		}
		taken[c.outflow.EntryID] = struct{}{}
		taken[c.inflow.EntryID] = struct{}{}
		transfers = append(transfers, domain.Transfer{
			TransferID:     uuid.NewString(),
			FamilyID:       familyID,
			OutflowEntryID: c.outflow.EntryID,
			InflowEntryID:  c.inflow.EntryID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "system",
				LastUpdatedAt: now,
				LastUpdatedBy: "system",
			},
		})
	}

	if len(transfers) > 0 {
		if err := s.transferRepo.SaveTransfers(ctx, transfers); err != nil {
			return nil, fmt.Errorf("failed to persist transfers: %w", err)
		}
	}

	logger.Debug("Transfer matching completed",
		slog.String("family_id", familyID),
		slog.Int("candidates", len(candidates)),
		slog.Int("matched", len(transfers)))
	return transfers, nil
}

// ListTransfers reads persisted transfer pairings for a family.
func (s *transferService) ListTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
	transfers, err := s.transferRepo.ListTransfersByFamily(ctx, familyID, ledger.NormalizeDate(from), ledger.NormalizeDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers in service: %w", err)
	}
	return transfers, nil
}
