package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

// balanceNamespace derives deterministic balance row IDs from (account, date),
// so recomputation rewrites the same rows instead of minting new identities.
var balanceNamespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

// balanceService derives per-account, per-day balance snapshots from the
// entry log. Recomputation is idempotent: the same entry set always produces
// the same rows, and rows are replaced atomically per date range.
type balanceService struct {
	entryRepo   portsrepo.EntryReader
	balanceRepo portsrepo.BalanceRepositoryFacade
	accountRepo portsrepo.AccountReader
	accountSvc  portssvc.AccountSvcFacade
	normalizer  portssvc.NormalizerSvcFacade
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(entryRepo portsrepo.EntryReader, balanceRepo portsrepo.BalanceRepositoryFacade, accountRepo portsrepo.AccountReader, accountSvc portssvc.AccountSvcFacade, normalizer portssvc.NormalizerSvcFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		accountRepo: accountRepo,
		accountSvc:  accountSvc,
		normalizer:  normalizer,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// Recompute derives and persists one balance row per day for the account over
// the inclusive date range, overwriting prior rows.
func (s *balanceService) Recompute(ctx context.Context, accountID string, from, to time.Time) ([]domain.Balance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from = ledger.NormalizeDate(from)
	to = ledger.NormalizeDate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: balance range end precedes start", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account for recompute: %w", err)
	}

	// Opening balance: the last snapshot strictly before the range, zero when
	// the account has no earlier history.
	opening := decimal.Zero
	prior, err := s.balanceRepo.FindBalanceBefore(ctx, accountID, from)
	if err == nil {
		opening = prior.Amount
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load opening balance: %w", err)
	}

	entries, err := s.entryRepo.ListEntriesByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for recompute: %w", err)
	}

	// Normalize every entry into the account currency before aggregation.
	amounts := make([]decimal.Decimal, len(entries))
	for i := range entries {
		amounts[i], err = s.normalizer.Normalize(ctx, entries[i].Amount, entries[i].CurrencyCode, account.CurrencyCode, entries[i].EntryDate)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize entry %s: %w", entries[i].EntryID, err)
		}
	}
	flows := ledger.NetFlowsByDay(entries, amounts)

	factor := account.FlowsFactor()
	now := time.Now().UTC()
	balances := make([]domain.Balance, 0, ledger.DaysBetween(from, to)+1)
	running := opening
	ledger.EachDay(from, to, func(day time.Time) {
		// Gap days carry the prior balance forward unchanged.
		if net, ok := flows[day]; ok {
			running = ledger.CombineBalance(running, net, factor)
		}
		balances = append(balances, domain.Balance{
			BalanceID:   uuid.NewSHA1(balanceNamespace, []byte(accountID+"|"+day.Format("2006-01-02"))).String(),
			AccountID:   accountID,
			BalanceDate: day,
			Amount:      running,
			FlowsFactor: factor,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "system",
				LastUpdatedAt: now,
				LastUpdatedBy: "system",
			},
		})
	})

	// Recomputing over an unchanged entry set must reproduce the prior rows
	// exactly, audit fields included; only rows whose amount actually moved
	// get fresh timestamps.
	existing, err := s.balanceRepo.ListBalances(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior balances: %w", err)
	}
	prevByID := make(map[string]domain.Balance, len(existing))
	for _, b := range existing {
		prevByID[b.BalanceID] = b
	}
	for i := range balances {
		prev, ok := prevByID[balances[i].BalanceID]
		if ok && prev.Amount.Equal(balances[i].Amount) && prev.FlowsFactor == balances[i].FlowsFactor {
			balances[i].AuditFields = prev.AuditFields
		}
	}

	// All rows land or none do; a failed write leaves prior snapshots intact.
	if err := s.balanceRepo.ReplaceBalances(ctx, accountID, from, to, balances); err != nil {
		return nil, fmt.Errorf("failed to persist balances: %w", err)
	}

	logger.Debug("Balances recomputed",
		slog.String("account_id", accountID),
		slog.Int("days", len(balances)))
	return balances, nil
}

// RecomputeFrom recomputes from the given date through today. A back-dated
// entry invalidates every snapshot forward of its date, never earlier ones.
func (s *balanceService) RecomputeFrom(ctx context.Context, accountID string, from time.Time) ([]domain.Balance, error) {
	return s.Recompute(ctx, accountID, from, time.Now())
}

// GetBalances reads persisted balance snapshots, scoped to the family.
func (s *balanceService) GetBalances(ctx context.Context, familyID string, accountID string, from, to time.Time) ([]domain.Balance, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, familyID, accountID); err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.ListBalances(ctx, accountID, ledger.NormalizeDate(from), ledger.NormalizeDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list balances in service: %w", err)
	}
	return balances, nil
}
