package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

// SyncConfig bounds the orchestrator's retries and default window.
type SyncConfig struct {
	MaxRetries        int           // Provider fetch attempts before the step fails
	BackoffBase       time.Duration // First retry delay; doubles per attempt
	DefaultWindowDays int           // Window when the request does not override it
	FanOutLimit       int           // Max accounts synced concurrently within a family
	LeaseDuration     time.Duration // RUNNING runs idle longer than this are presumed crashed
}

// unitLocks serializes work per key inside this process. The DB claim in
// SyncRunWriter covers cross-process races; this avoids even starting a run
// that would lose that claim. Entries are refcounted and dropped when the
// last holder releases, so the registry stays bounded by in-flight work.
type unitLocks struct {
	mu    sync.Mutex
	locks map[string]*unitLock
}

type unitLock struct {
	mu   sync.Mutex
	refs int
}

func newUnitLocks() *unitLocks {
	return &unitLocks{locks: make(map[string]*unitLock)}
}

func (u *unitLocks) ref(key string) *unitLock {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.locks[key]
	if !ok {
		l = &unitLock{}
		u.locks[key] = l
	}
	l.refs++
	return l
}

func (u *unitLocks) unref(key string, l *unitLock) {
	u.mu.Lock()
	defer u.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(u.locks, key)
	}
}

// tryAcquire takes the key's lock without blocking. ok is false when the key
// is already held; otherwise the caller must invoke release exactly once.
func (u *unitLocks) tryAcquire(key string) (release func(), ok bool) {
	l := u.ref(key)
	if !l.mu.TryLock() {
		u.unref(key, l)
		return nil, false
	}
	return func() {
		l.mu.Unlock()
		u.unref(key, l)
	}, true
}

// acquire blocks until the key's lock is held.
func (u *unitLocks) acquire(key string) (release func()) {
	l := u.ref(key)
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		u.unref(key, l)
	}
}

// syncService coordinates ingestion of external bank data into the entry log
// and triggers derived-state recomputation. At most one sync runs per unit;
// within a family run, one account's failure never aborts its siblings.
type syncService struct {
	syncRepo    portsrepo.SyncRunRepositoryFacade
	entryRepo   portsrepo.EntryRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	currencySvc portssvc.CurrencySvcFacade
	balanceSvc  portssvc.BalanceSvcFacade
	transferSvc portssvc.TransferSvcFacade
	provider    portssvc.BankDataProvider
	cfg         SyncConfig
	locks       *unitLocks
}

// NewSyncService creates a new SyncService.
func NewSyncService(syncRepo portsrepo.SyncRunRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountSvcFacade, currencySvc portssvc.CurrencySvcFacade, balanceSvc portssvc.BalanceSvcFacade, transferSvc portssvc.TransferSvcFacade, provider portssvc.BankDataProvider, cfg SyncConfig) portssvc.SyncSvcFacade {
	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = 4
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = time.Hour
	}
	return &syncService{
		syncRepo:    syncRepo,
		entryRepo:   entryRepo,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
		balanceSvc:  balanceSvc,
		transferSvc: transferSvc,
		provider:    provider,
		cfg:         cfg,
		locks:       newUnitLocks(),
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// RunSync executes a sync for the requested unit.
func (s *syncService) RunSync(ctx context.Context, familyID string, req dto.RequestSyncRequest, userID string) (*domain.SyncRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.resolveTargets(ctx, familyID, req)
	if err != nil {
		return nil, err
	}
	from, to := s.resolveWindow(req)

	// In-process serialization first; losing here means a run is in flight.
	// The claim key is namespaced apart from the per-account writer keys so
	// an account-targeted run never waits on its own claim.
	unitKey := "run:" + string(req.TargetType) + ":" + req.TargetID
	release, ok := s.locks.tryAcquire(unitKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrConcurrentSync, req.TargetType, req.TargetID)
	}
	defer release()

	now := time.Now().UTC()

	// A worker that crashed mid-run leaves its RUNNING row behind; expire
	// lapsed leases first so one crash cannot block a unit's claims forever.
	if expired, serr := s.syncRepo.ReleaseStaleSyncRuns(ctx, now.Add(-s.cfg.LeaseDuration)); serr != nil {
		logger.Warn("Failed to release stale sync runs", slog.String("error", serr.Error()))
	} else if expired > 0 {
		logger.Info("Released stale sync runs", slog.Int("count", expired))
	}

	run := domain.SyncRun{
		SyncID:      uuid.NewString(),
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Status:      domain.SyncPending,
		WindowStart: from,
		WindowEnd:   to,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	run.Status, err = domain.NextSyncStatus(run.Status, domain.SyncStart)
	if err != nil {
		return nil, err
	}

	// DB-level claim covers racing workers in other processes.
	if err := s.syncRepo.ClaimSyncRun(ctx, run); err != nil {
		return nil, err
	}

	logger.Info("Sync started",
		slog.String("sync_id", run.SyncID),
		slog.String("target_type", string(run.TargetType)),
		slog.String("target_id", run.TargetID))

	syncErr := s.syncAccounts(ctx, familyID, accounts, from, to)

	event := domain.SyncSucceed
	errMsg := ""
	if syncErr != nil {
		event = domain.SyncFail
		errMsg = syncErr.Error()
	}
	run.Status, err = domain.NextSyncStatus(run.Status, event)
	if err != nil {
		return nil, err
	}
	run.ErrorMessage = errMsg
	if err := s.syncRepo.FinishSyncRun(ctx, run.SyncID, run.Status, errMsg, userID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record sync result: %w", err)
	}

	if syncErr != nil {
		logger.Warn("Sync failed", slog.String("sync_id", run.SyncID), slog.String("error", errMsg))
		return &run, fmt.Errorf("%w: %s", apperrors.ErrSyncFailed, errMsg)
	}

	logger.Info("Sync completed", slog.String("sync_id", run.SyncID))
	return &run, nil
}

// resolveTargets maps the request onto the accounts it covers, enforcing
// family scope.
func (s *syncService) resolveTargets(ctx context.Context, familyID string, req dto.RequestSyncRequest) ([]domain.Account, error) {
	switch req.TargetType {
	case domain.SyncTargetAccount:
		account, err := s.accountSvc.GetAccountByID(ctx, familyID, req.TargetID)
		if err != nil {
			return nil, err
		}
		return []domain.Account{*account}, nil
	case domain.SyncTargetFamily:
		if req.TargetID != familyID {
			return nil, fmt.Errorf("%w: family target outside caller scope", apperrors.ErrValidation)
		}
		return s.accountSvc.ListAccounts(ctx, familyID)
	default:
		return nil, fmt.Errorf("%w: unknown sync target type '%s'", apperrors.ErrValidation, req.TargetType)
	}
}

func (s *syncService) resolveWindow(req dto.RequestSyncRequest) (time.Time, time.Time) {
	to := ledger.NormalizeDate(time.Now())
	from := to.AddDate(0, 0, -s.cfg.DefaultWindowDays)
	if req.From != nil {
		from = ledger.NormalizeDate(*req.From)
	}
	if req.To != nil {
		to = ledger.NormalizeDate(*req.To)
	}
	return from, to
}

// syncAccounts fans out per account, isolating failures: every account gets
// its attempt, and the combined error reports only the ones that failed.
func (s *syncService) syncAccounts(ctx context.Context, familyID string, accounts []domain.Account, from, to time.Time) error {
	var (
		mu     sync.Mutex
		failed []string
		synced []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOutLimit)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			// Single-writer-per-account: hold the writer lock for the
			// duration of this account's ingest.
			release := s.locks.acquire("writer:" + account.AccountID)
			defer release()

			if err := s.syncOneAccount(gctx, account, from, to); err != nil {
				mu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", account.AccountID, err))
				mu.Unlock()
				// Failure stays local; siblings keep going.
				return nil
			}
			mu.Lock()
			synced = append(synced, account.AccountID)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Derived state refresh for the accounts that actually ingested.
	// Errors here are logged and retried on the next trigger, never dropped.
	logger := middleware.GetLoggerFromCtx(ctx)
	// Ingested entries may be back-dated inside the window; every snapshot
	// from their dates through today is stale, so the refresh is not bounded
	// by the window end.
	for _, accountID := range synced {
		if _, err := s.balanceSvc.RecomputeFrom(ctx, accountID, from); err != nil {
			logger.Error("Post-sync balance recompute failed",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
	}
	if len(synced) > 0 {
		if _, err := s.transferSvc.MatchTransfers(ctx, familyID, from, to); err != nil {
			logger.Error("Post-sync transfer matching failed",
				slog.String("family_id", familyID),
				slog.String("error", err.Error()))
		}
	}

	if len(failed) > 0 {
		return errors.New(strings.Join(failed, "; "))
	}
	return nil
}

// syncOneAccount ingests one account's provider feed into the entry log.
// Cancellation is checked between steps, never mid-write.
func (s *syncService) syncOneAccount(ctx context.Context, account domain.Account, from, to time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := s.fetchWithRetry(ctx, account, from, to)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, p := range raw {
		entry, err := s.adaptProviderEntry(ctx, account, p, now)
		if err != nil {
			// Bad provider rows are skipped, not fatal for the account.
			logger.Warn("Skipping invalid provider entry",
				slog.String("account_id", account.AccountID),
				slog.String("external_id", p.ExternalID),
				slog.String("error", err.Error()))
			continue
		}
		if err := s.entryRepo.SaveEntry(ctx, *entry); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// Already ingested on a previous run.
				continue
			}
			return fmt.Errorf("failed to append synced entry: %w", err)
		}
	}
	return nil
}

// adaptProviderEntry validates one raw feed row and shapes it into an entry.
func (s *syncService) adaptProviderEntry(ctx context.Context, account domain.Account, p portssvc.ProviderEntry, now time.Time) (*domain.Entry, error) {
	if p.ExternalID == "" {
		return nil, fmt.Errorf("%w: provider entry missing external id", apperrors.ErrInvalidEntry)
	}
	kind := p.Kind
	if kind == "" {
		kind = domain.KindTransaction
	}
	if !domain.ValidEntryKind(kind) {
		return nil, fmt.Errorf("%w: unknown entry kind '%s'", apperrors.ErrInvalidEntry, kind)
	}
	if ledger.NormalizeDate(p.Date).After(ledger.NormalizeDate(now)) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrFutureDatedEntry)
	}
	if kind == domain.KindTransaction && p.Amount.Equal(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrZeroAmount)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, p.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unrecognized currency code '%s'", apperrors.ErrInvalidEntry, p.CurrencyCode)
		}
		return nil, err
	}

	return &domain.Entry{
		EntryID:      uuid.NewString(),
		AccountID:    account.AccountID,
		EntryDate:    ledger.NormalizeDate(p.Date),
		Amount:       p.Amount,
		CurrencyCode: strings.ToUpper(p.CurrencyCode),
		Kind:         kind,
		Memo:         p.Memo,
		ExternalID:   p.ExternalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}, nil
}

// fetchWithRetry calls the provider with a bounded timeout per attempt and
// capped exponential backoff between attempts.
func (s *syncService) fetchWithRetry(ctx context.Context, account domain.Account, from, to time.Time) ([]portssvc.ProviderEntry, error) {
	if s.provider == nil {
		return nil, nil
	}

	var lastErr error
	delay := s.cfg.BackoffBase
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		raw, err := s.provider.FetchEntries(ctx, account, from, to)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == s.cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return nil, fmt.Errorf("provider fetch failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

// GetSyncRun retrieves a sync run by ID.
func (s *syncService) GetSyncRun(ctx context.Context, syncID string) (*domain.SyncRun, error) {
	run, err := s.syncRepo.FindSyncRunByID(ctx, syncID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync run in service: %w", err)
	}
	return run, nil
}

// GetLatestSyncRun retrieves the most recent run for a unit.
func (s *syncService) GetLatestSyncRun(ctx context.Context, targetType domain.SyncTargetType, targetID string) (*domain.SyncRun, error) {
	run, err := s.syncRepo.FindLatestSyncRun(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sync run in service: %w", err)
	}
	return run, nil
}
