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
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

var (
	ErrFutureDatedEntry   = errors.New("entry date cannot be in the future")
	ErrZeroAmount         = errors.New("transaction entries must have a non-zero amount")
	ErrAccountNotWritable = errors.New("account does not accept new entries")
	ErrAlreadyVoided      = errors.New("entry has already been voided")
	ErrVoidCompensating   = errors.New("compensating entries cannot be voided")
)

// entryService is the write/read surface of the append-only entry log.
// Entries are immutable once appended; corrections go through VoidEntry, which
// appends a compensating entry.
type entryService struct {
	entryRepo   portsrepo.EntryRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	currencySvc portssvc.CurrencySvcFacade
	publisher   portssvc.EntryEventPublisher
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountSvcFacade, currencySvc portssvc.CurrencySvcFacade, publisher portssvc.EntryEventPublisher) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:   entryRepo,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
		publisher:   publisher,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// validateAppend runs every append-time check. Violations reject the append
// synchronously; nothing is persisted.
func (s *entryService) validateAppend(ctx context.Context, account *domain.Account, req dto.AppendEntryRequest) error {
	if !account.AcceptsEntries() {
		return fmt.Errorf("%w: %v (status %s)", apperrors.ErrInvalidEntry, ErrAccountNotWritable, account.Status)
	}
	if !domain.ValidEntryKind(req.Kind) {
		return fmt.Errorf("%w: unknown entry kind '%s'", apperrors.ErrInvalidEntry, req.Kind)
	}
	if ledger.NormalizeDate(req.EntryDate).After(ledger.NormalizeDate(time.Now())) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrFutureDatedEntry)
	}
	if req.Kind == domain.KindTransaction && req.Amount.Equal(decimal.Zero) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrZeroAmount)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: unrecognized currency code '%s'", apperrors.ErrInvalidEntry, req.CurrencyCode)
		}
		return fmt.Errorf("failed to validate currency '%s': %w", req.CurrencyCode, err)
	}
	return nil
}

// AppendEntry validates and appends one entry to the log.
func (s *entryService) AppendEntry(ctx context.Context, familyID string, req dto.AppendEntryRequest, creatorUserID string) (*domain.Entry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByID(ctx, familyID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.validateAppend(ctx, account, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.Entry{
		EntryID:      uuid.NewString(),
		AccountID:    account.AccountID,
		EntryDate:    ledger.NormalizeDate(req.EntryDate),
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Kind:         req.Kind,
		Memo:         req.Memo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append entry in service: %w", err)
	}

	logger.Info("Entry appended",
		slog.String("entry_id", entry.EntryID),
		slog.String("account_id", entry.AccountID),
		slog.String("kind", string(entry.Kind)))

	// The append is committed; derived-state refresh happens asynchronously.
	s.publishAppended(ctx, familyID, entry)

	return &entry, nil
}

// VoidEntry appends a compensating entry negating the original. The
// compensating entry carries the original's date so daily flows cancel
// exactly from that date forward.
func (s *entryService) VoidEntry(ctx context.Context, familyID string, entryID string, reason string, userID string) (*domain.Entry, error) {
	original, err := s.GetEntryByID(ctx, familyID, entryID)
	if err != nil {
		return nil, err
	}
	if original.IsCompensating() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrVoidCompensating)
	}
	if existing, err := s.entryRepo.FindCompensatingEntry(ctx, entryID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidEntry, ErrAlreadyVoided)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing compensation: %w", err)
	}

	now := time.Now().UTC()
	compensating := domain.Entry{
		EntryID:         uuid.NewString(),
		AccountID:       original.AccountID,
		EntryDate:       original.EntryDate,
		Amount:          original.Amount.Neg(),
		CurrencyCode:    original.CurrencyCode,
		Kind:            original.Kind,
		Memo:            reason,
		OriginalEntryID: original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, compensating); err != nil {
		return nil, fmt.Errorf("failed to append compensating entry in service: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Entry voided",
		slog.String("original_entry_id", original.EntryID),
		slog.String("compensating_entry_id", compensating.EntryID))

	s.publishAppended(ctx, familyID, compensating)

	return &compensating, nil
}

// GetEntryByID retrieves a specific entry, scoped to the family.
func (s *entryService) GetEntryByID(ctx context.Context, familyID string, entryID string) (*domain.Entry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry in service: %w", err)
	}
	// Scope check goes through the account's owning family.
	if _, err := s.accountSvc.GetAccountByID(ctx, familyID, entry.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves an account's entries within a date range.
func (s *entryService) ListEntries(ctx context.Context, familyID string, accountID string, from, to time.Time) ([]domain.Entry, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, familyID, accountID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListEntriesByAccount(ctx, accountID, ledger.NormalizeDate(from), ledger.NormalizeDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries in service: %w", err)
	}
	return entries, nil
}

// ListEntriesPaginated retrieves a token-paginated page of an account's entries.
func (s *entryService) ListEntriesPaginated(ctx context.Context, familyID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, familyID, accountID); err != nil {
		return nil, err
	}
	entries, nextToken, err := s.entryRepo.ListEntriesByAccountPaginated(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries in service: %w", err)
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToListEntryResponse(entries),
		NextToken: nextToken,
	}, nil
}

// publishAppended emits the post-commit event; the publisher never blocks the
// caller and is nil-safe for wiring without a worker.
func (s *entryService) publishAppended(ctx context.Context, familyID string, entry domain.Entry) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishEntryAppended(ctx, portssvc.EntryAppendedEvent{
		FamilyID:  familyID,
		AccountID: entry.AccountID,
		EntryID:   entry.EntryID,
		EntryDate: entry.EntryDate,
	})
}
