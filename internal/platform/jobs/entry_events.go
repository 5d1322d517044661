package jobs

import (
	"context"
	"log/slog"
	"sync"

	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/middleware"
)

// EntryEventQueue is a channel-backed, in-process implementation of the entry
// event publisher. Consumers recompute balances forward of the entry date and
// re-run transfer matching for the family. A full queue drops the event with a
// warning; downstream state converges on the next sync or recompute.
type EntryEventQueue struct {
	events   chan portssvc.EntryAppendedEvent
	balance  portssvc.BalanceSvcFacade
	transfer portssvc.TransferSvcFacade
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewEntryEventQueue creates the queue with the given buffer size. The queue
// is also the publisher handed to the entry service, so the consumer side is
// attached separately via Bind once the services exist.
func NewEntryEventQueue(size int, logger *slog.Logger) *EntryEventQueue {
	if size <= 0 {
		size = 256
	}
	return &EntryEventQueue{
		events: make(chan portssvc.EntryAppendedEvent, size),
		logger: logger,
	}
}

// Bind attaches the consumers. Must be called before Start.
func (q *EntryEventQueue) Bind(balance portssvc.BalanceSvcFacade, transfer portssvc.TransferSvcFacade) {
	q.balance = balance
	q.transfer = transfer
}

var _ portssvc.EntryEventPublisher = (*EntryEventQueue)(nil)

// PublishEntryAppended enqueues the event without blocking. The append that
// produced the event has already committed, so a full queue logs and drops.
func (q *EntryEventQueue) PublishEntryAppended(ctx context.Context, event portssvc.EntryAppendedEvent) {
	select {
	case q.events <- event:
	default:
		middleware.GetLoggerFromCtx(ctx).Warn("entry event queue full, dropping event",
			slog.String("entry_id", event.EntryID),
			slog.String("account_id", event.AccountID),
		)
	}
}

// Start launches workerCount consumers. They run until ctx is cancelled.
func (q *EntryEventQueue) Start(ctx context.Context, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.consume(ctx)
		}()
	}
}

// Stop waits for in-flight events to finish processing. Call after cancelling
// the context passed to Start. Events still buffered at that point are
// dropped; derived state converges on the next sync or recompute.
func (q *EntryEventQueue) Stop() {
	q.wg.Wait()
}

func (q *EntryEventQueue) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-q.events:
			q.handle(ctx, event)
		}
	}
}

func (q *EntryEventQueue) handle(ctx context.Context, event portssvc.EntryAppendedEvent) {
	logger := q.logger.With(
		slog.String("entry_id", event.EntryID),
		slog.String("account_id", event.AccountID),
	)

	if _, err := q.balance.RecomputeFrom(ctx, event.AccountID, event.EntryDate); err != nil {
		logger.Error("balance recompute after entry append failed", slog.String("error", err.Error()))
	}

	// Matching scans a window around the new entry. The matcher widens the
	// range itself, so a single-day window centered on the entry date is
	// enough to consider all candidate counterparts.
	day := event.EntryDate
	if _, err := q.transfer.MatchTransfers(ctx, event.FamilyID, day, day); err != nil {
		logger.Error("transfer matching after entry append failed", slog.String("error", err.Error()))
	}
}
