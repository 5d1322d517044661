package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/platform/jobs"
)

type stubBalanceSvc struct {
	recomputeFrom func(ctx context.Context, accountID string, from time.Time) ([]domain.Balance, error)
}

func (s *stubBalanceSvc) Recompute(ctx context.Context, accountID string, from, to time.Time) ([]domain.Balance, error) {
	return nil, nil
}

func (s *stubBalanceSvc) RecomputeFrom(ctx context.Context, accountID string, from time.Time) ([]domain.Balance, error) {
	if s.recomputeFrom != nil {
		return s.recomputeFrom(ctx, accountID, from)
	}
	return nil, nil
}

func (s *stubBalanceSvc) GetBalances(ctx context.Context, familyID string, accountID string, from, to time.Time) ([]domain.Balance, error) {
	return nil, nil
}

type stubTransferSvc struct {
	match func(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error)
}

func (s *stubTransferSvc) MatchTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
	if s.match != nil {
		return s.match(ctx, familyID, from, to)
	}
	return nil, nil
}

func (s *stubTransferSvc) ListTransfers(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
	return nil, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEntryEventQueue_ProcessesPublishedEvents(t *testing.T) {
	type recompute struct {
		accountID string
		from      time.Time
	}
	recomputed := make(chan recompute, 1)
	matched := make(chan string, 1)

	balance := &stubBalanceSvc{
		recomputeFrom: func(ctx context.Context, accountID string, from time.Time) ([]domain.Balance, error) {
			recomputed <- recompute{accountID: accountID, from: from}
			return nil, nil
		},
	}
	transfer := &stubTransferSvc{
		match: func(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transfer, error) {
			matched <- familyID
			return nil, nil
		},
	}

	queue := jobs.NewEntryEventQueue(8, quietLogger())
	queue.Bind(balance, transfer)
	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx, 1)
	defer func() {
		cancel()
		queue.Stop()
	}()

	entryDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	queue.PublishEntryAppended(context.Background(), portssvc.EntryAppendedEvent{
		FamilyID:  "family-1",
		AccountID: "account-1",
		EntryID:   "entry-1",
		EntryDate: entryDate,
	})

	select {
	case r := <-recomputed:
		assert.Equal(t, "account-1", r.accountID)
		assert.Equal(t, entryDate, r.from)
	case <-time.After(2 * time.Second):
		t.Fatal("balance recompute was never triggered")
	}

	select {
	case familyID := <-matched:
		assert.Equal(t, "family-1", familyID)
	case <-time.After(2 * time.Second):
		t.Fatal("transfer matching was never triggered")
	}
}

func TestEntryEventQueue_FullQueueDropsWithoutBlocking(t *testing.T) {
	// No workers consuming, so the buffer fills after one event.
	queue := jobs.NewEntryEventQueue(1, quietLogger())
	queue.Bind(&stubBalanceSvc{}, &stubTransferSvc{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			queue.PublishEntryAppended(context.Background(), portssvc.EntryAppendedEvent{EntryID: "entry"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}

func TestEntryEventQueue_StopWaitsForWorkers(t *testing.T) {
	queue := jobs.NewEntryEventQueue(1, quietLogger())
	queue.Bind(&stubBalanceSvc{}, &stubTransferSvc{})
	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx, 2)

	cancel()

	done := make(chan struct{})
	go func() {
		queue.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
