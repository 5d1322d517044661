package services

import (
	"context"
	"time"
)

// EntryAppendedEvent is published after an entry append commits. Consumers
// trigger balance recomputation and transfer matching; they run at-least-once,
// so both downstream operations are idempotent.
type EntryAppendedEvent struct {
	FamilyID  string
	AccountID string
	EntryID   string
	EntryDate time.Time
}

// EntryEventPublisher decouples the entry store commit from derived-state
// recomputation. Publishing must not be able to fail the already-committed
// append; implementations log and drop on a full queue rather than block.
type EntryEventPublisher interface {
	PublishEntryAppended(ctx context.Context, event EntryAppendedEvent)
}
