package domain

import (
	"fmt"
	"time"
)

// SyncStatus is the state of a sync run.
type SyncStatus string

const (
	SyncPending   SyncStatus = "PENDING"
	SyncRunning   SyncStatus = "RUNNING"
	SyncCompleted SyncStatus = "COMPLETED"
	SyncFailed    SyncStatus = "FAILED"
)

// SyncEvent drives sync state transitions.
type SyncEvent string

const (
	SyncStart   SyncEvent = "START"
	SyncSucceed SyncEvent = "SUCCEED"
	SyncFail    SyncEvent = "FAIL"
)

// SyncTargetType identifies what kind of unit a sync run covers.
type SyncTargetType string

const (
	SyncTargetAccount SyncTargetType = "ACCOUNT"
	SyncTargetFamily  SyncTargetType = "FAMILY"
)

// syncTransitions is the full transition table. Anything absent is illegal.
var syncTransitions = map[SyncStatus]map[SyncEvent]SyncStatus{
	SyncPending: {
		SyncStart: SyncRunning,
	},
	SyncRunning: {
		SyncSucceed: SyncCompleted,
		SyncFail:    SyncFailed,
	},
}

// NextSyncStatus applies event to the current status and returns the resulting
// status, or an error when the transition is not in the table.
func NextSyncStatus(current SyncStatus, event SyncEvent) (SyncStatus, error) {
	if next, ok := syncTransitions[current][event]; ok {
		return next, nil
	}
	return current, fmt.Errorf("illegal sync transition: %s on %s", event, current)
}

// SyncRun records one execution of the sync orchestrator against a unit
// (account or family). At most one run per unit is RUNNING at a time.
type SyncRun struct {
	SyncID       string         `json:"syncID"`       // Primary Key (e.g., UUID)
	TargetType   SyncTargetType `json:"targetType"`   // ACCOUNT or FAMILY
	TargetID     string         `json:"targetID"`     // FK -> accounts or families depending on TargetType
	Status       SyncStatus     `json:"status"`       // PENDING, RUNNING, COMPLETED or FAILED
	WindowStart  time.Time      `json:"windowStart"`  // Earliest entry date touched by the run
	WindowEnd    time.Time      `json:"windowEnd"`    // Latest entry date touched by the run
	ErrorMessage string         `json:"errorMessage"` // Populated when Status is FAILED
	AuditFields
}
