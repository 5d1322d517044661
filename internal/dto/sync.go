package dto

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
)

// RequestSyncRequest triggers a sync run for an account or a whole family.
type RequestSyncRequest struct {
	TargetType domain.SyncTargetType `json:"targetType" binding:"required,oneof=ACCOUNT FAMILY"`
	TargetID   string                `json:"targetID" binding:"required"`
	From       *time.Time            `json:"from"` // Optional window override
	To         *time.Time            `json:"to"`
}

// SyncRunResponse defines the data returned for a sync run.
type SyncRunResponse struct {
	SyncID       string                `json:"syncID"`
	TargetType   domain.SyncTargetType `json:"targetType"`
	TargetID     string                `json:"targetID"`
	Status       domain.SyncStatus     `json:"status"`
	WindowStart  time.Time             `json:"windowStart"`
	WindowEnd    time.Time             `json:"windowEnd"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// ToSyncRunResponse converts a domain.SyncRun to SyncRunResponse DTO
func ToSyncRunResponse(run *domain.SyncRun) SyncRunResponse {
	return SyncRunResponse{
		SyncID:       run.SyncID,
		TargetType:   run.TargetType,
		TargetID:     run.TargetID,
		Status:       run.Status,
		WindowStart:  run.WindowStart,
		WindowEnd:    run.WindowEnd,
		ErrorMessage: run.ErrorMessage,
		CreatedAt:    run.CreatedAt,
	}
}
