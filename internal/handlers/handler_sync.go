package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
)

// syncHandler handles HTTP requests for sync orchestration.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(syncService portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{
		syncService: syncService,
	}
}

// requestSync godoc
// @Summary Run a sync for an account or a whole family
// @Description Fetches provider data, ingests new entries and refreshes derived state. At most one run per unit at a time.
// @Tags sync
// @Accept json
// @Produce json
// @Param sync body dto.RequestSyncRequest true "Sync target and optional window"
// @Success 200 {object} dto.SyncRunResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Target not found"
// @Failure 409 {object} map[string]string "A sync is already running for this target"
// @Failure 500 {object} map[string]string "Sync failed"
// @Router /sync [post]
func (h *syncHandler) requestSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.syncService.RunSync(c.Request.Context(), familyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConcurrentSync):
			logger.Warn("Concurrent sync rejected", slog.String("target_id", req.TargetID))
			c.JSON(http.StatusConflict, gin.H{"error": "A sync is already running for this target"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sync target not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrSyncFailed):
			// The run record carries the failure detail; surface both.
			logger.Error("Sync run failed", slog.String("error", err.Error()), slog.String("target_id", req.TargetID))
			if run != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "syncRun": dto.ToSyncRunResponse(run)})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
		default:
			logger.Error("Failed to run sync in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run sync"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncRunResponse(run))
}

// getSyncRun godoc
// @Summary Get a sync run by ID
// @Tags sync
// @Produce json
// @Param syncID path string true "Sync run ID"
// @Success 200 {object} dto.SyncRunResponse
// @Failure 404 {object} map[string]string "Sync run not found"
// @Router /sync/{syncID} [get]
func (h *syncHandler) getSyncRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	syncID := c.Param("syncID")

	run, err := h.syncService.GetSyncRun(c.Request.Context(), syncID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sync run not found"})
			return
		}
		logger.Error("Failed to get sync run from service", slog.String("error", err.Error()), slog.String("sync_id", syncID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sync run"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncRunResponse(run))
}

// getLatestSyncRun godoc
// @Summary Get the most recent sync run for a unit
// @Tags sync
// @Produce json
// @Param targetType query string true "ACCOUNT or FAMILY"
// @Param targetID query string true "Target ID"
// @Success 200 {object} dto.SyncRunResponse
// @Failure 404 {object} map[string]string "No sync runs for this target"
// @Router /sync/latest [get]
func (h *syncHandler) getLatestSyncRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	targetType := domain.SyncTargetType(c.Query("targetType"))
	targetID := c.Query("targetID")
	if (targetType != domain.SyncTargetAccount && targetType != domain.SyncTargetFamily) || targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetType (ACCOUNT|FAMILY) and targetID are required"})
		return
	}

	run, err := h.syncService.GetLatestSyncRun(c.Request.Context(), targetType, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No sync runs for this target"})
			return
		}
		logger.Error("Failed to get latest sync run from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sync run"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncRunResponse(run))
}
