package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homefin/ledger_backend/internal/apperrors"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
)

// familyHandler handles HTTP requests related to families.
type familyHandler struct {
	familyService portssvc.FamilySvcFacade
}

// newFamilyHandler creates a new familyHandler.
func newFamilyHandler(familyService portssvc.FamilySvcFacade) *familyHandler {
	return &familyHandler{
		familyService: familyService,
	}
}

// createFamily godoc
// @Summary Create a new family
// @Description Registers a family with its base currency, the target of all cross-currency normalization.
// @Tags families
// @Accept json
// @Produce json
// @Param family body dto.CreateFamilyRequest true "Family to create"
// @Success 201 {object} dto.FamilyResponse
// @Failure 400 {object} map[string]string "Invalid request format or unknown base currency"
// @Router /families [post]
func (h *familyHandler) createFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create family in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		}
		return
	}

	logger.Info("Family created", slog.String("family_id", family.FamilyID))
	c.JSON(http.StatusCreated, dto.ToFamilyResponse(family))
}

// getFamily godoc
// @Summary Get the authenticated family
// @Tags families
// @Produce json
// @Success 200 {object} dto.FamilyResponse
// @Failure 404 {object} map[string]string "Family not found"
// @Router /families/me [get]
func (h *familyHandler) getFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	family, err := h.familyService.GetFamilyByID(c.Request.Context(), familyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
			return
		}
		logger.Error("Failed to get family from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve family"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyResponse(family))
}

// deleteFamily godoc
// @Summary Delete the authenticated family
// @Description Removes the family and cascades to all owned accounts, entries, balances, transfers and sync runs.
// @Tags families
// @Produce json
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Family not found"
// @Router /families/me [delete]
func (h *familyHandler) deleteFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.familyService.DeleteFamily(c.Request.Context(), familyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
			return
		}
		logger.Error("Failed to delete family in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete family"})
		return
	}

	logger.Info("Family deleted", slog.String("family_id", familyID))
	c.Status(http.StatusNoContent)
}
