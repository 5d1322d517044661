package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/middleware"
)

// transferHandler handles HTTP requests for derived transfer pairings.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(transferService portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: transferService,
	}
}

// listTransfers godoc
// @Summary List a family's transfer pairings
// @Tags transfers
// @Produce json
// @Param from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: from and to are required"})
		return
	}

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), familyID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to list transfers from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transfers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransferResponse(transfers))
}

// matchTransfers godoc
// @Summary Run transfer matching over a date window
// @Description Pairs opposite-signed entries across the family's accounts. Idempotent; already-claimed entries are never re-paired.
// @Tags transfers
// @Produce json
// @Param from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.TransferResponse "Newly created pairings"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /transfers/match [post]
func (h *transferHandler) matchTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: from and to are required"})
		return
	}

	transfers, err := h.transferService.MatchTransfers(c.Request.Context(), familyID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to match transfers in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match transfers"})
		return
	}

	logger.Info("Transfer matching completed", slog.Int("new_pairings", len(transfers)))
	c.JSON(http.StatusOK, dto.ToListTransferResponse(transfers))
}
