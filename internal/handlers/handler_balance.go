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

// balanceHandler handles HTTP requests for derived balance snapshots.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: balanceService,
	}
}

// listBalances godoc
// @Summary List an account's daily balance snapshots
// @Description Returns one row per day in the inclusive range, gap days carried forward.
// @Tags balances
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balances [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: from and to are required"})
		return
	}

	balances, err := h.balanceService.GetBalances(c.Request.Context(), familyID, accountID, params.From, params.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to list balances from service", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBalanceResponse(balances))
}

// recomputeBalances godoc
// @Summary Recompute an account's balances over a date range
// @Description Rederives and overwrites daily snapshots from the entry log. Idempotent.
// @Tags balances
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string true "Inclusive start date (YYYY-MM-DD)"
// @Param to query string true "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {array} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balances/recompute [post]
func (h *balanceHandler) recomputeBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	familyID, ok := middleware.GetFamilyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: from and to are required"})
		return
	}

	// Scope check before touching derived state.
	if _, err := h.balanceService.GetBalances(c.Request.Context(), familyID, accountID, params.From, params.From); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed scope check for recompute", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute balances"})
		return
	}

	balances, err := h.balanceService.Recompute(c.Request.Context(), accountID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to recompute balances in service", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute balances"})
		return
	}

	logger.Info("Balances recomputed", slog.String("account_id", accountID), slog.Int("rows", len(balances)))
	c.JSON(http.StatusOK, dto.ToListBalanceResponse(balances))
}
