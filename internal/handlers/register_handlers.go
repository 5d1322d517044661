package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/homefin/ledger_backend/cmd/docs"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/core/services"
	"github.com/homefin/ledger_backend/internal/middleware"
	"github.com/homefin/ledger_backend/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.Container,
) {
	// Add health check route
	r.GET("/health", getHome)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, container)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.Container,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerFamilyRoutes(v1, container.Family)
	registerCurrencyRoutes(v1, container.Currency)
	registerExchangeRateRoutes(v1, container.ExchangeRate)
	registerAccountRoutes(v1, container.Account, container.Entry, container.Balance)
	registerEntryRoutes(v1, container.Entry)
	registerTransferRoutes(v1, container.Transfer)
	registerSyncRoutes(v1, cfg, container.Sync)
}

// registerFamilyRoutes registers family specific routes
func registerFamilyRoutes(group *gin.RouterGroup, familyService portssvc.FamilySvcFacade) {
	handler := newFamilyHandler(familyService)

	families := group.Group("/families")
	{
		families.POST("/", handler.createFamily)
		families.GET("/me", handler.getFamily)
		families.DELETE("/me", handler.deleteFamily)
	}
}

// registerCurrencyRoutes registers currency registry routes
func registerCurrencyRoutes(group *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	handler := newCurrencyHandler(currencyService)

	currencies := group.Group("/currencies")
	{
		currencies.POST("/", handler.createCurrency)
		currencies.GET("/", handler.listCurrencies)
		currencies.GET("/:currencyCode", handler.getCurrency)
	}
}

// registerExchangeRateRoutes registers manual exchange-rate maintenance routes
func registerExchangeRateRoutes(group *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	handler := newExchangeRateHandler(exchangeRateService)

	rates := group.Group("/exchange-rates")
	{
		rates.PUT("/", handler.upsertExchangeRate)
		rates.GET("/", handler.getExchangeRate)
	}
}

// registerAccountRoutes registers account routes plus the account-scoped entry
// and balance listings
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountSvcFacade, entryService portssvc.EntrySvcFacade, balanceService portssvc.BalanceSvcFacade) {
	accountHandler := newAccountHandler(accountService)
	entryHandler := newEntryHandler(entryService)
	balanceHandler := newBalanceHandler(balanceService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("/", accountHandler.createAccount)
		accounts.GET("/", accountHandler.listAccounts)
		accounts.GET("/:accountID", accountHandler.getAccount)
		accounts.PUT("/:accountID/status", accountHandler.updateAccountStatus)
		accounts.GET("/:accountID/entries", entryHandler.listEntries)
		accounts.GET("/:accountID/balances", balanceHandler.listBalances)
		accounts.POST("/:accountID/balances/recompute", balanceHandler.recomputeBalances)
	}
}

// registerEntryRoutes registers entry log routes
func registerEntryRoutes(group *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	handler := newEntryHandler(entryService)

	entries := group.Group("/entries")
	{
		entries.POST("/", handler.appendEntry)
		entries.GET("/:entryID", handler.getEntry)
		entries.POST("/:entryID/void", handler.voidEntry)
	}
}

// registerTransferRoutes registers transfer pairing routes
func registerTransferRoutes(group *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	handler := newTransferHandler(transferService)

	transfers := group.Group("/transfers")
	{
		transfers.GET("/", handler.listTransfers)
		transfers.POST("/match", handler.matchTransfers)
	}
}

// registerSyncRoutes registers sync orchestration routes. The trigger route is
// rate limited per client IP.
func registerSyncRoutes(group *gin.RouterGroup, cfg *config.Config, syncService portssvc.SyncSvcFacade) {
	handler := newSyncHandler(syncService)

	sync := group.Group("/sync")
	{
		sync.POST("/", middleware.RateLimit(newSyncRateLimiter(cfg)), handler.requestSync)
		sync.GET("/latest", handler.getLatestSyncRun)
		sync.GET("/:syncID", handler.getSyncRun)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// newSyncRateLimiter builds the in-memory limiter guarding the sync-trigger
// route. Each sync request may fan out into provider calls, so it gets a
// tighter budget than the rest of the API.
func newSyncRateLimiter(cfg *config.Config) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.SyncRateLimit)
	if err != nil {
		slog.Warn("Invalid SYNC_RATE_LIMIT, falling back to 10-M", slog.String("value", cfg.SyncRateLimit))
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	return limiter.New(memory.NewStore(), rate)
}
