package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Rate provider behavior
	ProviderTimeout time.Duration
	ProviderBaseURL string

	// Sync orchestrator tuning
	SyncMaxRetries        int
	SyncBackoffBase       time.Duration
	SyncDefaultWindowDays int
	SyncFanOutLimit       int
	SyncLeaseDuration     time.Duration
	SyncRateLimit         string // ulule/limiter format, e.g. "10-M"

	// Transfer matching heuristics
	TransferWindowDays int
	TransferEpsilon    decimal.Decimal

	// In-process event queue
	EventQueueSize   int
	EventWorkerCount int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("PROVIDER_BASE_URL", "")
	viper.SetDefault("SYNC_MAX_RETRIES", 3)
	viper.SetDefault("SYNC_BACKOFF_BASE", "500ms")
	viper.SetDefault("SYNC_DEFAULT_WINDOW_DAYS", 30)
	viper.SetDefault("SYNC_FAN_OUT_LIMIT", 4)
	viper.SetDefault("SYNC_LEASE_DURATION", "1h")
	viper.SetDefault("SYNC_RATE_LIMIT", "10-M")
	viper.SetDefault("TRANSFER_WINDOW_DAYS", 4)
	viper.SetDefault("TRANSFER_EPSILON", "0.01")
	viper.SetDefault("EVENT_QUEUE_SIZE", 256)
	viper.SetDefault("EVENT_WORKER_COUNT", 2)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	providerTimeoutStr := viper.GetString("PROVIDER_TIMEOUT")
	providerTimeout, err := time.ParseDuration(providerTimeoutStr)
	if err != nil {
		providerTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for PROVIDER_TIMEOUT ('%s'). Defaulting to %s.\n", providerTimeoutStr, providerTimeout)
	}
	cfg.ProviderTimeout = providerTimeout
	cfg.ProviderBaseURL = viper.GetString("PROVIDER_BASE_URL")

	cfg.SyncMaxRetries = viper.GetInt("SYNC_MAX_RETRIES")
	backoffStr := viper.GetString("SYNC_BACKOFF_BASE")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil {
		backoff = 500 * time.Millisecond
		log.Printf("Warning: Invalid value for SYNC_BACKOFF_BASE ('%s'). Defaulting to %s.\n", backoffStr, backoff)
	}
	cfg.SyncBackoffBase = backoff
	cfg.SyncDefaultWindowDays = viper.GetInt("SYNC_DEFAULT_WINDOW_DAYS")
	cfg.SyncFanOutLimit = viper.GetInt("SYNC_FAN_OUT_LIMIT")
	leaseStr := viper.GetString("SYNC_LEASE_DURATION")
	lease, err := time.ParseDuration(leaseStr)
	if err != nil {
		lease = time.Hour
		log.Printf("Warning: Invalid value for SYNC_LEASE_DURATION ('%s'). Defaulting to %s.\n", leaseStr, lease)
	}
	cfg.SyncLeaseDuration = lease
	cfg.SyncRateLimit = viper.GetString("SYNC_RATE_LIMIT")

	cfg.TransferWindowDays = viper.GetInt("TRANSFER_WINDOW_DAYS")
	epsilonStr := viper.GetString("TRANSFER_EPSILON")
	epsilon, err := decimal.NewFromString(epsilonStr)
	if err != nil || epsilon.IsNegative() {
		epsilon = decimal.NewFromFloat(0.01)
		log.Printf("Warning: Invalid value for TRANSFER_EPSILON ('%s'). Defaulting to %s.\n", epsilonStr, epsilon)
	}
	cfg.TransferEpsilon = epsilon

	cfg.EventQueueSize = viper.GetInt("EVENT_QUEUE_SIZE")
	cfg.EventWorkerCount = viper.GetInt("EVENT_WORKER_COUNT")

	return cfg, nil
}
