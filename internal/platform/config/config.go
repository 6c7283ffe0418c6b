package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Rate cache backends.
const (
	RateCacheMemory = "memory"
	RateCacheRedis  = "redis"
)

// Payment gateways.
const (
	PaymentGatewaySandbox = "sandbox"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string
	MigrationsPath string

	// Exchange rates
	RateCacheBackend     string
	RateCacheTTL         time.Duration
	RateCacheSize        int
	RedisAddr            string
	RedisPassword        string
	RateProviderTimeout  time.Duration
	OpenERAPIBaseURL     string
	ExchangeRateAPIURL   string
	ExchangeRateAPIKey   string
	CurrencyAPIBaseURL   string
	CurrencyAPIKey       string
	RateBatchConcurrency int

	// Donations
	DonationFeePolicy        string
	DonationMessageMaxLength int

	// HTTP edge
	RateLimit          string
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	WebhookSecret      string

	// Payments
	PaymentGateway      string
	AllowSandboxGateway bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RATE_CACHE_BACKEND", RateCacheMemory)
	v.SetDefault("RATE_CACHE_TTL", "5m")
	v.SetDefault("RATE_CACHE_SIZE", 1000)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_PROVIDER_TIMEOUT", "5s")
	v.SetDefault("OPEN_ER_API_BASE_URL", "https://open.er-api.com")
	v.SetDefault("EXCHANGERATE_API_BASE_URL", "https://v6.exchangerate-api.com")
	v.SetDefault("EXCHANGERATE_API_KEY", "")
	v.SetDefault("CURRENCYAPI_BASE_URL", "https://api.currencyapi.com")
	v.SetDefault("CURRENCYAPI_KEY", "")
	v.SetDefault("RATE_BATCH_CONCURRENCY", 8)
	v.SetDefault("DONATION_FEE_POLICY", "fee_from_donation")
	v.SetDefault("DONATION_MESSAGE_MAX_LENGTH", 500)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_GATEWAY", PaymentGatewaySandbox)
	v.SetDefault("ALLOW_SANDBOX_GATEWAY", false)

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		StorageDriver:            strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		RateCacheBackend:         strings.ToLower(v.GetString("RATE_CACHE_BACKEND")),
		RateCacheSize:            v.GetInt("RATE_CACHE_SIZE"),
		RedisAddr:                v.GetString("REDIS_ADDR"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		OpenERAPIBaseURL:         v.GetString("OPEN_ER_API_BASE_URL"),
		ExchangeRateAPIURL:       v.GetString("EXCHANGERATE_API_BASE_URL"),
		ExchangeRateAPIKey:       v.GetString("EXCHANGERATE_API_KEY"),
		CurrencyAPIBaseURL:       v.GetString("CURRENCYAPI_BASE_URL"),
		CurrencyAPIKey:           v.GetString("CURRENCYAPI_KEY"),
		RateBatchConcurrency:     v.GetInt("RATE_BATCH_CONCURRENCY"),
		DonationFeePolicy:        v.GetString("DONATION_FEE_POLICY"),
		DonationMessageMaxLength: v.GetInt("DONATION_MESSAGE_MAX_LENGTH"),
		RateLimit:                v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PosthogAPIKey:            v.GetString("POSTHOG_API_KEY"),
		WebhookSecret:            v.GetString("WEBHOOK_SECRET"),
		PaymentGateway:           strings.ToLower(v.GetString("PAYMENT_GATEWAY")),
		AllowSandboxGateway:      v.GetBool("ALLOW_SANDBOX_GATEWAY"),
	}

	var err error
	if cfg.RateCacheTTL, err = parseDuration(v, "RATE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateProviderTimeout, err = parseDuration(v, "RATE_PROVIDER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, balances are lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	switch cfg.RateCacheBackend {
	case RateCacheMemory, RateCacheRedis:
	default:
		return nil, fmt.Errorf("unknown RATE_CACHE_BACKEND %q", cfg.RateCacheBackend)
	}

	switch cfg.PaymentGateway {
	case PaymentGatewaySandbox:
		// The sandbox confirms any payment method.
		if cfg.IsProduction && !cfg.AllowSandboxGateway {
			return nil, fmt.Errorf("PAYMENT_GATEWAY=sandbox is not allowed when IS_PRODUCTION is set (override with ALLOW_SANDBOX_GATEWAY=true)")
		}
		if cfg.IsProduction {
			log.Println("Warning: sandbox payment gateway enabled in production. Deposits are not backed by real payments.")
		}
	default:
		return nil, fmt.Errorf("unknown PAYMENT_GATEWAY %q", cfg.PaymentGateway)
	}

	if cfg.IsProduction && cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set. Payment webhooks will be rejected.")
	}
	if cfg.ExchangeRateAPIKey == "" {
		log.Println("Warning: EXCHANGERATE_API_KEY not set. That rate source will be skipped.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): must be a positive duration", key, raw)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
