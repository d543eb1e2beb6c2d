package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	StorageDriver      string
	MigrationsPath     string
	DBMaxConns         int32
	DBStatementTimeout time.Duration

	// Transfer engine
	TransferTimeout         time.Duration
	TransferConflictRetries int

	// Transport
	JWTSecret          string
	JWTIssuer          string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string

	// Events and metrics
	KafkaBrokers     []string
	KafkaTopic       string
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")
	v.SetDefault("TRANSFER_TIMEOUT", "10s")
	v.SetDefault("TRANSFER_CONFLICT_RETRIES", 1)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "transaction_completed")
	v.SetDefault("METRICS_NAMESPACE", "ledger")

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBMaxConns:     v.GetInt32("DB_MAX_CONNS"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		KafkaTopic:     v.GetString("KAFKA_TOPIC"),

		MetricsNamespace:        v.GetString("METRICS_NAMESPACE"),
		TransferConflictRetries: v.GetInt("TRANSFER_CONFLICT_RETRIES"),
		CORSAllowedOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	var err error
	if cfg.DBStatementTimeout, err = parseDuration(v, "DB_STATEMENT_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.TransferTimeout, err = parseDuration(v, "TRANSFER_TIMEOUT"); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("STORAGE_DRIVER %q is not allowed in production", StorageMemory)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.TransferConflictRetries < 0 || cfg.TransferConflictRetries > 1 {
		return nil, fmt.Errorf("TRANSFER_CONFLICT_RETRIES must be 0 or 1, got %d", cfg.TransferConflictRetries)
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. API authentication is disabled.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
