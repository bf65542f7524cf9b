package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
	Jobs     JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
	// Channel the outbox dispatcher publishes notification events to
	NotificationChannel string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LedgerConfig holds Units-economy policy knobs
type LedgerConfig struct {
	// Credit limit granted to wallets created at registration
	DefaultCreditLimit decimal.Decimal
	// Bounded retries on serialization conflicts before surfacing the error
	TransferMaxRetries int
	// Gift cards expire this long after issuance
	GiftCardExpiry time.Duration
	// Promotional tokens minted at redemption expire this long after
	PromoTokenExpiry time.Duration
	// Trust score shrinkage: neutral default, prior weight and the minimum
	// sample below which shrinkage applies
	TrustNeutralScore  float64
	TrustPriorWeight   float64
	TrustMinSampleSize int64
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	GiftCardExpiryInterval time.Duration
	OutboxInterval         time.Duration
	OutboxBatchSize        int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "units_exchange"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:                 getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD:            getEnv("REDIS_PASSWORD", ""),
			NotificationChannel: getEnv("REDIS_NOTIFICATION_CHANNEL", "notifications.ledger"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Ledger: LedgerConfig{
			DefaultCreditLimit: getEnvAsDecimal("LEDGER_DEFAULT_CREDIT_LIMIT", decimal.NewFromInt(50)),
			TransferMaxRetries: getEnvAsInt("LEDGER_TRANSFER_MAX_RETRIES", 3),
			GiftCardExpiry:     getEnvAsDuration("LEDGER_GIFT_CARD_EXPIRY", 30*24*time.Hour),
			PromoTokenExpiry:   getEnvAsDuration("LEDGER_PROMO_TOKEN_EXPIRY", 365*24*time.Hour),
			TrustNeutralScore:  getEnvAsFloat("LEDGER_TRUST_NEUTRAL_SCORE", 0.5),
			TrustPriorWeight:   getEnvAsFloat("LEDGER_TRUST_PRIOR_WEIGHT", 5),
			TrustMinSampleSize: int64(getEnvAsInt("LEDGER_TRUST_MIN_SAMPLE", 5)),
		},
		Jobs: JobsConfig{
			GiftCardExpiryInterval: getEnvAsDuration("JOBS_GIFT_CARD_EXPIRY_INTERVAL", 1*time.Minute),
			OutboxInterval:         getEnvAsDuration("JOBS_OUTBOX_INTERVAL", 5*time.Second),
			OutboxBatchSize:        getEnvAsInt("JOBS_OUTBOX_BATCH_SIZE", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if dec, err := decimal.NewFromString(value); err == nil {
			return dec
		}
	}
	return defaultValue
}
