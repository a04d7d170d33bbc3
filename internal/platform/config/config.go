package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LockNone  = "none"
	LockLocal = "local"
	LockRedis = "redis"
)

// defaultModules is every module the finance core knows about.
const defaultModules = "pos,invoicing,pricing,sales,inventory,purchasing,tenancy,helpdesk,budget,logistics"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `validate:"required_if=StoreBackend postgres"`
	Port          string `validate:"required,numeric"`
	IsProduction  bool
	EnableDBCheck bool

	StoreBackend string `validate:"oneof=memory postgres"`
	LockBackend  string `validate:"oneof=none local redis"`
	RedisAddr    string `validate:"required_if=LockBackend redis"`
	LockTTL      time.Duration

	// Document and payment numbering
	CodegenMaxAttempts int `validate:"min=1,max=100"`

	AllowOverpayment    bool
	NegativeTotalPolicy string   `validate:"oneof=allow clamp reject"`
	EnabledModules      []string `validate:"dive,oneof=pos invoicing pricing sales inventory purchasing tenancy helpdesk budget logistics"`

	RateLimit          string // ulule format, e.g. "100-M"; empty disables
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("LOCK_BACKEND", LockNone)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("CODEGEN_MAX_ATTEMPTS", 10)
	v.SetDefault("ALLOW_OVERPAYMENT", false)
	v.SetDefault("NEGATIVE_TOTAL_POLICY", "allow")
	v.SetDefault("ENABLED_MODULES", defaultModules)
	v.SetDefault("RATE_LIMIT", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		StoreBackend:        strings.ToLower(v.GetString("STORE_BACKEND")),
		LockBackend:         strings.ToLower(v.GetString("LOCK_BACKEND")),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		CodegenMaxAttempts:  v.GetInt("CODEGEN_MAX_ATTEMPTS"),
		AllowOverpayment:    v.GetBool("ALLOW_OVERPAYMENT"),
		NegativeTotalPolicy: strings.ToLower(v.GetString("NEGATIVE_TOTAL_POLICY")),
		EnabledModules:      splitList(v.GetString("ENABLED_MODULES")),
		RateLimit:           v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	lockTTLStr := v.GetString("LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 30 * time.Second
		slog.Warn("Invalid LOCK_TTL, using default", slog.String("value", lockTTLStr), slog.Duration("default", lockTTL))
	}
	cfg.LockTTL = lockTTL

	if cfg.StoreBackend == StoreMemory && cfg.IsProduction {
		slog.Warn("STORE_BACKEND=memory in production; data will not survive a restart")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
