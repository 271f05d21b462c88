package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	JWTSecret         string
	TokenTTL          time.Duration
	StripeAPIKey      string
	CheckoutReturnURL string
	Currency          string
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	SweepBatchSize    int
	WorkerPoolSize    int
	AMQPURL           string
	OrderExchange     string
	AdminLogin        string
	AdminPassword     string
	ShutdownTimeout   time.Duration
	LogLevel          string
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
	defaultCurrency        = "usd"
	defaultReturnURL       = "http://localhost:8080/checkout"
	defaultSessionTTL      = time.Hour
	defaultSweepInterval   = time.Minute
	defaultSweepBatchSize  = 32
	defaultWorkerPoolSize  = 4
	defaultOrderExchange   = "storefront.orders"
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
)

// Load parses configuration from .env, environment variables, and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		StripeAPIKey:      getString(lookup, "STRIPE_API_KEY", ""),
		CheckoutReturnURL: getString(lookup, "CHECKOUT_RETURN_URL", defaultReturnURL),
		Currency:          getString(lookup, "CURRENCY", defaultCurrency),
		SessionTTL:        getDuration(lookup, "CHECKOUT_SESSION_TTL", defaultSessionTTL),
		SweepInterval:     getDuration(lookup, "SESSION_SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatchSize:    getInt(lookup, "SESSION_SWEEP_BATCH", defaultSweepBatchSize),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		AMQPURL:           getString(lookup, "AMQP_URL", ""),
		OrderExchange:     getString(lookup, "ORDER_EXCHANGE", defaultOrderExchange),
		AdminLogin:        getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.StripeAPIKey, "stripe-key", cfg.StripeAPIKey, "Stripe secret API key")
	fs.StringVar(&cfg.CheckoutReturnURL, "return-url", cfg.CheckoutReturnURL, "Base URL for checkout success/cancel redirects")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "ISO currency code for checkout sessions")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "RabbitMQ URL for order events (optional)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweeper workers")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum sessions per sweep batch")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Checkout session lifetime")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("stripe API key must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
