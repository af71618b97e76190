package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Environment  string
	HTTPAddr     string
	StoreBackend string

	DBDSN          string
	MigrationsPath string
	RedisAddr      string
	RedisPassword  string

	// Booking lifecycle windows.
	ReserveWindow time.Duration // grace period to scan in after booking
	SessionWindow time.Duration // maximum stay after check-in
	SweepInterval time.Duration // background expiry sweep period

	// MasterPIN overrides every per-library admin PIN.
	MasterPIN string
}

// Load reads configuration from the environment, after loading .env if
// one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    envOr("ENV", "development"),
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		StoreBackend:   envOr("STORE_BACKEND", BackendMemory),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: envOr("MIGRATIONS_PATH", "migrations"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MasterPIN:      envOr("MASTER_PIN", "1234"),
	}

	reserveMinutes, err := envInt("RESERVE_WINDOW_MINUTES", 6)
	if err != nil {
		return nil, err
	}
	sessionHours, err := envInt("SESSION_HOURS", 4)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := envDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ReserveWindow = time.Duration(reserveMinutes) * time.Minute
	cfg.SessionWindow = time.Duration(sessionHours) * time.Hour
	cfg.SweepInterval = sweepInterval

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when STORE_BACKEND=postgres")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
