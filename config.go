package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/example/file-storage-api/modules/api"
	"github.com/example/file-storage-api/modules/storage"
)

// appDirName is the per-user cache subdirectory holding the default database.
const appDirName = "file_storage_api"

// Config is the process configuration, read from the environment.
type Config struct {
	HTTPPort           int           `env:"HTTP_PORT"            envDefault:"5000"`
	DBDriver           string        `env:"DB_DRIVER"            envDefault:"sqlite"`
	DBPath             string        `env:"DB_PATH"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBMaxOpenConns     int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"4"`
	DBDebug            bool          `env:"DB_DEBUG"             envDefault:"false"`
	CacheBackend       string        `env:"CACHE_BACKEND"        envDefault:"lru"`
	CacheSize          int           `env:"CACHE_SIZE"           envDefault:"256"`
	CacheTTL           time.Duration `env:"CACHE_TTL"            envDefault:"10m"`
	CacheMaxItemBytes  int           `env:"CACHE_MAX_ITEM_BYTES" envDefault:"1048576"`
	RedisAddr          string        `env:"REDIS_ADDR"           envDefault:"localhost:6379"`
	NATSMaxPayload     int           `env:"NATS_MAX_PAYLOAD"     envDefault:"8388608"`
	MaxRequestBytes    int           `env:"MAX_REQUEST_BYTES"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"30s"`
}

// loadConfig parses the environment and validates the result.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.DBDriver {
	case storage.DriverSQLite:
	case storage.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", storage.DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.NATSMaxPayload < storage.MinTransportPayload || cfg.NATSMaxPayload > storage.MaxTransportPayload {
		return Config{}, fmt.Errorf("NATS_MAX_PAYLOAD must be between %d and %d, got %d",
			storage.MinTransportPayload, storage.MaxTransportPayload, cfg.NATSMaxPayload)
	}

	// A put-file message carries the contents of one request body without the
	// GraphQL document around them, so bodies above the transport limit cannot be stored.
	switch {
	case cfg.MaxRequestBytes <= 0:
		cfg.MaxRequestBytes = cfg.NATSMaxPayload
	case cfg.MaxRequestBytes > cfg.NATSMaxPayload:
		return Config{}, fmt.Errorf("MAX_REQUEST_BYTES (%d) exceeds NATS_MAX_PAYLOAD (%d)",
			cfg.MaxRequestBytes, cfg.NATSMaxPayload)
	}

	return cfg, nil
}

// resolveDBPath returns DB_PATH when set, else <user cache dir>/file_storage_api/storage.db.
// The parent directory is created if absent.
func resolveDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate user cache directory: %w", err)
		}
		dbPath = filepath.Join(cacheDir, appDirName, "storage.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}

func (c Config) storageConfig(dbPath string) storage.Config {
	return storage.Config{
		Store: storage.StoreConfig{
			Driver:       c.DBDriver,
			Path:         dbPath,
			DatabaseURL:  c.DatabaseURL,
			MaxOpenConns: c.DBMaxOpenConns,
			Debug:        c.DBDebug,
		},
		Cache: storage.CacheConfig{
			Backend:      c.CacheBackend,
			Size:         c.CacheSize,
			TTL:          c.CacheTTL,
			RedisAddr:    c.RedisAddr,
			MaxItemBytes: c.CacheMaxItemBytes,
		},
		MaxPayloadBytes: c.NATSMaxPayload,
	}
}

func (c Config) apiConfig() api.Config {
	return api.Config{
		Port:         c.HTTPPort,
		BodyLimit:    c.MaxRequestBytes,
		AllowOrigins: c.CORSAllowedOrigins,
	}
}
