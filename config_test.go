package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DB_DRIVER", "DB_PATH", "CACHE_BACKEND", "CACHE_TTL", "SHUTDOWN_TIMEOUT", "NATS_MAX_PAYLOAD", "MAX_REQUEST_BYTES", "CACHE_MAX_ITEM_BYTES"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, 4, cfg.DBMaxOpenConns)
	assert.Equal(t, "lru", cfg.CacheBackend)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8*1024*1024, cfg.NATSMaxPayload)
	assert.Equal(t, cfg.NATSMaxPayload, cfg.MaxRequestBytes)
	assert.Equal(t, 1024*1024, cfg.CacheMaxItemBytes)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"sqlite", map[string]string{"DB_DRIVER": "sqlite"}, false},
		{"postgres with url", map[string]string{"DB_DRIVER": "postgres", "DATABASE_URL": "postgres://localhost/files"}, false},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres", "DATABASE_URL": ""}, true},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}, true},
		{"bad port", map[string]string{"DB_DRIVER": "sqlite", "HTTP_PORT": "abc"}, true},
		{"payload within transport", map[string]string{"DB_DRIVER": "sqlite", "NATS_MAX_PAYLOAD": "2097152", "MAX_REQUEST_BYTES": "2097152"}, false},
		{"request limit above transport", map[string]string{"DB_DRIVER": "sqlite", "NATS_MAX_PAYLOAD": "1048576", "MAX_REQUEST_BYTES": "67108864"}, true},
		{"transport above mono maximum", map[string]string{"DB_DRIVER": "sqlite", "NATS_MAX_PAYLOAD": "16777216"}, true},
		{"transport below mono minimum", map[string]string{"DB_DRIVER": "sqlite", "NATS_MAX_PAYLOAD": "512"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loadConfig()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()

	explicit := filepath.Join(dir, "nested", "files.db")
	got, err := resolveDBPath(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, got)

	info, err := os.Stat(filepath.Dir(explicit))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// XDG_CACHE_HOME drives os.UserCacheDir on Linux.
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)
	got, err = resolveDBPath("")
	require.NoError(t, err)
	assert.Equal(t, appDirName, filepath.Base(filepath.Dir(got)))
	assert.Equal(t, "storage.db", filepath.Base(got))
}

func TestStorageConfig(t *testing.T) {
	cfg := Config{
		DBDriver:          "sqlite",
		DBMaxOpenConns:    3,
		CacheBackend:      "none",
		CacheSize:         8,
		CacheTTL:          time.Minute,
		CacheMaxItemBytes: 4096,
		NATSMaxPayload:    2 * 1024 * 1024,
	}

	sc := cfg.storageConfig("/tmp/x.db")
	assert.Equal(t, "/tmp/x.db", sc.Store.Path)
	assert.Equal(t, 3, sc.Store.MaxOpenConns)
	assert.Equal(t, "none", sc.Cache.Backend)
	assert.Equal(t, 8, sc.Cache.Size)
	assert.Equal(t, 4096, sc.Cache.MaxItemBytes)
	assert.Equal(t, 2*1024*1024, sc.MaxPayloadBytes)
}

func TestLoadConfig_DerivesRequestLimit(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("NATS_MAX_PAYLOAD", "2097152")
	t.Setenv("MAX_REQUEST_BYTES", "")
	os.Unsetenv("MAX_REQUEST_BYTES")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2097152, cfg.MaxRequestBytes)
	assert.Equal(t, 2097152, cfg.apiConfig().BodyLimit)
}
