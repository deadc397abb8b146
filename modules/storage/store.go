package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/example/file-storage-api/domain/file"
)

// tableName is the single table holding all file records.
const tableName = "storage"

// createdDateLayout is the text layout of the created_date column.
const createdDateLayout = time.RFC3339Nano

// Supported backend drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the relational backend of the file records.
// Every method runs a single statement on a pooled connection.
type Store interface {
	// EnsureSchema creates the storage table if it does not exist.
	EnsureSchema(ctx context.Context) error
	// List returns the metadata of every record, in backend order.
	List(ctx context.Context) ([]file.Info, error)
	// Contents returns the raw payload of the record with the given id.
	Contents(ctx context.Context, id string) ([]byte, error)
	// Insert persists a new record.
	Insert(ctx context.Context, rec *file.Record) error
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

// StoreConfig selects and configures the backend.
type StoreConfig struct {
	Driver       string
	Path         string
	DatabaseURL  string
	MaxOpenConns int
	Debug        bool
}

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLiteStore(cfg.Path, cfg.MaxOpenConns, cfg.Debug)
	case DriverPostgres:
		return OpenPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func formatCreatedDate(t time.Time) string {
	return t.Format(createdDateLayout)
}

func parseCreatedDate(id, value string) (time.Time, error) {
	t, err := time.Parse(createdDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse created_date of %s: %v", file.ErrStorageUnavailable, id, err)
	}
	return t, nil
}
