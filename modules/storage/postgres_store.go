package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/file-storage-api/domain/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTablePostgres = `CREATE TABLE IF NOT EXISTS storage (
	id TEXT PRIMARY KEY,
	name TEXT,
	created_date TEXT,
	file_size BIGINT,
	contents BYTEA
)`

// PostgresStore implements Store on PostgreSQL through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgresStore creates the connection pool and verifies connectivity.
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: create connection pool: %v", file.ErrStorageUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %v", file.ErrStorageUnavailable, err)
	}

	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the storage table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTablePostgres); err != nil {
		return fmt.Errorf("%w: %v", file.ErrSchema, err)
	}
	return nil
}

// List returns the metadata of every record. Contents are not read.
func (s *PostgresStore) List(ctx context.Context) ([]file.Info, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, created_date, file_size FROM storage")
	if err != nil {
		return nil, fmt.Errorf("%w: list files: %v", file.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	infos := make([]file.Info, 0)
	for rows.Next() {
		var (
			info        file.Info
			createdDate string
		)
		if err := rows.Scan(&info.ID, &info.Name, &createdDate, &info.FileSize); err != nil {
			return nil, fmt.Errorf("%w: scan file row: %v", file.ErrStorageUnavailable, err)
		}
		if info.CreatedAt, err = parseCreatedDate(info.ID, createdDate); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list files: %v", file.ErrStorageUnavailable, err)
	}
	return infos, nil
}

// Contents returns the payload of the record with the given id.
func (s *PostgresStore) Contents(ctx context.Context, id string) ([]byte, error) {
	var contents []byte
	err := s.pool.QueryRow(ctx, "SELECT contents FROM storage WHERE id = $1 LIMIT 1", id).Scan(&contents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &file.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("%w: get file %s: %v", file.ErrStorageUnavailable, id, err)
	}
	return contents, nil
}

// Insert persists a new record.
func (s *PostgresStore) Insert(ctx context.Context, rec *file.Record) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO storage (id, name, created_date, file_size, contents) VALUES ($1, $2, $3, $4, $5)",
		rec.ID, rec.Name, formatCreatedDate(rec.CreatedAt), rec.FileSize, rec.Contents,
	)
	if err != nil {
		return fmt.Errorf("%w: insert file %s: %v", file.ErrStorageUnavailable, rec.ID, err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Driver returns the backend name.
func (s *PostgresStore) Driver() string {
	return DriverPostgres
}
