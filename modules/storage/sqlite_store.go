package storage

import (
	"context"
	"fmt"

	"github.com/example/file-storage-api/domain/file"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const createTableSQLite = `CREATE TABLE IF NOT EXISTS storage (
	id TEXT PRIMARY KEY,
	name TEXT,
	created_date TEXT,
	file_size INTEGER,
	contents BLOB
)`

// recordRow maps one row of the storage table.
type recordRow struct {
	ID          string `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	CreatedDate string `gorm:"column:created_date"`
	FileSize    int64  `gorm:"column:file_size"`
	Contents    []byte `gorm:"column:contents"`
}

// TableName returns the table name for recordRow.
func (recordRow) TableName() string {
	return tableName
}

// SQLiteStore implements Store on SQLite through GORM.
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the SQLite database file at path.
func OpenSQLiteStore(path string, maxOpenConns int, debug bool) (*SQLiteStore, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", file.ErrStorageUnavailable, path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: get sql.DB: %v", file.ErrStorageUnavailable, err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// sqliteDSN enables WAL and a busy timeout so concurrent readers and a writer
// wait on each other instead of failing with SQLITE_BUSY.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// EnsureSchema creates the storage table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(createTableSQLite).Error; err != nil {
		return fmt.Errorf("%w: %v", file.ErrSchema, err)
	}
	return nil
}

// List returns the metadata of every record. Contents are not read.
func (s *SQLiteStore) List(ctx context.Context) ([]file.Info, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Select("id", "name", "created_date", "file_size").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list files: %v", file.ErrStorageUnavailable, err)
	}

	infos := make([]file.Info, 0, len(rows))
	for _, row := range rows {
		createdAt, err := parseCreatedDate(row.ID, row.CreatedDate)
		if err != nil {
			return nil, err
		}
		infos = append(infos, file.Info{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: createdAt,
			FileSize:  row.FileSize,
		})
	}
	return infos, nil
}

// Contents returns the payload of the record with the given id.
func (s *SQLiteStore) Contents(ctx context.Context, id string) ([]byte, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Select("contents").
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get file %s: %v", file.ErrStorageUnavailable, id, err)
	}
	if len(rows) == 0 {
		return nil, &file.NotFoundError{ID: id}
	}
	return rows[0].Contents, nil
}

// Insert persists a new record.
func (s *SQLiteStore) Insert(ctx context.Context, rec *file.Record) error {
	row := recordRow{
		ID:          rec.ID,
		Name:        rec.Name,
		CreatedDate: formatCreatedDate(rec.CreatedAt),
		FileSize:    rec.FileSize,
		Contents:    rec.Contents,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: insert file %s: %v", file.ErrStorageUnavailable, rec.ID, err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Driver returns the backend name.
func (s *SQLiteStore) Driver() string {
	return DriverSQLite
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}
