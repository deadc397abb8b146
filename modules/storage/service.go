package storage

import (
	"context"
	"errors"
	"time"

	"github.com/example/file-storage-api/domain/file"
	"github.com/example/file-storage-api/events"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Publisher delivers a FileStored event after a successful write.
type Publisher func(event events.FileStoredEvent) error

// Service implements the file operations on top of a Store.
type Service struct {
	store     Store
	cache     ContentCache
	group     singleflight.Group
	publish   Publisher
	logger    types.Logger
	now       func() time.Time
	generator func() string
}

// NewService creates a new file service. A nil cache disables caching.
func NewService(store Store, cache ContentCache, logger types.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		store:     store,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		generator: func() string { return uuid.New().String() },
	}
}

// SetPublisher sets the callback notified of every stored file.
func (s *Service) SetPublisher(publish Publisher) {
	s.publish = publish
}

// ListFiles returns the metadata of every stored file.
func (s *Service) ListFiles(ctx context.Context) ([]file.Info, error) {
	defer observe("list", time.Now())

	infos, err := s.store.List(ctx)
	if err != nil {
		countResult("list", err)
		return nil, err
	}
	countResult("list", nil)
	return infos, nil
}

// GetFileContent returns the base64 form of the payload stored under id.
func (s *Service) GetFileContent(ctx context.Context, id string) (string, error) {
	defer observe("get", time.Now())

	if data, ok := s.cache.Get(ctx, id); ok {
		contentCacheLookups.WithLabelValues("hit").Inc()
		countResult("get", nil)
		return EncodePayload(data), nil
	}
	contentCacheLookups.WithLabelValues("miss").Inc()

	// Concurrent reads of the same id share one query. It must not be
	// cancelled with whichever caller happened to start it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(id, func() (any, error) {
		data, err := s.store.Contents(shared, id)
		if err != nil {
			return nil, err
		}
		s.cache.Set(shared, id, data)
		return data, nil
	})
	if err != nil {
		countResult("get", err)
		return "", err
	}

	countResult("get", nil)
	return EncodePayload(v.([]byte)), nil
}

// PutFile decodes contents, stores them under a fresh id and returns that id.
// Nothing is written when contents is not valid base64.
func (s *Service) PutFile(ctx context.Context, name, contents string) (string, error) {
	defer observe("put", time.Now())

	data, err := DecodePayload(contents)
	if err != nil {
		countResult("put", err)
		return "", err
	}

	rec := &file.Record{
		ID:        s.generator(),
		Name:      name,
		CreatedAt: s.now(),
		FileSize:  int64(len(data)),
		Contents:  data,
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		countResult("put", err)
		return "", err
	}
	countResult("put", nil)
	storedBytesTotal.Add(float64(rec.FileSize))

	s.cache.Set(ctx, rec.ID, data)
	s.notify(rec)

	return rec.ID, nil
}

// notify publishes the FileStored event. The write already succeeded, so a
// failure is only logged.
func (s *Service) notify(rec *file.Record) {
	if s.publish == nil {
		return
	}
	event := events.FileStoredEvent{
		ID:        rec.ID,
		Name:      rec.Name,
		FileSize:  rec.FileSize,
		CreatedAt: rec.CreatedAt,
	}
	if err := s.publish(event); err != nil && s.logger != nil {
		s.logger.Warn("Failed to publish FileStored event", "id", rec.ID, "error", err)
	}
}

func observe(operation string, start time.Time) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func countResult(operation string, err error) {
	operationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, file.ErrEncoding):
		return "bad_input"
	case errors.Is(err, file.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
