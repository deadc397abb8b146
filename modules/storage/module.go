package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/file-storage-api/domain/file"
	"github.com/example/file-storage-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Config holds the storage module configuration.
type Config struct {
	Store StoreConfig
	Cache CacheConfig
	// MaxPayloadBytes is the transport message limit the app was started with.
	// Zero means MaxTransportPayload.
	MaxPayloadBytes int
}

// Module owns the file table and serves the file operations to other modules.
type Module struct {
	cfg         Config
	maxContents int
	store       Store
	cache       ContentCache
	service     *Service
	eventBus    mono.EventBus
	logger      types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
)

// NewModule creates a new storage module.
func NewModule(cfg Config, logger types.Logger) *Module {
	maxPayload := cfg.MaxPayloadBytes
	if maxPayload <= 0 {
		maxPayload = MaxTransportPayload
	}
	return &Module{
		cfg:         cfg,
		maxContents: MaxContentsLen(maxPayload),
		logger:      logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.FileStoredV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-files", json.Unmarshal, json.Marshal, m.listFiles,
	); err != nil {
		return fmt.Errorf("failed to register list-files service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-file", json.Unmarshal, json.Marshal, m.getFile,
	); err != nil {
		return fmt.Errorf("failed to register get-file service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "put-file", json.Unmarshal, json.Marshal, m.putFile,
	); err != nil {
		return fmt.Errorf("failed to register put-file service: %w", err)
	}

	log.Printf("[storage] Registered services: list-files, get-file, put-file")
	return nil
}

// Start opens the backend, creates the schema and builds the service.
func (m *Module) Start(ctx context.Context) error {
	store, err := OpenStore(ctx, m.cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	cache, err := NewContentCache(ctx, m.cfg.Cache)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create content cache: %w", err)
	}

	m.store = store
	m.cache = cache
	m.service = NewService(store, cache, m.logger)

	if m.eventBus != nil {
		m.service.SetPublisher(m.publishFileStored)
	} else {
		log.Println("[storage] Warning: eventBus not set, events will not be published")
	}

	log.Printf("[storage] Module started (driver: %s, cache: %s)", store.Driver(), cache.Name())
	return nil
}

// Stop closes the cache and the backend.
func (m *Module) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			log.Printf("[storage] Failed to close cache: %v", err)
		}
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	log.Println("[storage] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}

	details := map[string]any{
		"driver":         m.store.Driver(),
		"cache":          m.cache.Name(),
		"stats":          m.cache.Stats(),
		"max_file_bytes": m.maxContents / 4 * 3,
	}
	if sqlite, ok := m.store.(*SQLiteStore); ok {
		details["path"] = sqlite.Path()
	}

	if err := m.store.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return mono.HealthStatus{
			Healthy: false,
			Message: "database unreachable",
			Details: details,
		}
	}

	// A Redis outage only degrades reads to the database.
	if redisCache, ok := m.cache.(*RedisCache); ok {
		if err := redisCache.Ping(ctx); err != nil {
			details["cache_error"] = err.Error()
			return mono.HealthStatus{
				Healthy: true,
				Message: "cache unreachable",
				Details: details,
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// Service returns the file service instance.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) publishFileStored(event events.FileStoredEvent) error {
	return events.FileStoredV1.Publish(m.eventBus, event, nil)
}

// listFiles handles the list-files service request.
func (m *Module) listFiles(ctx context.Context, _ ListFilesRequest, _ *mono.Msg) (ListFilesResponse, error) {
	infos, err := m.service.ListFiles(ctx)
	if err != nil {
		m.logger.Error("Failed to list files", "error", err)
		return ListFilesResponse{}, err
	}

	response := ListFilesResponse{
		Files: make([]FileMetaResponse, 0, len(infos)),
		Total: len(infos),
	}
	for _, info := range infos {
		response.Files = append(response.Files, toFileMetaResponse(info))
	}
	return response, nil
}

// getFile handles the get-file service request.
func (m *Module) getFile(ctx context.Context, req GetFileRequest, _ *mono.Msg) (GetFileResponse, error) {
	contents, err := m.service.GetFileContent(ctx, req.ID)
	if err != nil {
		m.logger.Debug("Failed to get file", "id", req.ID, "error", err)
		return GetFileResponse{}, err
	}
	// Rows written under a larger limit cannot be sent back over this transport.
	if err := checkContentsLen(contents, m.maxContents); err != nil {
		m.logger.Warn("File too large for reply", "id", req.ID, "error", err)
		return GetFileResponse{}, err
	}
	return GetFileResponse{ID: req.ID, Contents: contents}, nil
}

// putFile handles the put-file service request.
func (m *Module) putFile(ctx context.Context, req PutFileRequest, _ *mono.Msg) (PutFileResponse, error) {
	// Only store what a get-file reply can carry back.
	if err := checkContentsLen(req.Contents, m.maxContents); err != nil {
		m.logger.Warn("Rejected oversized file", "name", req.Name, "error", err)
		return PutFileResponse{}, err
	}

	id, err := m.service.PutFile(ctx, req.Name, req.Contents)
	if err != nil {
		m.logger.Warn("Failed to store file", "name", req.Name, "error", err)
		return PutFileResponse{}, err
	}
	m.logger.Info("Stored file", "id", id, "name", req.Name)
	return PutFileResponse{ID: id}, nil
}

// toFileMetaResponse converts domain file.Info to FileMetaResponse.
func toFileMetaResponse(info file.Info) FileMetaResponse {
	return FileMetaResponse{
		ID:        info.ID,
		Name:      info.Name,
		CreatedAt: info.CreatedAt,
		FileSize:  info.FileSize,
	}
}
