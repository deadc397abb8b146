package audit

import (
	"context"
	"fmt"

	"github.com/example/file-storage-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// healthRecentLimit is the number of recent uploads reported by Health.
const healthRecentLimit = 10

// Module consumes FileStored events and keeps upload statistics.
type Module struct {
	recorder *Recorder
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new audit module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		recorder: NewRecorder(DefaultMaxEntries),
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "audit"
}

// RegisterEventConsumers registers the FileStored handler.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.FileStoredV1, m.handleFileStored, m); err != nil {
		return fmt.Errorf("failed to register FileStored consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"FileStored.v1"})
	return nil
}

// handleFileStored records one stored file. Returning nil acknowledges the
// event; a malformed payload never reaches here and is not retried.
func (m *Module) handleFileStored(_ context.Context, event events.FileStoredEvent, _ *mono.Msg) error {
	if event.ID == "" {
		m.logger.Warn("Dropping FileStored event without id", "name", event.Name)
		return nil
	}

	m.recorder.Record(event)
	m.logger.Info("Recorded upload",
		"id", event.ID,
		"name", event.Name,
		"fileSize", event.FileSize)
	return nil
}

// Start initializes the audit module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Audit module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	summary := m.recorder.Summary()
	m.logger.Info("Audit module stopped",
		"uploads", summary.Uploads,
		"totalBytes", summary.TotalBytes)
	return nil
}

// Health reports the upload counters.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	summary := m.recorder.Summary()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"uploads":     summary.Uploads,
			"total_bytes": summary.TotalBytes,
			"last_upload": summary.LastUpload,
			"recent":      m.recorder.Recent(healthRecentLimit),
		},
	}
}

// Recorder returns the upload recorder.
func (m *Module) Recorder() *Recorder {
	return m.recorder
}
