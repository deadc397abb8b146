package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/file-storage-api/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	nanoid "github.com/jaevor/go-nanoid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port         int
	BodyLimit    int
	AllowOrigins string
}

// APIModule is the driving adapter that exposes the GraphQL API using Fiber.
type APIModule struct {
	cfg     Config
	app     *fiber.App
	files   storage.FilesPort
	sources []HealthSource
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"storage"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "storage":
		m.files = storage.NewFilesAdapter(container)
	}
}

// SetHealthSources sets the modules reported by GET /health.
func (m *APIModule) SetHealthSources(sources ...HealthSource) {
	m.sources = sources
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.files == nil {
		return fmt.Errorf("files adapter dependency not set")
	}

	app, err := newApp(m.files, m.cfg, m.sources)
	if err != nil {
		return err
	}
	m.app = app

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// newApp builds the Fiber app with middleware and routes.
func newApp(files storage.FilesPort, cfg Config, sources []HealthSource) (*fiber.App, error) {
	schema, err := newSchema(files)
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	generate, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to create request id generator: %w", err)
	}

	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "File Storage API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: generate}))
	app.Use(logger.New(logger.Config{
		Format: "[api] ${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
	}))
	app.Use(metricsMiddleware())

	h := &handlers{schema: schema, sources: sources}

	app.Get("/", h.playgroundHandler)
	app.Post("/", h.graphqlHandler)
	app.Post("/graphql", h.graphqlHandler)
	app.Get("/health", h.healthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app, nil
}

// errorHandler handles Fiber errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
