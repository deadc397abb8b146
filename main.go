package main

import (
	"context"
	"log"
	"os"

	apimod "github.com/example/file-storage-api/modules/api"
	auditmod "github.com/example/file-storage-api/modules/audit"
	storagemod "github.com/example/file-storage-api/modules/storage"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if cfg.DBDriver == storagemod.DriverSQLite {
		dbPath, err = resolveDBPath(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}

	log.Println("=== File Storage API ===")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DBDriver)
	if cfg.DBDriver == storagemod.DriverSQLite {
		log.Printf("Database Path: %s", dbPath)
	}
	log.Printf("Content Cache: %s", cfg.CacheBackend)
	log.Printf("Max File Size: %d bytes", storagemod.MaxFileBytes(cfg.NATSMaxPayload))

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithNATSMaxPayload(int32(cfg.NATSMaxPayload)),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Create modules
	auditModule := auditmod.NewModule(app.Logger())
	storageModule := storagemod.NewModule(cfg.storageConfig(dbPath), app.Logger())
	apiModule := apimod.NewModule(cfg.apiConfig())
	apiModule.SetHealthSources(storageModule, auditModule, apiModule)

	// Register modules; api depends on storage and receives its service container
	app.Register(auditModule)
	app.Register(storageModule)
	app.Register(apiModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("GraphQL endpoint at http://localhost:%d/", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET  /          - GraphQL playground")
	log.Println("  POST /          - GraphQL queries and mutations")
	log.Println("  POST /graphql   - GraphQL queries and mutations")
	log.Println("  GET  /health    - Health check")
	log.Println("  GET  /metrics   - Prometheus metrics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
