// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "escpos-service/docs"
	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/handler"
	"escpos-service/internal/repository"
	"escpos-service/internal/routes"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *routes.Router
	database *database.DB

	eventBus   *handler.EventBus
	registry   *service.PrinterRegistry
	jobService *service.JobService
	jobRepo    repository.JobRepository
}

// @title ESC/POS Print Service API
// @version 1.0.0
// @description Renders JSON documents to ESC/POS commands and prints them on configured receipt printers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", os.Getenv("ESCPOS_SERVICE_CONFIG"), "path to the configuration file")
	flag.Parse()

	app, err := NewApplication(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, cfg.App.Name)
	serviceLogger.LogServiceStart(cfg.App.Version, len(cfg.Printers))

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initializeRepositories()

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initializeServer()

	return app, nil
}

// initializeDatabase connects to PostgreSQL and applies migrations when the
// database is enabled
func (app *Application) initializeDatabase() error {
	if !app.config.Database.Enabled {
		app.logger.Info("Database disabled, job history kept in memory")
		return nil
	}

	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	if app.config.Database.MigrateOnStart {
		if err := database.NewMigrator(db, app.logger).Up(context.Background()); err != nil {
			db.Close()
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeRepositories() {
	if app.database != nil {
		app.jobRepo = repository.NewJobRepository(app.database, app.logger)
	} else {
		app.jobRepo = repository.NewMemoryJobRepository()
	}
}

// initializeServices creates the event bus, printer registry and job service
func (app *Application) initializeServices() error {
	app.eventBus = handler.NewEventBus(app.logger)
	go app.eventBus.Start()

	registry, err := service.NewPrinterRegistry(app.config.Printers, app.config.Ports, app.eventBus, app.logger)
	if err != nil {
		app.eventBus.Stop()
		return fmt.Errorf("failed to create printer registry: %w", err)
	}
	app.registry = registry

	app.jobService = service.NewJobService(app.jobRepo, app.registry, app.config.Jobs, app.eventBus, app.logger)

	app.logger.Info("Services initialized successfully",
		zap.Int("printers", len(app.config.Printers)),
	)
	return nil
}

func (app *Application) initializeServer() {
	app.router = routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.registry,
		app.jobService,
		app.eventBus,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// Start runs the HTTP server until a shutdown signal arrives
func (app *Application) Start() error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting HTTP server", zap.String("address", app.server.Addr))

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		app.shutdown("shutdown signal received")
		return nil
	case err := <-errCh:
		app.shutdown("server error")
		return fmt.Errorf("http server: %w", err)
	}
}

// shutdown performs graceful shutdown
func (app *Application) shutdown(reason string) {
	utils.NewServiceLogger(app.logger, app.config.App.Name).LogServiceStop(reason)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.router.Close()
	app.eventBus.Stop()

	if err := app.registry.Close(); err != nil {
		app.logger.Error("Printer close error", zap.Error(err))
	}

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
