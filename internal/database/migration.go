// internal/database/migration.go
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator applies the embedded print_jobs schema
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger.With(zap.String("component", "migrator")),
	}
}

// migrateLogger routes golang-migrate output to zap
type migrateLogger struct {
	sugar *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.sugar.Desugar().Core().Enabled(zap.DebugLevel)
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mg *migrate.Migrate) error { return mg.Up() })
}

// Down rolls back every migration
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mg *migrate.Migrate) error { return mg.Down() })
}

// Version returns the applied schema version; 0 when nothing is applied
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	mg, closeFn, err := m.open(ctx)
	if err != nil {
		return 0, false, err
	}
	defer closeFn()

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) run(ctx context.Context, direction string, apply func(*migrate.Migrate) error) error {
	mg, closeFn, err := m.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := apply(mg); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Schema already current", zap.String("direction", direction))
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, _ := mg.Version()
	m.logger.Info("Database migrations applied",
		zap.String("direction", direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// open binds migrate to a dedicated connection so closing it leaves the
// shared pool usable
func (m *Migrator) open(ctx context.Context) (*migrate.Migrate, func(), error) {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		source.Close()
		return nil, nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		source.Close()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	mg.Log = migrateLogger{sugar: m.logger.Sugar()}

	closeFn := func() {
		srcErr, dbErr := mg.Close()
		if srcErr != nil || dbErr != nil {
			m.logger.Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}
	return mg, closeFn, nil
}
