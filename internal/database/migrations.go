package database

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/stwalsh4118/propdesk/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies pending schema migrations. It is safe to call on
// every startup; an up-to-date schema is a no-op.
func RunMigrations(db *Database, log *logger.Logger) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	// A dedicated connection; m.Close closes it without touching the pool.
	sqlDB := stdlib.OpenDB(*db.Pool.Config().ConnConfig)

	// Without a statement timeout a missing CREATE grant blocks instead of failing.
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		StatementTimeout: 30 * time.Second,
	})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn("Failed to close migration source", map[string]interface{}{"error": srcErr.Error()})
		}
		if dbErr != nil {
			log.Warn("Failed to close migration database", map[string]interface{}{"error": dbErr.Error()})
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to apply", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logAppliedVersion(log, m)
	return nil
}

type versioner interface {
	Version() (version uint, dirty bool, err error)
}

// logAppliedVersion reports the schema version after a successful Up. The
// migrations already ran, so a failed version read is only a warning.
func logAppliedVersion(log *logger.Logger, m versioner) {
	version, dirty, err := m.Version()
	if err != nil {
		log.Warn("Failed to read migration version", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("Applied migrations", map[string]interface{}{
		"version": version,
		"dirty":   dirty,
	})
}
