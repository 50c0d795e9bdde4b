package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// migrateLogger forwards golang-migrate progress to zerolog.
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

func newMigrator(databaseURL, migrationsPath string, logger zerolog.Logger) (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{logger: logger}
	return m, nil
}

// RunMigrations applies every pending migration of the materials, ledger
// entries and audit log schema.
func RunMigrations(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "migrate").Logger()

	m, err := newMigrator(databaseURL, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// RunMigrationsDown rolls back the last migration.
func RunMigrationsDown(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "migrate").Logger()

	m, err := newMigrator(databaseURL, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info().Msg("nothing to roll back")
			return nil
		}
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info().Msg("rolled back to empty schema")
		return nil
	}
	logger.Info().Uint("version", version).Msg("migration rolled back")
	return nil
}
