package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/diewo77/go-identity/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate creates or updates the schema with gorm. The membership join table
// is registered first so its composite key and timestamps are honoured.
func Migrate(ctx context.Context, database *gorm.DB) error {
	tx := database.WithContext(ctx)
	if err := tx.SetupJoinTable(&models.User{}, "Roles", &models.UserRole{}); err != nil {
		return fmt.Errorf("setup user roles join table: %w", err)
	}
	if err := tx.SetupJoinTable(&models.Role{}, "Users", &models.UserRole{}); err != nil {
		return fmt.Errorf("setup role users join table: %w", err)
	}
	for _, m := range models.All() {
		if err := tx.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"users", "roles", "profiles", "users_roles"} {
		if !tx.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// MigrateSQL applies the embedded versioned migrations with golang-migrate.
// Only postgres is supported; sqlite databases use Migrate.
func MigrateSQL(dsn string) error {
	dsn = NormalizeDSN(dsn)
	if Dialect(dsn) != DialectPostgres {
		return fmt.Errorf("sql migrations require a postgres dsn")
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, ToURLDSN(dsn))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("close migrate")
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("sql migrations applied")
	return nil
}
