package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"github.com/smallbiznis/tokenmeter/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var ErrNilHandle = errors.New("migration_nil_handle")

// Apply creates the usage_records table for local and demo databases and
// returns the schema version. Production usage tables belong to the
// ingestion side.
//
// Postgres runs the versioned SQL files; other dialects use AutoMigrate and
// report version 0.
func Apply(conn *gorm.DB, dbType string) (uint, error) {
	if conn == nil {
		return 0, ErrNilHandle
	}
	if db.NormalizeType(dbType) != "postgres" {
		return 0, conn.AutoMigrate(&usagedomain.UsageRecord{})
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return 0, err
	}
	return Up(sqlDB)
}

// Up applies pending postgres migrations. An up-to-date schema is not an error.
func Up(sqlDB *sql.DB) (uint, error) {
	m, err := newMigrator(sqlDB)
	if err != nil {
		return 0, err
	}
	// m.Close would also close sqlDB, which the caller still owns.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

func newMigrator(sqlDB *sql.DB) (*migrate.Migrate, error) {
	if sqlDB == nil {
		return nil, ErrNilHandle
	}
	files, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "tokenmeter_schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", source, "postgres", driver)
}
