package migration

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/avbinvest/staffsync/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed sql/person/*.sql sql/organization/*.sql
var migrationFS embed.FS

// RunPersons applies the person store schema. Each binary invokes the runner
// for the tables it owns; the two services never share a schema.
func RunPersons(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	return run(cfg, db, log, "sql/person")
}

// RunOrganizations applies the organization store schema.
func RunOrganizations(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	return run(cfg, db, log, "sql/organization")
}

func run(cfg config.Config, db *gorm.DB, log *zap.Logger, dir string) error {
	// The SQL migrations are written for postgres. Other dialects, used for
	// local development and tests, get the schema from the model metadata.
	if !strings.EqualFold(cfg.DBType, "postgres") {
		return autoMigrate(db, dir)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("migration: acquire sql.DB: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration: postgres driver: %w", err)
	}

	sub, err := fs.Sub(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("migration: source %s: %w", dir, err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("migration: iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.DBName, driver)
	if err != nil {
		return fmt.Errorf("migration: init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("migrations applied",
		zap.String("dir", dir),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
