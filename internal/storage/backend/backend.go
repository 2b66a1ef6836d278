// Package backend opens the storage backend selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/storage/sqlite"
)

// Open connects to the configured database and returns the store with its
// closer. For PostgreSQL, pending migrations from migrationsDir run first.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrationsDir string, log *slog.Logger) (storage.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		dsn := cfg.DSN()
		if err := storage.RunMigrations(dsn, migrationsDir); err != nil {
			return nil, nil, err
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected", "driver", config.DriverPostgres, "host", cfg.Host, "name", cfg.Name)
		return db, db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected", "driver", config.DriverSQLite, "path", cfg.Path)
		return db, func() {
			if err := db.Close(); err != nil {
				log.Warn("closing sqlite database", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
