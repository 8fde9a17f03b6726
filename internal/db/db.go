// Package db opens the session database and migrates its schema.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-pharmacy/internal/config"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the configured driver. Postgres is retried a few times
// to let a container start.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch cfg.Driver {
	case "sqlite":
		log.Info().Str("path", cfg.Path).Msg("opening sqlite session database")
		return gorm.Open(sqlite.Open(cfg.Path), gcfg)
	case "postgres":
		log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("dbname", cfg.DBName).Str("user", cfg.User).
			Msg("connecting to postgres session database")
		var (
			conn *gorm.DB
			err  error
		)
		for attempt := 1; attempt <= 5; attempt++ {
			conn, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
			if err == nil {
				return conn, nil
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
		return nil, fmt.Errorf("connect postgres: %w", err)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.SessionRecord{})
}
