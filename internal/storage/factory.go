package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/internal/storage/memory"
	"github.com/OCAP2/autodrive/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/autodrive/internal/storage/sqlite"
)

// NewBackend creates a journal backend based on configuration. Call Init
// on the result before use. infra receives database connection events.
func NewBackend(cfg config.StorageConfig, db config.DBConfig, infra zerolog.Logger, logger *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		b, err := sqlitestorage.New(sqlitestorage.Config{
			DumpPath:     cfg.SQLite.DumpPath,
			DumpInterval: cfg.SQLite.DumpInterval,
		}, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "postgres":
		return postgres.New(db, infra, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
