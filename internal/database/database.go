// Package database opens the GORM connections used by the journal backends.
package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN names a shared-cache in-memory SQLite database. Connections
// using the same name see the same data.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode = MEMORY;",
	"PRAGMA synchronous = OFF;",
	"PRAGMA cache_size = -32000;",
	"PRAGMA temp_store = MEMORY;",
}

// OpenPostgres connects to Postgres.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        5000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// OpenSQLite opens a SQLite database at dsn, a file path or a MemoryDSN.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// Migrate creates or updates the journal tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DumpToDisk snapshots db into a SQLite file with VACUUM INTO, replacing
// any previous dump.
func DumpToDisk(db *gorm.DB, path string) error {
	if path == "" {
		return fmt.Errorf("sqlite file path not set")
	}
	if strings.Contains(path, "'") {
		return fmt.Errorf("sqlite file path %q contains a quote", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing existing DB file: %w", err)
	}
	if err := db.Exec("VACUUM INTO 'file:" + path + "';").Error; err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}
	return nil
}

// Manager connects to the configured Postgres server and falls back to a
// local SQLite file when it is unreachable.
type Manager struct {
	DB             *gorm.DB
	SQLiteFallback string // file used when Postgres fails
	UsingFallback  bool
	Logger         zerolog.Logger
}

// NewManager creates a database manager.
func NewManager(log zerolog.Logger, fallbackPath string) *Manager {
	return &Manager{SQLiteFallback: fallbackPath, Logger: log}
}

// Connect opens and pings Postgres, then migrates the schema.
func (m *Manager) Connect(cfg config.DBConfig) error {
	db, err := m.postgres(cfg)
	if err != nil {
		m.Logger.Error().Err(err).Str("host", cfg.Host).Msg("Failed to connect to Postgres DB, trying SQLite")
		if m.SQLiteFallback == "" {
			return fmt.Errorf("postgres unavailable and no SQLite fallback: %w", err)
		}
		db, err = OpenSQLite(m.SQLiteFallback)
		if err != nil {
			return fmt.Errorf("failed to get local SQLite DB: %w", err)
		}
		m.UsingFallback = true
		m.Logger.Info().Str("path", m.SQLiteFallback).Msg("Using local SQLite DB")
	} else {
		m.Logger.Info().Str("host", cfg.Host).Msg("Connected to database")
	}

	if err := Migrate(db); err != nil {
		return err
	}
	m.DB = db
	m.Logger.Info().Msg("Database setup complete")
	return nil
}

func (m *Manager) postgres(cfg config.DBConfig) (*gorm.DB, error) {
	m.Logger.Debug().Str("host", cfg.Host).Str("port", cfg.Port).Str("database", cfg.Database).
		Msg("Connecting to Postgres DB")
	db, err := OpenPostgres(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}
