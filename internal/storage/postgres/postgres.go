// Package postgres writes the journal to a PostgreSQL database, or to the
// configured SQLite fallback file when the server is unreachable.
package postgres

import (
	"errors"
	"log/slog"
	"time"

	"github.com/rs/zerolog"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/internal/database"
	"github.com/OCAP2/autodrive/internal/storage/gormstore"
	"github.com/OCAP2/autodrive/pkg/core"
)

var errNotReady = errors.New("postgres backend not initialized")

// Backend connects on Init and then delegates to gormstore.
type Backend struct {
	cfg    config.DBConfig
	logger *slog.Logger
	db     *database.Manager
	store  *gormstore.Backend
}

// New creates a backend for cfg. Connection events are logged through infra;
// journal errors through logger. No connection is made until Init.
func New(cfg config.DBConfig, infra zerolog.Logger, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:    cfg,
		logger: logger,
		db:     database.NewManager(infra, cfg.FallbackPath),
	}
}

// Init connects, migrates and starts the writer.
func (b *Backend) Init() error {
	if err := b.db.Connect(b.cfg); err != nil {
		return err
	}
	store := gormstore.New(b.db.DB, b.logger, 0)
	if err := store.Init(); err != nil {
		return err
	}
	b.store = store
	return nil
}

// UsingFallback reports whether the journal went to the SQLite fallback.
func (b *Backend) UsingFallback() bool {
	return b.db.UsingFallback
}

func (b *Backend) Close() error {
	if b.store == nil {
		return nil
	}
	err := b.store.Close()
	if sqlDB, dbErr := b.store.DB().DB(); dbErr == nil {
		err = errors.Join(err, sqlDB.Close())
	}
	b.store = nil
	return err
}

func (b *Backend) StartSession(s *core.DriveSession) error {
	if b.store == nil {
		return errNotReady
	}
	return b.store.StartSession(s)
}

func (b *Backend) EndSession(o *core.OutcomeEvent) error {
	if b.store == nil {
		return errNotReady
	}
	return b.store.EndSession(o)
}

func (b *Backend) RecordPlan(p *core.PlanEvent) error {
	if b.store == nil {
		return errNotReady
	}
	return b.store.RecordPlan(p)
}

func (b *Backend) RecordTurn(t *core.TurnEvent) error {
	if b.store == nil {
		return errNotReady
	}
	return b.store.RecordTurn(t)
}

// LastWriteDuration is the duration of the most recent batch write.
func (b *Backend) LastWriteDuration() time.Duration {
	if b.store == nil {
		return 0
	}
	return b.store.LastWriteDuration()
}
