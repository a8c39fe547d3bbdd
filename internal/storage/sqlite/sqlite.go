// Package sqlitestorage keeps the journal in an in-memory SQLite database
// and periodically dumps it to disk with VACUUM INTO.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/OCAP2/autodrive/internal/database"
	"github.com/OCAP2/autodrive/internal/storage/gormstore"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string // target of VACUUM INTO; empty disables dumps
}

var dbCounter atomic.Uint64

// Backend wraps gormstore with the dump schedule.
type Backend struct {
	*gormstore.Backend
	cfg    Config
	logger *slog.Logger
	stop   chan struct{}
	done   chan struct{}
}

// New opens a fresh in-memory database. Each backend gets its own.
func New(cfg Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := fmt.Sprintf("autodrive_%d", dbCounter.Add(1))
	db, err := database.OpenSQLite(database.MemoryDSN(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	return &Backend{
		Backend: gormstore.New(db, logger, 0),
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Init migrates, starts the writer and, with a dump path, the dump loop.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}
	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.stop = make(chan struct{})
		b.done = make(chan struct{})
		go b.dumpLoop()
	}
	return nil
}

// Close flushes the journal and writes a final dump.
func (b *Backend) Close() error {
	if b.stop != nil {
		close(b.stop)
		<-b.done
		b.stop = nil
	}
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.cfg.DumpPath == "" {
		return nil
	}
	return b.Dump()
}

// Dump writes a point-in-time snapshot to DumpPath.
func (b *Backend) Dump() error {
	start := time.Now()
	if err := database.DumpToDisk(b.DB(), b.cfg.DumpPath); err != nil {
		return err
	}
	b.logger.Debug("Dumped journal to disk", "path", b.cfg.DumpPath, "duration", time.Since(start))
	return nil
}

func (b *Backend) dumpLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.logger.Error("Journal write before dump failed", "error", err)
			}
			if err := b.Dump(); err != nil {
				b.logger.Error("Error dumping to disk", "error", err)
			}
		}
	}
}
