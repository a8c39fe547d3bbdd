// Package gormstore implements the journal on GORM with internal queues and
// a background writer goroutine. The sqlite and postgres backends wrap it.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OCAP2/autodrive/internal/database"
	"github.com/OCAP2/autodrive/internal/model"
	"github.com/OCAP2/autodrive/internal/model/convert"
	"github.com/OCAP2/autodrive/internal/queue"
	"github.com/OCAP2/autodrive/pkg/core"
	"gorm.io/gorm"
)

// DefaultWriteInterval is how often queued records are written.
const DefaultWriteInterval = 2 * time.Second

// Backend writes sessions and outcomes synchronously and batches plans and
// turns through queues.
type Backend struct {
	db       *gorm.DB
	logger   *slog.Logger
	interval time.Duration

	plans *queue.Queue[model.PlanAttempt]
	turns *queue.Queue[model.TurnRecord]

	writeMu   sync.Mutex
	lastWrite atomic.Int64
	stop      chan struct{}
	done      chan struct{}
}

// New creates a backend on db. interval <= 0 uses DefaultWriteInterval.
func New(db *gorm.DB, logger *slog.Logger, interval time.Duration) *Backend {
	if interval <= 0 {
		interval = DefaultWriteInterval
	}
	return &Backend{
		db:       db,
		logger:   logger,
		interval: interval,
		plans:    queue.New[model.PlanAttempt](),
		turns:    queue.New[model.TurnRecord](),
	}
}

// DB exposes the connection for wrappers.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the schema and starts the writer goroutine.
func (b *Backend) Init() error {
	if b.db == nil {
		return errors.New("gormstore: no database")
	}
	if err := database.Migrate(b.db); err != nil {
		return err
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer and writes whatever is still queued.
func (b *Backend) Close() error {
	if b.stop != nil {
		close(b.stop)
		<-b.done
		b.stop = nil
	}
	return b.Flush()
}

// StartSession inserts the session row and assigns s.ID.
func (b *Backend) StartSession(s *core.DriveSession) error {
	m := convert.CoreToDriveSession(*s)
	if err := b.db.Create(&m).Error; err != nil {
		return fmt.Errorf("failed to insert drive session: %w", err)
	}
	s.ID = m.ID
	return nil
}

// EndSession writes the queued records of the session, then its outcome.
func (b *Backend) EndSession(o *core.OutcomeEvent) error {
	if err := b.Flush(); err != nil {
		return err
	}
	m := convert.CoreToOutcome(*o)
	if err := b.db.Create(&m).Error; err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// RecordPlan queues a plan attempt.
func (b *Backend) RecordPlan(p *core.PlanEvent) error {
	b.plans.Push(convert.CoreToPlanAttempt(*p))
	return nil
}

// RecordTurn queues a turn.
func (b *Backend) RecordTurn(t *core.TurnEvent) error {
	b.turns.Push(convert.CoreToTurnRecord(*t))
	return nil
}

// Flush writes both queues now.
func (b *Backend) Flush() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	start := time.Now()
	err := errors.Join(
		writeQueue(b.db, b.plans, "plan attempts"),
		writeQueue(b.db, b.turns, "turn records"),
	)
	b.lastWrite.Store(int64(time.Since(start)))
	return err
}

// LastWriteDuration is the duration of the most recent flush.
func (b *Backend) LastWriteDuration() time.Duration {
	return time.Duration(b.lastWrite.Load())
}

// Plans reads back the plan attempts of a session in insertion order.
func (b *Backend) Plans(sessionID string) ([]core.PlanEvent, error) {
	var rows []model.PlanAttempt
	if err := b.db.Where("session_id = ?", sessionID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read plan attempts: %w", err)
	}
	out := make([]core.PlanEvent, 0, len(rows))
	for _, r := range rows {
		p, err := convert.PlanAttemptToCore(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// TurnCount returns how many turns of a session are stored.
func (b *Backend) TurnCount(sessionID string) (int64, error) {
	var n int64
	err := b.db.Model(&model.TurnRecord{}).Where("session_id = ?", sessionID).Count(&n).Error
	return n, err
}

// Outcome reads the outcome of a session.
func (b *Backend) Outcome(sessionID string) (core.OutcomeEvent, error) {
	var row model.Outcome
	if err := b.db.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return core.OutcomeEvent{}, fmt.Errorf("failed to read outcome: %w", err)
	}
	return convert.OutcomeToCore(row), nil
}

func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.logger.Error("Journal write failed", "error", err)
			}
		}
	}
}

// writeQueue inserts all queued items in one transaction; on failure they
// go back on the queue for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string) error {
	if q.Empty() {
		return nil
	}
	items := q.Drain()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		q.Push(items...)
		return fmt.Errorf("error creating %s: %w", name, err)
	}
	return nil
}
