// Package memory keeps drive journals in memory and exports each finished
// session to a JSON file.
package memory

import (
	"fmt"
	"sync"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/pkg/core"
)

// SessionRecord groups a session with everything recorded for it.
type SessionRecord struct {
	Session core.DriveSession
	Plans   []core.PlanEvent
	Turns   []core.TurnEvent
	Outcome *core.OutcomeEvent
}

// Backend stores journals in memory and exports to JSON
type Backend struct {
	cfg config.MemoryConfig

	mu             sync.RWMutex
	sessions       map[string]*SessionRecord
	idCounter      uint
	lastExportPath string
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		sessions: make(map[string]*SessionRecord),
	}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

// StartSession registers a session and assigns its ID.
func (b *Backend) StartSession(s *core.DriveSession) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[s.SessionID]; ok {
		return fmt.Errorf("session %s already started", s.SessionID)
	}
	b.idCounter++
	s.ID = b.idCounter
	b.sessions[s.SessionID] = &SessionRecord{Session: *s}
	return nil
}

// EndSession stores the outcome and exports the session when an output
// directory is configured.
func (b *Backend) EndSession(o *core.OutcomeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.session(o.SessionID)
	if err != nil {
		return err
	}
	out := *o
	rec.Outcome = &out

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON(rec)
}

// RecordPlan appends a plan attempt to its session.
func (b *Backend) RecordPlan(p *core.PlanEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.session(p.SessionID)
	if err != nil {
		return err
	}
	rec.Plans = append(rec.Plans, *p)
	return nil
}

// RecordTurn appends a turn to its session.
func (b *Backend) RecordTurn(t *core.TurnEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.session(t.SessionID)
	if err != nil {
		return err
	}
	rec.Turns = append(rec.Turns, *t)
	return nil
}

// Session returns a copy of a session's record.
func (b *Backend) Session(id string) (SessionRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.sessions[id]
	if !ok {
		return SessionRecord{}, false
	}
	out := *rec
	out.Plans = append([]core.PlanEvent(nil), rec.Plans...)
	out.Turns = append([]core.TurnEvent(nil), rec.Turns...)
	return out, true
}

// ExportedFilePath returns the file written by the last EndSession.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

func (b *Backend) session(id string) (*SessionRecord, error) {
	rec, ok := b.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	return rec, nil
}
