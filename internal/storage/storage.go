// Package storage defines the drive journal backends.
package storage

import "github.com/OCAP2/autodrive/pkg/core"

// Backend is the interface all journal implementations must satisfy.
// Record methods may be called from several goroutines.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management; StartSession assigns s.ID where the backend has one.
	StartSession(s *core.DriveSession) error
	EndSession(o *core.OutcomeEvent) error

	RecordPlan(p *core.PlanEvent) error
	RecordTurn(t *core.TurnEvent) error
}

// Exporter is implemented by backends that write a file per finished session.
type Exporter interface {
	ExportedFilePath() string
}
