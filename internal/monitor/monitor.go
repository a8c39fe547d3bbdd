// Package monitor periodically snapshots worker health to a status file and,
// when telemetry is on, to InfluxDB.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/autodrive/internal/influx"
	"github.com/OCAP2/autodrive/internal/worker"
)

// DefaultInterval is used when Dependencies.Interval is not set.
const DefaultInterval = time.Second

// Stats is the worker surface the monitor reads.
type Stats interface {
	ActiveVehicles() []int
	TurnsProcessed() int
	LastWriteDuration() time.Duration
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Stats      Stats
	Logger     *slog.Logger
	StatusPath string             // empty disables the status file
	Telemetry  worker.PointWriter // optional
	Interval   time.Duration
}

// Snapshot is one status sample.
type Snapshot struct {
	Time              time.Time `json:"time"`
	ActiveVehicles    []int     `json:"activeVehicles"`
	TurnsProcessed    int       `json:"turnsProcessed"`
	LastWriteDuration float64   `json:"lastWriteDurationMs"`
}

// Service manages status monitoring
type Service struct {
	deps Dependencies

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot samples the worker now.
func (s *Service) Snapshot() Snapshot {
	ids := s.deps.Stats.ActiveVehicles()
	if ids == nil {
		ids = []int{}
	}
	return Snapshot{
		Time:              time.Now(),
		ActiveVehicles:    ids,
		TurnsProcessed:    s.deps.Stats.TurnsProcessed(),
		LastWriteDuration: float64(s.deps.Stats.LastWriteDuration().Microseconds()) / 1000,
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stopChan, s.done)
}

// Stop stops the monitor and records one last snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *Service) loop(stop, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		close(done)
	}()

	s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval, "statusPath", s.deps.StatusPath)
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			s.record()
			return
		case <-ticker.C:
			s.record()
		}
	}
}

func (s *Service) record() {
	snap := s.Snapshot()
	if err := s.writeStatus(snap); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
	}
	if s.deps.Telemetry == nil {
		return
	}
	p := influxdb2_write.NewPoint("monitor",
		map[string]string{},
		map[string]any{
			"activeVehicles":      len(snap.ActiveVehicles),
			"turnsProcessed":      snap.TurnsProcessed,
			"lastWriteDurationMs": snap.LastWriteDuration,
		},
		snap.Time,
	)
	if err := s.deps.Telemetry.WritePoint(influx.BucketPerformance, p); err != nil {
		s.deps.Logger.Debug("Monitor telemetry failed", "error", err)
	}
}

// writeStatus replaces the status file with snap as indented JSON.
func (s *Service) writeStatus(snap Snapshot) error {
	if s.deps.StatusPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	tmp := s.deps.StatusPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.deps.StatusPath)
}
