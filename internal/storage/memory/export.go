package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OCAP2/autodrive/pkg/core"
)

// ExportVersion is bumped when the journal JSON layout changes.
const ExportVersion = 1

// JournalExport is the root JSON structure of an exported session.
type JournalExport struct {
	Version     int           `json:"version"`
	SessionID   string        `json:"sessionId"`
	StartTime   string        `json:"startTime"`
	Vehicle     VehicleJSON   `json:"vehicle"`
	Start       core.Tripoint `json:"start"`
	Destination core.Tripoint `json:"destination"`
	RouteLength int           `json:"routeLength"`
	Outcome     OutcomeJSON   `json:"outcome"`
	Plans       []PlanJSON    `json:"plans"`
	// Turns are [turn, x, y, z, face, velocity, cruise, phase, check, targetSpeed, steerDelta]
	Turns [][]any `json:"turns"`
}

// VehicleJSON identifies the driven vehicle.
type VehicleJSON struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	PartCount int    `json:"partCount"`
}

// OutcomeJSON is how the session ended.
type OutcomeJSON struct {
	Turn    uint   `json:"turn"`
	Outcome string `json:"outcome"`
	Failure string `json:"failure,omitempty"`
	Message string `json:"message,omitempty"`
	Braked  bool   `json:"braked"`
}

// PlanJSON is one planning attempt; Path holds [x, y, z] triples.
type PlanJSON struct {
	Turn           uint     `json:"turn"`
	Speed          int      `json:"speed"`
	Nodes          int      `json:"nodes"`
	DurationMicros int64    `json:"durationMicros"`
	Success        bool     `json:"success"`
	Path           [][3]int `json:"path"`
}

func buildExport(rec *SessionRecord) JournalExport {
	s := rec.Session
	export := JournalExport{
		Version:     ExportVersion,
		SessionID:   s.SessionID,
		StartTime:   s.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
		Vehicle:     VehicleJSON{ID: s.Vehicle.ID, Name: s.Vehicle.DisplayName, PartCount: s.Vehicle.PartCount},
		Start:       s.Start,
		Destination: s.Destination,
		RouteLength: s.RouteLength,
		Plans:       make([]PlanJSON, 0, len(rec.Plans)),
		Turns:       make([][]any, 0, len(rec.Turns)),
	}
	if o := rec.Outcome; o != nil {
		export.Outcome = OutcomeJSON{Turn: o.Turn, Outcome: o.Outcome, Failure: o.Failure, Message: o.Message, Braked: o.Braked}
	}

	for _, p := range rec.Plans {
		path := make([][3]int, len(p.Path))
		for i, q := range p.Path {
			path[i] = [3]int{q.X, q.Y, q.Z}
		}
		export.Plans = append(export.Plans, PlanJSON{
			Turn:           p.Turn,
			Speed:          p.SpeedTPS,
			Nodes:          p.NodesExplored,
			DurationMicros: p.Duration.Microseconds(),
			Success:        p.Success,
			Path:           path,
		})
	}

	for _, t := range rec.Turns {
		st := t.State
		export.Turns = append(export.Turns, []any{
			st.Turn, st.Position.X, st.Position.Y, st.Position.Z,
			st.Face, st.Velocity, st.Cruise, t.Phase, t.Check, t.TargetSpeed, t.SteerDelta,
		})
	}
	return export
}

// exportFileName is <vehicle>_<session prefix>_<start time>.json[.gz].
func exportFileName(rec *SessionRecord, compress bool) string {
	name := strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(rec.Session.Vehicle.DisplayName)
	if name == "" {
		name = "vehicle"
	}
	id := rec.Session.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	ext := ".json"
	if compress {
		ext += ".gz"
	}
	return fmt.Sprintf("%s_%s_%s%s", name, id, rec.Session.StartTime.Format("20060102_150405"), ext)
}

// exportJSON writes the session to OutputDir; callers hold b.mu.
func (b *Backend) exportJSON(rec *SessionRecord) error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(b.cfg.OutputDir, exportFileName(rec, b.cfg.CompressOutput))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if b.cfg.CompressOutput {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := json.NewEncoder(w).Encode(buildExport(rec)); err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	b.lastExportPath = path
	return nil
}
