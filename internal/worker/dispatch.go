package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/internal/cache"
	"github.com/OCAP2/autodrive/internal/dispatcher"
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/internal/influx"
	"github.com/OCAP2/autodrive/internal/parser"
	"github.com/OCAP2/autodrive/pkg/core"
)

const (
	CmdStart     = ":AUTODRIVE:START:"
	CmdTurn      = ":AUTODRIVE:TURN:"
	CmdStop      = ":AUTODRIVE:STOP:"
	CmdStatus    = ":AUTODRIVE:STATUS:"
	CmdTelemetry = ":AUTODRIVE:TELEMETRY:"
)

// Status is the JSON snapshot returned by STATUS.
type Status struct {
	VehicleID int           `json:"vehicleId"`
	SessionID string        `json:"sessionId"`
	State     string        `json:"state"`
	Failure   string        `json:"failure,omitempty"`
	Turn      uint          `json:"turn"`
	Position  core.Tripoint `json:"position"`
	Face      int           `json:"face"`
	Velocity  int           `json:"velocity"`
	PathLeft  int           `json:"pathLeft"`
	RouteLeft int           `json:"routeLeft"`
	Message   string        `json:"message,omitempty"`
}

// RegisterHandlers registers all autodrive commands with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// control commands run inline, the caller waits for the turn
	d.Register(CmdStart, m.handleStart, dispatcher.Logged())
	d.Register(CmdTurn, m.handleTurn)
	d.Register(CmdStop, m.handleStop, dispatcher.Logged())
	d.Register(CmdStatus, m.handleStatus)

	d.Register(CmdTelemetry, m.handleTelemetry, dispatcher.Buffered(1000), dispatcher.Logged())
}

func (m *Manager) log() *slog.Logger {
	if m.deps.LogManager != nil {
		return m.deps.LogManager.Logger()
	}
	return m.logger
}

func (m *Manager) handleStart(e dispatcher.Event) (any, error) {
	cmd, err := parser.ParseStart(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to start autodrive: %w", err)
	}
	if prev, ok := m.deps.Controllers.Get(cmd.VehicleID); ok {
		prev.Lock()
		done := prev.Controller.State().Done()
		prev.Unlock()
		if !done {
			return nil, fmt.Errorf("%w: %d", ErrActive, cmd.VehicleID)
		}
	}

	b, err := m.deps.Resolve(cmd.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vehicle %d: %w", cmd.VehicleID, err)
	}
	if cmd.Route != nil {
		rs, ok := b.Driver.(RouteSetter)
		if !ok {
			return nil, ErrFixedRoute
		}
		rs.SetRoute(cmd.Route)
	}
	route := b.Driver.Route()
	if len(route) == 0 {
		return nil, fmt.Errorf("failed to start autodrive: %w", geo.ErrInvalidRoute)
	}

	ctrl, err := autodrive.NewController(b.Vehicle, b.Driver, b.Map, m.deps.Planner, m.log())
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}

	session := core.DriveSession{
		SessionID: m.deps.NewID(),
		Vehicle: core.Vehicle{
			ID:          b.Vehicle.ID(),
			DisplayName: b.Name,
			PartCount:   len(b.Vehicle.Parts()),
		},
		StartTime:   m.deps.Now(),
		Start:       b.Vehicle.Position(),
		Destination: route[len(route)-1],
		RouteLength: len(route),
	}
	if err := m.backend.StartSession(&session); err != nil {
		return nil, fmt.Errorf("failed to journal session: %w", err)
	}

	m.deps.Controllers.Add(cmd.VehicleID, &cache.Entry{
		SessionID:  session.SessionID,
		Vehicle:    session.Vehicle,
		Controller: ctrl,
		Source:     b.Vehicle,
		Driver:     b.Driver,
		Started:    session.StartTime,
	})
	if m.deps.LogManager != nil {
		m.deps.LogManager.SetSession(session.SessionID)
	}
	m.log().Info("Autodrive started", "vehicleId", cmd.VehicleID, "sessionId", session.SessionID,
		"destination", session.Destination.String(), "regions", len(route))
	return session.SessionID, nil
}

func (m *Manager) handleTurn(e dispatcher.Event) (any, error) {
	id, err := parser.ParseVehicleID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to run turn: %w", err)
	}
	entry, ok := m.deps.Controllers.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoController, id)
	}

	entry.Lock()
	defer entry.Unlock()

	state := m.snapshot(entry)
	res := entry.Controller.Step()
	state.Turn = res.Turn
	entry.Last = res
	m.turns.Inc()
	if m.deps.LogManager != nil {
		m.deps.LogManager.SetTurn(res.Turn)
	}

	for _, p := range res.Plans {
		m.recordPlan(entry.SessionID, res.Turn, state, p)
	}
	m.recordTurn(entry.SessionID, state, res)

	if res.State.Done() {
		m.finish(id, entry, res)
	}
	return res, nil
}

func (m *Manager) handleStop(e dispatcher.Event) (any, error) {
	id, err := parser.ParseVehicleID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to stop autodrive: %w", err)
	}
	entry, ok := m.deps.Controllers.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoController, id)
	}

	entry.Lock()
	defer entry.Unlock()
	entry.Controller.Stop()
	res := autodrive.TurnResult{
		Turn:    entry.Last.Turn,
		State:   entry.Controller.State(),
		Failure: entry.Controller.Failure(),
	}
	entry.Last = res
	m.finish(id, entry, res)
	return res.State.String(), nil
}

func (m *Manager) handleStatus(e dispatcher.Event) (any, error) {
	id, err := parser.ParseVehicleID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	entry, ok := m.deps.Controllers.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoController, id)
	}

	entry.Lock()
	st := m.snapshot(entry)
	status := Status{
		VehicleID: id,
		SessionID: entry.SessionID,
		State:     entry.Controller.State().String(),
		Failure:   entry.Controller.Failure().String(),
		Turn:      entry.Last.Turn,
		Position:  st.Position,
		Face:      st.Face,
		Velocity:  st.Velocity,
		PathLeft:  entry.Controller.PathLeft(),
		RouteLeft: len(entry.Driver.Route()),
		Message:   entry.Last.Message,
	}
	entry.Unlock()

	out, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}
	return string(out), nil
}

func (m *Manager) handleTelemetry(e dispatcher.Event) (any, error) {
	if m.deps.Telemetry == nil {
		return nil, nil
	}
	cmd, err := parser.ParseTelemetry(e.Args)
	if err != nil {
		return nil, err
	}
	bucket, point, err := influx.ParseMetric(cmd.Args)
	if err != nil {
		return nil, err
	}
	if point.Time().IsZero() {
		point.SetTime(m.deps.Now())
	}
	return nil, m.deps.Telemetry.WritePoint(bucket, point)
}

func (m *Manager) snapshot(entry *cache.Entry) core.VehicleState {
	v := entry.Source
	st := core.VehicleState{
		VehicleID: v.ID(),
		Time:      m.deps.Now(),
		Position:  v.Position(),
		Face:      int(v.Face()),
		Velocity:  v.Velocity(),
	}
	if c, ok := v.(interface{ Cruise() int }); ok {
		st.Cruise = c.Cruise()
	}
	return st
}

func (m *Manager) recordPlan(sessionID string, turn uint, state core.VehicleState, p autodrive.PlanAttempt) {
	ev := core.PlanEvent{
		SessionID:     sessionID,
		Time:          state.Time,
		Turn:          turn,
		SpeedTPS:      p.Speed,
		NodesExplored: p.Nodes,
		Duration:      p.Duration,
		Success:       p.Success,
		Region:        geo.OMTOf(state.Position),
		Path:          p.Path,
	}
	if err := m.backend.RecordPlan(&ev); err != nil {
		m.log().Error("Failed to journal plan attempt", "error", err)
	}
	m.writePoint(influx.BucketPlans, influx.PlanPoint(ev))
}

func (m *Manager) recordTurn(sessionID string, state core.VehicleState, res autodrive.TurnResult) {
	ev := core.TurnEvent{
		SessionID:   sessionID,
		State:       state,
		Phase:       res.State.String(),
		Check:       res.Check.String(),
		TargetSpeed: res.TargetSpeed,
		SteerDelta:  res.SteerDelta,
		PathLeft:    res.PathLeft,
		Rebuilt:     res.Rebuilt,
	}
	if err := m.backend.RecordTurn(&ev); err != nil {
		m.log().Error("Failed to journal turn", "error", err)
	}
	m.writePoint(influx.BucketTurns, influx.TurnPoint(ev))
}

// finish journals the outcome and forgets the activity. Callers hold the
// entry lock.
func (m *Manager) finish(id int, entry *cache.Entry, res autodrive.TurnResult) {
	outcome := core.OutcomeEvent{
		SessionID: entry.SessionID,
		Time:      m.deps.Now(),
		Turn:      res.Turn,
		Outcome:   res.State.String(),
		Failure:   res.Failure.String(),
		Message:   res.Message,
		Braked:    res.Braked,
	}
	if err := m.backend.EndSession(&outcome); err != nil {
		m.log().Error("Failed to journal outcome", "sessionId", entry.SessionID, "error", err)
	}
	m.writePoint(influx.BucketTurns, influx.OutcomePoint(outcome))

	m.deps.Controllers.Remove(id, entry)
	m.log().Info("Autodrive session closed", "vehicleId", id, "outcome", outcome.Outcome,
		"failure", outcome.Failure, "turns", res.Turn)
	if m.deps.LogManager != nil {
		m.deps.LogManager.SetSession("")
	}
}

func (m *Manager) writePoint(bucket string, p *influxdb2_write.Point) {
	if m.deps.Telemetry == nil {
		return
	}
	if err := m.deps.Telemetry.WritePoint(bucket, p); err != nil {
		m.log().Debug("Telemetry write failed", "bucket", bucket, "error", err)
	}
}
