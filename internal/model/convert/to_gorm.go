// Package convert maps journal records between core types and GORM models.
package convert

import (
	"encoding/json"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/internal/model"
	"github.com/OCAP2/autodrive/pkg/core"
	"gorm.io/datatypes"
)

// toJSON marshals plain data; the journal types always marshal.
func toJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

// CoreToDriveSession converts a core.DriveSession to a GORM model.
func CoreToDriveSession(s core.DriveSession) model.DriveSession {
	return model.DriveSession{
		ID:          s.ID,
		SessionID:   s.SessionID,
		StartTime:   s.StartTime,
		VehicleID:   s.Vehicle.ID,
		VehicleName: s.Vehicle.DisplayName,
		PartCount:   s.Vehicle.PartCount,
		Start:       toJSON(s.Start),
		Destination: toJSON(s.Destination),
		RouteLength: s.RouteLength,
	}
}

// CoreToPlanAttempt converts a core.PlanEvent to a GORM model.
func CoreToPlanAttempt(p core.PlanEvent) model.PlanAttempt {
	path := p.Path
	if path == nil {
		path = []core.Tripoint{}
	}
	// empty when the steps share one XY cell; Path still keeps every step
	wkt, _ := geo.PathWKT(p.Path)
	return model.PlanAttempt{
		SessionID:      p.SessionID,
		Time:           p.Time,
		Turn:           p.Turn,
		SpeedTPS:       p.SpeedTPS,
		NodesExplored:  p.NodesExplored,
		DurationMicros: p.Duration.Microseconds(),
		Success:        p.Success,
		Region:         toJSON(p.Region),
		Path:           toJSON(path),
		PathWKT:        wkt,
	}
}

// CoreToTurnRecord converts a core.TurnEvent to a GORM model.
func CoreToTurnRecord(t core.TurnEvent) model.TurnRecord {
	s := t.State
	return model.TurnRecord{
		SessionID:   t.SessionID,
		Turn:        s.Turn,
		Time:        s.Time,
		VehicleID:   s.VehicleID,
		X:           s.Position.X,
		Y:           s.Position.Y,
		Z:           s.Position.Z,
		Face:        s.Face,
		Velocity:    s.Velocity,
		Cruise:      s.Cruise,
		Phase:       t.Phase,
		Check:       t.Check,
		TargetSpeed: t.TargetSpeed,
		SteerDelta:  t.SteerDelta,
		PathLeft:    t.PathLeft,
		Rebuilt:     t.Rebuilt,
	}
}

// CoreToOutcome converts a core.OutcomeEvent to a GORM model.
func CoreToOutcome(o core.OutcomeEvent) model.Outcome {
	return model.Outcome{
		SessionID: o.SessionID,
		Time:      o.Time,
		Turn:      o.Turn,
		Outcome:   o.Outcome,
		Failure:   o.Failure,
		Message:   o.Message,
		Braked:    o.Braked,
	}
}
