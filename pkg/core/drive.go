// pkg/core/drive.go
package core

import "time"

// DriveSession is one autodrive activity from start to finish or abort.
type DriveSession struct {
	ID          uint
	SessionID   string
	Vehicle     Vehicle
	StartTime   time.Time
	Start       Tripoint
	Destination Tripoint // last OMT of the route
	RouteLength int
}

// PlanEvent records one planning attempt at a fixed target speed.
type PlanEvent struct {
	SessionID     string
	Time          time.Time
	Turn          uint
	SpeedTPS      int
	NodesExplored int
	Duration      time.Duration
	Success       bool
	Region        Tripoint // OMT the vehicle was in
	Path          []Tripoint
}

// TurnEvent records what the controller did in one turn.
type TurnEvent struct {
	SessionID   string
	State       VehicleState
	Phase       string // controller state after the turn
	Check       string
	TargetSpeed int
	SteerDelta  int
	PathLeft    int
	Rebuilt     bool
}

// OutcomeEvent closes a session.
type OutcomeEvent struct {
	SessionID string
	Time      time.Time
	Turn      uint
	Outcome   string // "finished" or "aborted"
	Failure   string
	Message   string
	Braked    bool
}
