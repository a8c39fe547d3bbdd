// Package autodrive plans and executes point-to-point vehicle travel across
// a sequence of map regions, one turn at a time.
package autodrive

import (
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// Part is one rigid vehicle part. Mount is its offset in the vehicle frame,
// where the vehicle faces east.
type Part struct {
	Mount         core.Point
	Removed       bool
	RotorDiameter int // 0 for parts without a rotor
}

// Capabilities says which kinds of terrain the vehicle can travel on.
type Capabilities struct {
	Land  bool
	Water bool
	Air   bool
}

// Vehicle is the read side of the driven vehicle. Speeds are in tiles per turn.
type Vehicle interface {
	ID() int
	Parts() []Part
	PivotMount() core.Point
	// Position is the world position of the pivot.
	Position() core.Tripoint
	Face() geo.Orientation
	// RaySteps is the number of steps taken on the current heading since the
	// last heading change.
	RaySteps() int
	Velocity() int
	SafeVelocity() int
	// Acceleration is the speed gained in one turn when driving at speed.
	Acceleration(speed int) int
	MaxSteer() int
	Capabilities() Capabilities
	IsSkidding() bool
}

// Driver is the occupant at the controls. Steering and throttle go through
// the driver so they consume the driver's action budget.
type Driver interface {
	Sees(p core.Tripoint) bool
	HasMemory(p core.Tripoint) bool
	InControl() bool
	MovesLeft() int
	// Steer turns the wheel one increment; dir is -1 (left) or 1 (right).
	Steer(dir int)
	SetCruise(tps int)
	// Route is the queue of map regions still to visit, next first.
	Route() []core.Tripoint
	PopRoute()
}

// Tile is what the planner needs to know about one map cell.
type Tile struct {
	VehicleID         int // 0 when no vehicle occupies the cell
	Null              bool
	OpenAir           bool
	Swimmable         bool
	Liquid            bool
	MoveCost          int
	NoCollide         bool
	Bashable          bool // bashable and not a floor
	RampUp            bool
	RampDown          bool
	FurnitureMoveCost int
	Creature          bool
	Trap              bool
}

// Map answers terrain queries.
type Map interface {
	Tile(p core.Tripoint) Tile
}
