package scenario

import (
	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// Vehicle is a simulated rigid vehicle. It turns and changes speed at the
// start of its move and then advances along its heading one tile at a time.
type Vehicle struct {
	spec     VehicleSpec
	pos      core.Tripoint
	face     geo.Orientation
	raySteps int
	velocity int
	cruise   int
	steer    int
	skidding bool
	crashed  bool
	profiles [geo.NumOrientations]autodrive.Profile
}

// NewVehicle places a vehicle as described by spec.
func NewVehicle(spec VehicleSpec) *Vehicle {
	v := &Vehicle{spec: spec, pos: spec.Start, face: spec.Face}
	for o := range geo.NumOrientations {
		v.profiles[o] = autodrive.ComputeProfile(spec.Parts, spec.Pivot, geo.Orientation(o))
	}
	return v
}

func (v *Vehicle) ID() int                              { return v.spec.ID }
func (v *Vehicle) Parts() []autodrive.Part              { return v.spec.Parts }
func (v *Vehicle) PivotMount() core.Point               { return v.spec.Pivot }
func (v *Vehicle) Position() core.Tripoint              { return v.pos }
func (v *Vehicle) Face() geo.Orientation                { return v.face }
func (v *Vehicle) RaySteps() int                        { return v.raySteps }
func (v *Vehicle) Velocity() int                        { return v.velocity }
func (v *Vehicle) Cruise() int                          { return v.cruise }
func (v *Vehicle) SafeVelocity() int                    { return v.spec.Speed }
func (v *Vehicle) MaxSteer() int                        { return v.spec.MaxSteer }
func (v *Vehicle) IsSkidding() bool                     { return v.skidding }
func (v *Vehicle) Crashed() bool                        { return v.crashed }
func (v *Vehicle) Name() string                         { return v.spec.Name }
func (v *Vehicle) SetSkidding(skidding bool)            { v.skidding = skidding }
func (v *Vehicle) Capabilities() autodrive.Capabilities { return v.spec.Caps }

// Acceleration is constant across speeds.
func (v *Vehicle) Acceleration(int) int {
	return v.spec.Acceleration
}

func (v *Vehicle) turn(dir int) {
	v.steer += dir
}

func (v *Vehicle) setCruise(tps int) {
	v.cruise = min(tps, v.spec.Speed)
}

// move runs the vehicle's part of a turn.
func (v *Vehicle) move(w *World) {
	if v.steer != 0 {
		v.face = v.face.Add(v.steer)
		v.raySteps = 0
		v.steer = 0
	}
	if v.velocity < v.cruise {
		v.velocity = min(v.cruise, v.velocity+v.spec.Acceleration)
	} else {
		v.velocity = v.cruise
	}

	ray := v.profiles[v.face].Ray
	for range v.velocity {
		next := v.pos.XY().Add(ray.StepAt(v.raySteps + 1))
		z, ok := v.landing(w, next)
		if !ok {
			v.velocity, v.cruise = 0, 0
			v.crashed = true
			return
		}
		v.pos = core.At(next, z)
		v.raySteps++
	}
}

// landing finds the level the pivot ends up on at cell p, following a ramp
// under the vehicle when the current level is blocked.
func (v *Vehicle) landing(w *World, p core.Point) (int, bool) {
	levels := []int{v.pos.Z}
	under := w.Tile(v.pos)
	if under.RampUp {
		levels = append(levels, v.pos.Z+1)
	}
	if under.RampDown {
		levels = append(levels, v.pos.Z-1)
	}
	for _, z := range levels {
		if v.fits(w, core.At(p, z)) {
			return z, true
		}
	}
	return 0, false
}

func (v *Vehicle) fits(w *World, pivot core.Tripoint) bool {
	for _, d := range v.profiles[v.face].Occupied {
		if blocks(w.Tile(core.At(pivot.XY().Add(d), pivot.Z)), v.spec.ID) {
			return false
		}
	}
	return true
}
