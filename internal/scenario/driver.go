package scenario

import (
	"github.com/OCAP2/autodrive/pkg/core"
)

const (
	movesPerTurn = 100
	steerCost    = 10
)

// Driver is a simulated driver with a square field of view and a perfect
// memory of every cell it has seen.
type Driver struct {
	vehicle   *Vehicle
	sight     int
	route     []core.Tripoint
	memory    map[core.Tripoint]bool
	moves     int
	inControl bool
}

// NewDriver seats a driver in v.
func NewDriver(v *Vehicle, sight int, route []core.Tripoint) *Driver {
	return &Driver{
		vehicle:   v,
		sight:     sight,
		route:     append([]core.Tripoint(nil), route...),
		memory:    map[core.Tripoint]bool{},
		inControl: true,
	}
}

// Sees reports whether p is within sight of the vehicle, one level up or down at most.
func (d *Driver) Sees(p core.Tripoint) bool {
	at := d.vehicle.Position()
	dz := p.Z - at.Z
	return dz >= -1 && dz <= 1 &&
		max(abs(p.X-at.X), abs(p.Y-at.Y)) <= d.sight
}

func (d *Driver) HasMemory(p core.Tripoint) bool { return d.memory[p] }
func (d *Driver) InControl() bool                { return d.inControl }
func (d *Driver) MovesLeft() int                 { return d.moves }
func (d *Driver) Route() []core.Tripoint         { return d.route }

// SetInControl toggles whether the driver can operate the vehicle.
func (d *Driver) SetInControl(ok bool) { d.inControl = ok }

// SetRoute replaces the remaining route.
func (d *Driver) SetRoute(route []core.Tripoint) {
	d.route = append([]core.Tripoint(nil), route...)
}

func (d *Driver) PopRoute() {
	if len(d.route) > 0 {
		d.route = d.route[1:]
	}
}

func (d *Driver) Steer(dir int) {
	d.vehicle.turn(dir)
	d.moves -= steerCost
}

func (d *Driver) SetCruise(tps int) {
	d.vehicle.setCruise(tps)
}

// look memorises everything currently in sight on the vehicle's level.
func (d *Driver) look() {
	at := d.vehicle.Position()
	for y := at.Y - d.sight; y <= at.Y+d.sight; y++ {
		for x := at.X - d.sight; x <= at.X+d.sight; x++ {
			d.memory[core.Tripoint{X: x, Y: y, Z: at.Z}] = true
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
