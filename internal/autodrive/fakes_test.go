package autodrive

import (
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

var (
	pavement = Tile{MoveCost: 2}
	wall     = Tile{Bashable: true}
	water    = Tile{Swimmable: true, Liquid: true, MoveCost: 8}
	nothing  = Tile{Null: true}
)

// fakeMap is pavement on level 0 and null terrain elsewhere, unless a
// tile is set explicitly.
type fakeMap struct {
	tiles map[core.Tripoint]Tile
}

func newFakeMap() *fakeMap {
	return &fakeMap{tiles: map[core.Tripoint]Tile{}}
}

func (m *fakeMap) Tile(p core.Tripoint) Tile {
	if t, ok := m.tiles[p]; ok {
		return t
	}
	if p.Z == 0 {
		return pavement
	}
	return nothing
}

func (m *fakeMap) set(x, y, z int, t Tile) {
	m.tiles[core.Tripoint{X: x, Y: y, Z: z}] = t
}

type fakeDriver struct {
	unseen    map[core.Tripoint]bool
	memory    map[core.Tripoint]bool
	lost      bool
	moves     int
	route     []core.Tripoint
	steers    []int
	cruise    int
	cruiseSet bool
}

func newFakeDriver(route ...core.Tripoint) *fakeDriver {
	return &fakeDriver{
		unseen: map[core.Tripoint]bool{},
		memory: map[core.Tripoint]bool{},
		moves:  100,
		route:  route,
	}
}

func (d *fakeDriver) Sees(p core.Tripoint) bool      { return !d.unseen[p] }
func (d *fakeDriver) HasMemory(p core.Tripoint) bool { return d.memory[p] }
func (d *fakeDriver) InControl() bool                { return !d.lost }
func (d *fakeDriver) MovesLeft() int                 { return d.moves }
func (d *fakeDriver) Route() []core.Tripoint         { return d.route }
func (d *fakeDriver) PopRoute()                      { d.route = d.route[1:] }

func (d *fakeDriver) Steer(dir int) {
	d.steers = append(d.steers, dir)
	d.moves -= 10
}

func (d *fakeDriver) SetCruise(tps int) {
	d.cruise = tps
	d.cruiseSet = true
}

type fakeVehicle struct {
	id       int
	parts    []Part
	pivot    core.Point
	pos      core.Tripoint
	face     geo.Orientation
	raySteps int
	velocity int
	safe     int
	accel    int
	caps     Capabilities
	skidding bool
}

func newFakeVehicle(pos core.Tripoint, face geo.Orientation) *fakeVehicle {
	return &fakeVehicle{
		id:    7,
		parts: []Part{{Mount: core.Point{}}},
		pos:   pos,
		face:  face,
		safe:  3,
		accel: 1,
		caps:  Capabilities{Land: true},
	}
}

func (v *fakeVehicle) ID() int                    { return v.id }
func (v *fakeVehicle) Parts() []Part              { return v.parts }
func (v *fakeVehicle) PivotMount() core.Point     { return v.pivot }
func (v *fakeVehicle) Position() core.Tripoint    { return v.pos }
func (v *fakeVehicle) Face() geo.Orientation      { return v.face }
func (v *fakeVehicle) RaySteps() int              { return v.raySteps }
func (v *fakeVehicle) Velocity() int              { return v.velocity }
func (v *fakeVehicle) SafeVelocity() int          { return v.safe }
func (v *fakeVehicle) Acceleration(int) int       { return v.accel }
func (v *fakeVehicle) MaxSteer() int              { return 1 }
func (v *fakeVehicle) Capabilities() Capabilities { return v.caps }
func (v *fakeVehicle) IsSkidding() bool           { return v.skidding }

// lineParts lays out n parts in a row along the vehicle axis, centred on
// the origin.
func lineParts(n int) []Part {
	parts := make([]Part, n)
	for i := range parts {
		parts[i] = Part{Mount: core.Point{X: i - n/2}}
	}
	return parts
}

// testNav builds a session cache for travel east from region (0,0) to (1,0)
// with every view cell blocked except where open returns true for the nav
// cell.
func testNav(parts []Part, open func(p core.Point) bool) *navData {
	nd, _ := newNavData(regionKey{Next: core.Tripoint{X: 1}})
	nd.caps = Capabilities{Land: true}
	nd.accel = []int{1}
	for y := range viewHeight {
		for x := range viewWidth {
			v := core.Point{X: x, Y: y}
			nav := v.Sub(core.Point{X: viewPadding, Y: viewPadding})
			nd.setObstacle(v, !open(nav))
		}
	}
	nd.setProfiles(parts, core.Point{})
	nd.computeValid()
	nd.computeGoal()
	return nd
}
