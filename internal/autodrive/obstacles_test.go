package autodrive

import (
	"testing"

	"github.com/OCAP2/autodrive/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDrivable(t *testing.T) {
	land := Capabilities{Land: true}
	current := core.Tripoint{}
	p := core.Tripoint{X: 5, Y: 5}

	tests := []struct {
		name string
		tile Tile
		caps Capabilities
		want bool
	}{
		{"pavement", pavement, land, true},
		{"grass is not free passage", Tile{MoveCost: 3}, land, false},
		{"no collide terrain", Tile{MoveCost: 4, NoCollide: true}, land, true},
		{"own vehicle", Tile{MoveCost: 2, VehicleID: 7}, land, true},
		{"other vehicle", Tile{MoveCost: 2, VehicleID: 9}, land, false},
		{"creature", Tile{MoveCost: 2, Creature: true}, land, false},
		{"trap", Tile{MoveCost: 2, Trap: true}, land, false},
		{"furniture", Tile{MoveCost: 2, FurnitureMoveCost: 3}, land, false},
		{"null", nothing, Capabilities{Land: true, Water: true, Air: true}, false},
		{"wall", wall, land, false},
		{"liquid on land", Tile{MoveCost: 2, Liquid: true}, land, false},
		{"water by boat", water, Capabilities{Water: true}, true},
		{"water by car", water, land, false},
		{"open air flying", Tile{OpenAir: true}, Capabilities{Air: true}, true},
		{"open air driving", Tile{OpenAir: true, MoveCost: 2}, land, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeMap()
			m.tiles[p] = tt.tile
			got := CheckDrivable(m, newFakeDriver(), 7, tt.caps, current, p)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckDrivable_FogOnlyInCurrentRegion(t *testing.T) {
	m := newFakeMap()
	d := newFakeDriver()
	land := Capabilities{Land: true}
	inside := core.Tripoint{X: 5, Y: 5}
	outside := core.Tripoint{X: 30, Y: 5}
	d.unseen[inside] = true
	d.unseen[outside] = true

	assert.False(t, CheckDrivable(m, d, 7, land, core.Tripoint{}, inside))
	assert.True(t, CheckDrivable(m, d, 7, land, core.Tripoint{}, outside))

	d.memory[inside] = true
	assert.True(t, CheckDrivable(m, d, 7, land, core.Tripoint{}, inside))
}

func TestCheckDrivable_UnseenCreatureIgnored(t *testing.T) {
	m := newFakeMap()
	d := newFakeDriver()
	p := core.Tripoint{X: 30, Y: 5}
	m.tiles[p] = Tile{MoveCost: 2, Creature: true}
	d.unseen[p] = true
	assert.True(t, CheckDrivable(m, d, 7, Capabilities{Land: true}, core.Tripoint{}, p))
}

func TestCheckDrivable_LandOnlyMonotonic(t *testing.T) {
	m := newFakeMap()
	d := newFakeDriver()
	p := core.Tripoint{X: 3, Y: 3}
	require.True(t, CheckDrivable(m, d, 7, Capabilities{Land: true}, core.Tripoint{}, p))

	for _, caps := range []Capabilities{{Water: true}, {Air: true}, {Water: true, Air: true}} {
		nd, _ := newNavData(regionKey{Next: core.Tripoint{X: 1}})
		nd.caps = caps
		nd.buildObstacles(world{vehicleID: 7, driver: d, m: m})
		v := nd.viewToMap.Inverse().Point(p.XY())
		assert.True(t, nd.isObstacle(v), "caps %+v", caps)
	}

	nd, _ := newNavData(regionKey{Next: core.Tripoint{X: 1}})
	nd.caps = Capabilities{Land: true}
	nd.buildObstacles(world{vehicleID: 7, driver: d, m: m})
	assert.False(t, nd.isObstacle(nd.viewToMap.Inverse().Point(p.XY())))
}

func TestBuildObstacles_RampFloodFill(t *testing.T) {
	m := newFakeMap()
	// a raised block at x 10..12 reached by a ramp at (9,12)
	for y := -24; y < 48; y++ {
		for x := 10; x <= 12; x++ {
			m.set(x, y, 0, wall)
			m.set(x, y, 1, pavement)
		}
	}
	m.set(9, 12, 0, Tile{MoveCost: 2, RampUp: true})
	m.set(30, 5, 0, wall)

	nd, _ := newNavData(regionKey{Next: core.Tripoint{X: 1}})
	nd.caps = Capabilities{Land: true}
	nd.buildObstacles(world{vehicleID: 7, driver: newFakeDriver(), m: m})

	toView := nd.viewToMap.Inverse()
	at := func(x, y int) (bool, int) {
		v := toView.Point(core.Point{X: x, Y: y})
		return nd.isObstacle(v), nd.groundZ[viewIndex(v)]
	}

	blocked, z := at(10, 12)
	assert.False(t, blocked)
	assert.Equal(t, 1, z)

	blocked, z = at(12, 0)
	assert.False(t, blocked)
	assert.Equal(t, 1, z)

	// base ground meets the far edge of the deck; the grids carry no drop
	// between them
	blocked, z = at(13, 12)
	assert.False(t, blocked)
	assert.Equal(t, 0, z)

	blocked, _ = at(30, 5)
	assert.True(t, blocked)
}

func TestBuildObstacles_NoRampNoClimb(t *testing.T) {
	m := newFakeMap()
	m.set(10, 12, 0, wall)
	m.set(10, 12, 1, pavement)

	nd, _ := newNavData(regionKey{Next: core.Tripoint{X: 1}})
	nd.caps = Capabilities{Land: true}
	nd.buildObstacles(world{vehicleID: 7, driver: newFakeDriver(), m: m})

	assert.True(t, nd.isObstacle(nd.viewToMap.Inverse().Point(core.Point{X: 10, Y: 12})))
}
