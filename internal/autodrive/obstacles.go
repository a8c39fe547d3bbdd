package autodrive

import (
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/internal/queue"
	"github.com/OCAP2/autodrive/pkg/core"
)

// world bundles the collaborators queried while building obstacle grids.
type world struct {
	vehicleID int
	driver    Driver
	m         Map
}

// CheckDrivable decides whether the vehicle body may touch world cell p.
// currentOMT is the region the vehicle is in; unseen cells there are
// treated as blocked.
func CheckDrivable(m Map, d Driver, vehicleID int, caps Capabilities, currentOMT core.Tripoint, p core.Tripoint) bool {
	t := m.Tile(p)
	if t.VehicleID != 0 && t.VehicleID != vehicleID {
		return false
	}
	if geo.OMTOf(p).XY() == currentOMT.XY() &&
		!d.Sees(p) && !d.HasMemory(p) && !(caps.Air && t.OpenAir) {
		return false
	}
	if t.Creature && d.Sees(p) {
		return false
	}
	if t.Trap && d.Sees(p) {
		return false
	}
	if t.FurnitureMoveCost > 0 {
		return false
	}
	if t.Null {
		return false
	}
	if t.OpenAir {
		return caps.Air
	}
	if caps.Water && (t.Swimmable || t.Liquid) {
		return true
	}
	return caps.Land &&
		(t.MoveCost == 2 || t.NoCollide) &&
		!t.Bashable && !t.Liquid
}

func (w world) drivable(nd *navData, p core.Tripoint) bool {
	return CheckDrivable(w.m, w.driver, w.vehicleID, nd.caps, nd.regions.Current, p)
}

type rampCell struct {
	view core.Point
	z    int
}

var neighbours4 = [4]core.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// buildObstacles fills the view-buffer grids from the world at the current
// level, then walks ramps to find cells drivable on another level.
func (nd *navData) buildObstacles(w world) {
	base := nd.regions.Current.Z
	seeds := queue.New[rampCell]()
	visited := make([]bool, viewWidth*viewHeight)

	for y := range viewHeight {
		for x := range viewWidth {
			v := core.Point{X: x, Y: y}
			p := core.At(nd.viewToMap.Point(v), base)
			ok := w.drivable(nd, p)
			i := viewIndex(v)
			nd.obstacle[i] = !ok
			nd.groundZ[i] = base
			if !ok {
				continue
			}
			if t := w.m.Tile(p); t.RampUp || t.RampDown {
				visited[i] = true
				seeds.Push(rampCell{view: v, z: base})
			}
		}
	}

	for !seeds.Empty() {
		c, _ := seeds.Pop()
		here := w.m.Tile(core.At(nd.viewToMap.Point(c.view), c.z))

		var levels []int
		if c.z != base {
			levels = append(levels, c.z)
		}
		if here.RampUp {
			levels = append(levels, c.z+1)
		}
		if here.RampDown {
			levels = append(levels, c.z-1)
		}
		if len(levels) == 0 {
			continue
		}

		for _, d := range neighbours4 {
			n := c.view.Add(d)
			if !nd.viewBounds.Contains(n) {
				continue
			}
			i := viewIndex(n)
			if visited[i] || !nd.obstacle[i] {
				continue
			}
			wp := nd.viewToMap.Point(n)
			for _, z := range levels {
				if w.drivable(nd, core.At(wp, z)) {
					visited[i] = true
					nd.obstacle[i] = false
					nd.groundZ[i] = z
					seeds.Push(rampCell{view: n, z: z})
					break
				}
			}
		}
	}
}
