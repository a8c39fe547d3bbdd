package autodrive

import (
	"github.com/OCAP2/autodrive/pkg/core"
)

// checkCollision walks the leading edge of the body along step's heading for
// the distance the vehicle may cover this turn. Problems in the first step
// are fatal; problems further out only call for slowing down.
func (c *Controller) checkCollision(step NavigationStep) CollisionCheck {
	pos := c.vehicle.Position()
	done := 0
	if step.SteeringDir == c.vehicle.Face() {
		done = c.vehicle.RaySteps()
	}
	prof := c.nav.profiles[step.SteeringDir]
	travel := max(1, abs(c.vehicle.Velocity()), step.TargetSpeed)

	p := pos.XY()
	for i := 1; i <= travel; i++ {
		p = p.Add(prof.Ray.StepAt(done + i))
		for _, cp := range prof.CollisionPoints {
			seen, clear := c.probe(p.Add(cp), pos)
			if clear {
				continue
			}
			switch {
			case i > 1:
				return CheckSlowDown
			case !seen:
				return CheckNoVisibility
			default:
				return CheckCloseObstacle
			}
		}
	}
	return CheckOK
}

// probe looks at a cell on every level it could be driven on from pos: the
// mapped ground level, the vehicle's level, and the level a ramp under the
// vehicle leads to. clear is true when some visible level is drivable.
func (c *Controller) probe(cell core.Point, pos core.Tripoint) (seen, clear bool) {
	levels := []int{pos.Z}
	if g, ok := c.nav.groundAt(cell); ok && g != pos.Z {
		levels = append([]int{g}, levels...)
	}
	under := c.m.Tile(pos)
	if under.RampUp {
		levels = append(levels, pos.Z+1)
	}
	if under.RampDown {
		levels = append(levels, pos.Z-1)
	}
	caps := c.nav.caps
	for _, lz := range levels {
		p := core.At(cell, lz)
		if !c.driver.Sees(p) {
			continue
		}
		seen = true
		if CheckDrivable(c.m, c.driver, c.vehicle.ID(), caps, c.nav.regions.Current, p) {
			return true, true
		}
	}
	return seen, false
}
