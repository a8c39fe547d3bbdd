package autodrive

import (
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// goalFan is how far, in heading increments, a goal placement may deviate
// from the finish-line heading.
const goalFan = 3

// computeGoal sets the finish line in the next region. When the region after
// next lies to the side, the line is the edge shared with it; otherwise it is
// the far edge of next.
func (nd *navData) computeGoal() {
	turn := geo.Rot0
	if nd.regions.HasNextNext {
		if second, ok := geo.OMTDirection(nd.regions.Next, nd.regions.NextNext); ok {
			turn = (second - nd.navToMap.Rot + 4) % 4
		}
	}

	var line []core.Point
	switch turn {
	case geo.Rot90:
		nd.goalHeading = 6
		for x := geo.OMTSize; x < navWidth; x++ {
			line = append(line, core.Point{X: x, Y: navHeight - 1})
		}
	case geo.Rot270:
		nd.goalHeading = 18
		for x := geo.OMTSize; x < navWidth; x++ {
			line = append(line, core.Point{X: x})
		}
	default:
		nd.goalHeading = 0
		for y := range navHeight {
			line = append(line, core.Point{X: navWidth - 1, Y: y})
		}
	}

	nd.goalPoints[0] = core.Point{X: geo.OMTSize, Y: navHeight / 2}
	nd.goalPoints[1] = line[len(line)/2]

	clear(nd.goalZone)
	for d := -goalFan; d <= goalFan; d++ {
		o := nd.goalHeading.Add(d)
		for _, p := range line {
			if nd.isValid(o, p) {
				nd.goalZone[NodeAddress{X: int16(p.X), Y: int16(p.Y), Facing: o}] = true
			}
		}
	}
}
