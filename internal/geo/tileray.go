package geo

import (
	"math"

	"github.com/OCAP2/autodrive/pkg/core"
)

// unitStepSamples is how many steps UnitStep simulates before reducing to signs.
const unitStepSamples = 1000

// minorSlopes holds |tan| of the first four headings of a quadrant. Headings
// 4 and 5 reuse entries 2 and 1 with the axes swapped, which keeps the step
// pattern identical under quarter turns.
var minorSlopes = [4]float64{
	0,
	math.Tan(15 * math.Pi / 180),
	math.Tan(30 * math.Pi / 180),
	1,
}

// Tileray walks a discrete heading across the tile grid. Every step advances
// one tile along the major axis; the minor axis advances whenever the rounded
// cumulative offset changes.
type Tileray struct {
	Dir   Orientation
	major core.Point
	minor core.Point
	slope float64
}

// NewTileray builds the ray for heading o.
func NewTileray(o Orientation) Tileray {
	o = Normalize(int(o))
	quarter := QuadRotation(int(o) / 6)
	local := int(o) % 6

	major, minor := core.Point{X: 1}, core.Point{Y: 1}
	slope := 0.0
	if local <= 3 {
		slope = minorSlopes[local]
	} else {
		major, minor = minor, major
		slope = minorSlopes[6-local]
	}
	return Tileray{
		Dir:   o,
		major: quarter.Vector(major),
		minor: quarter.Vector(minor),
		slope: slope,
	}
}

// StepAt returns the displacement of the k-th step (k >= 1) of the ray.
func (t Tileray) StepAt(k int) core.Point {
	n := int(math.Round(float64(k)*t.slope) - math.Round(float64(k-1)*t.slope))
	return core.Point{X: t.major.X + t.minor.X*n, Y: t.major.Y + t.minor.Y*n}
}

// Advance moves n steps from p, given that done steps were already taken on
// this heading.
func (t Tileray) Advance(p core.Point, done, n int) core.Point {
	for k := done + 1; k <= done+n; k++ {
		p = p.Add(t.StepAt(k))
	}
	return p
}

// UnitStep reduces a long walk to a per-axis sign: the tiles a body can enter
// first when it moves one step along the ray.
func (t Tileray) UnitStep() core.Point {
	end := t.Advance(core.Point{}, 0, unitStepSamples)
	return core.Point{X: sign(end.X), Y: sign(end.Y)}
}

// Vector returns the continuous direction of the heading.
func (t Tileray) Vector() (dx, dy float64) {
	r := t.Dir.Radians()
	return math.Cos(r), math.Sin(r)
}
