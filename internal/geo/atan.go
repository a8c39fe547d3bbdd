package geo

import "math"

// atanRatioScale quantises the |minor|/|major| ratio used as the table key.
const atanRatioScale = 1024

// octantUnits maps a quantised ratio in [0, 1] to whole increments in [0, 3].
var octantUnits = buildOctantUnits()

func buildOctantUnits() [atanRatioScale + 1]int8 {
	var t [atanRatioScale + 1]int8
	for q := range t {
		deg := math.Atan(float64(q)/atanRatioScale) * 180 / math.Pi
		t[q] = int8(math.Round(deg / TurningIncrement))
	}
	return t
}

// ApproxOrientation approximates atan2(dy, dx) as a heading using integer
// arithmetic and a lookup table. The result is within one increment of the
// exact heading. The zero vector yields 0.
func ApproxOrientation(dx, dy int) Orientation {
	if dx == 0 && dy == 0 {
		return 0
	}
	ax, ay := abs(dx), abs(dy)

	// a is the angle from the +x axis, folded into the first quadrant
	var a int
	if ay <= ax {
		a = int(octantUnits[ay*atanRatioScale/ax])
	} else {
		a = NumOrientations/4 - int(octantUnits[ax*atanRatioScale/ay])
	}

	switch {
	case dx >= 0 && dy >= 0:
		return Normalize(a)
	case dx < 0 && dy >= 0:
		return Normalize(NumOrientations/2 - a)
	case dx < 0:
		return Normalize(NumOrientations/2 + a)
	default:
		return Normalize(NumOrientations - a)
	}
}
