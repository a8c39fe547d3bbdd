package geo

import "github.com/OCAP2/autodrive/pkg/core"

// OMTSize is the edge length of a map region (overmap tile) in tiles.
const OMTSize = 24

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// OMTOf returns the map region containing tile p.
func OMTOf(p core.Tripoint) core.Tripoint {
	return core.Tripoint{X: floorDiv(p.X, OMTSize), Y: floorDiv(p.Y, OMTSize), Z: p.Z}
}

// OMTOrigin returns the north-west tile of region omt.
func OMTOrigin(omt core.Tripoint) core.Tripoint {
	return core.Tripoint{X: omt.X * OMTSize, Y: omt.Y * OMTSize, Z: omt.Z}
}

// OMTDirection returns the rotation that turns east into the step from one
// region to a horizontally adjacent one. ok is false when the regions are not
// orthogonal neighbours.
func OMTDirection(from, to core.Tripoint) (QuadRotation, bool) {
	d := to.XY().Sub(from.XY())
	switch d {
	case core.Point{X: 1}:
		return Rot0, true
	case core.Point{Y: 1}:
		return Rot90, true
	case core.Point{X: -1}:
		return Rot180, true
	case core.Point{Y: -1}:
		return Rot270, true
	}
	return Rot0, false
}
