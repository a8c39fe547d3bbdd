package geo

import (
	"testing"

	"github.com/OCAP2/autodrive/pkg/core"
	"github.com/stretchr/testify/assert"
)

var allRotations = []QuadRotation{Rot0, Rot90, Rot180, Rot270}

func TestCoordTransform_RoundTrip(t *testing.T) {
	for _, rot := range allRotations {
		tr := CoordTransform{Pre: core.Point{X: 3, Y: -7}, Rot: rot, Post: core.Point{X: 100, Y: 41}}
		inv := tr.Inverse()
		for x := -30; x <= 30; x++ {
			for y := -30; y <= 30; y++ {
				p := core.Point{X: x, Y: y}
				assert.Equal(t, p, inv.Point(tr.Point(p)), "rot %d p %s", rot.Degrees(), p)
			}
		}
	}
}

func TestQuadRotation_CellBlockNoDrift(t *testing.T) {
	const w, h = 5, 3
	for _, rot := range allRotations {
		seen := map[core.Point]bool{}
		minP := core.Point{X: 1 << 20, Y: 1 << 20}
		maxP := core.Point{X: -1 << 20, Y: -1 << 20}
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				q := rot.Cell(core.Point{X: x, Y: y})
				seen[q] = true
				minP.X, minP.Y = min(minP.X, q.X), min(minP.Y, q.Y)
				maxP.X, maxP.Y = max(maxP.X, q.X), max(maxP.Y, q.Y)
			}
		}
		assert.Len(t, seen, w*h)
		gotW, gotH := maxP.X-minP.X+1, maxP.Y-minP.Y+1
		if rot == Rot90 || rot == Rot270 {
			assert.Equal(t, h, gotW)
			assert.Equal(t, w, gotH)
		} else {
			assert.Equal(t, w, gotW)
			assert.Equal(t, h, gotH)
		}
	}
}

func TestCoordTransform_Then(t *testing.T) {
	a := CoordTransform{Pre: core.Point{X: 1, Y: 2}, Rot: Rot90, Post: core.Point{X: 10, Y: 0}}
	for _, rot := range allRotations {
		b := CoordTransform{Pre: core.Point{X: -4, Y: 6}, Rot: rot, Post: core.Point{X: 0, Y: 33}}
		ab := a.Then(b)
		for x := -10; x <= 10; x++ {
			for y := -10; y <= 10; y++ {
				p := core.Point{X: x, Y: y}
				assert.Equal(t, b.Point(a.Point(p)), ab.Point(p))
			}
		}
		assert.Equal(t, b.Orientation(a.Orientation(5)), ab.Orientation(5))
	}
}

func TestCoordTransform_OrientationMatchesVector(t *testing.T) {
	for _, rot := range allRotations {
		tr := CoordTransform{Rot: rot}
		for o := Orientation(0); o < NumOrientations; o++ {
			want := tr.Vector(NewTileray(o).StepAt(1))
			assert.Equal(t, want, NewTileray(tr.Orientation(o)).StepAt(1))
		}
	}
}

func TestRect(t *testing.T) {
	r := NewRect(core.Point{X: 2, Y: 3}, 4, 2)
	assert.True(t, r.Contains(core.Point{X: 2, Y: 3}))
	assert.True(t, r.Contains(core.Point{X: 5, Y: 4}))
	assert.False(t, r.Contains(core.Point{X: 6, Y: 4}))
	assert.False(t, r.Contains(core.Point{X: 5, Y: 5}))
	assert.False(t, r.Contains(core.Point{X: 1, Y: 3}))
	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 2, r.Height())
}

func TestOMT(t *testing.T) {
	assert.Equal(t, core.Tripoint{X: 0, Y: 0}, OMTOf(core.Tripoint{X: 23, Y: 0}))
	assert.Equal(t, core.Tripoint{X: 1, Y: 0}, OMTOf(core.Tripoint{X: 24, Y: 5}))
	assert.Equal(t, core.Tripoint{X: -1, Y: -1, Z: 2}, OMTOf(core.Tripoint{X: -1, Y: -24, Z: 2}))
	assert.Equal(t, core.Tripoint{X: -2, Y: -1}, OMTOf(core.Tripoint{X: -25, Y: -1}))
	assert.Equal(t, core.Tripoint{X: -24, Y: 48}, OMTOrigin(core.Tripoint{X: -1, Y: 2}))

	rot, ok := OMTDirection(core.Tripoint{}, core.Tripoint{Y: -1})
	assert.True(t, ok)
	assert.Equal(t, Rot270, rot)
	_, ok = OMTDirection(core.Tripoint{}, core.Tripoint{X: 1, Y: 1})
	assert.False(t, ok)
}
