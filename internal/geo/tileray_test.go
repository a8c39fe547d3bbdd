package geo

import (
	"testing"

	"github.com/OCAP2/autodrive/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestTileray_AxisSteps(t *testing.T) {
	tests := []struct {
		o    Orientation
		want core.Point
	}{
		{0, core.Point{X: 1}},
		{6, core.Point{Y: 1}},
		{12, core.Point{X: -1}},
		{18, core.Point{Y: -1}},
		{3, core.Point{X: 1, Y: 1}},
		{9, core.Point{X: -1, Y: 1}},
		{15, core.Point{X: -1, Y: -1}},
		{21, core.Point{X: 1, Y: -1}},
	}
	for _, tt := range tests {
		ray := NewTileray(tt.o)
		for k := 1; k <= 10; k++ {
			assert.Equal(t, tt.want, ray.StepAt(k), "orientation %d step %d", tt.o, k)
		}
		assert.Equal(t, tt.want, ray.UnitStep())
	}
}

func TestTileray_RotationInvariant(t *testing.T) {
	for o := 0; o < NumOrientations; o++ {
		base := NewTileray(Orientation(o))
		turned := NewTileray(Orientation(o).Add(6))
		for k := 1; k <= 48; k++ {
			assert.Equal(t, Rot90.Vector(base.StepAt(k)), turned.StepAt(k), "orientation %d step %d", o, k)
		}
	}
}

func TestTileray_AdvanceTracksHeading(t *testing.T) {
	ray := NewTileray(2)
	end := ray.Advance(core.Point{}, 0, 24)
	assert.Equal(t, 24, end.X)
	// tan(30deg) * 24 = 13.86
	assert.Equal(t, 14, end.Y)

	// splitting the walk keeps the same rounding
	mid := ray.Advance(core.Point{}, 0, 10)
	assert.Equal(t, end, ray.Advance(mid, 10, 14))
}

func TestTileray_UnitStepDiagonalish(t *testing.T) {
	assert.Equal(t, core.Point{X: 1, Y: 1}, NewTileray(1).UnitStep())
	assert.Equal(t, core.Point{X: 1, Y: 1}, NewTileray(5).UnitStep())
	assert.Equal(t, core.Point{X: -1, Y: -1}, NewTileray(13).UnitStep())
	assert.Equal(t, core.Point{X: 1, Y: -1}, NewTileray(23).UnitStep())
}
