package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   int
		want Orientation
	}{
		{0, 0}, {23, 23}, {24, 0}, {25, 1}, {-1, 23}, {-24, 0}, {-25, 23}, {49, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%d)", tt.in)
	}
}

func TestOrientation_Closure(t *testing.T) {
	for a := 0; a < NumOrientations; a++ {
		for b := 0; b < NumOrientations; b++ {
			oa, ob := Orientation(a), Orientation(b)
			sum := oa.Plus(ob)
			assert.GreaterOrEqual(t, int(sum), 0)
			assert.Less(t, int(sum), NumOrientations)
			assert.Equal(t, oa, sum.Minus(ob))
		}
	}
}

func TestDiff(t *testing.T) {
	assert.Equal(t, 0, Diff(5, 5))
	assert.Equal(t, 1, Diff(1, 0))
	assert.Equal(t, -1, Diff(0, 1))
	assert.Equal(t, 1, Diff(0, 23))
	assert.Equal(t, -1, Diff(23, 0))
	assert.Equal(t, 12, Diff(12, 0))
	assert.Equal(t, 12, Diff(0, 12))

	for a := 0; a < NumOrientations; a++ {
		for b := 0; b < NumOrientations; b++ {
			d := Diff(Orientation(a), Orientation(b))
			assert.Greater(t, d, -12)
			assert.LessOrEqual(t, d, 12)
			assert.Equal(t, Orientation(a), Orientation(b).Add(d))
		}
	}
}

func TestOrientationFromDegrees(t *testing.T) {
	assert.Equal(t, Orientation(0), OrientationFromDegrees(0))
	assert.Equal(t, Orientation(0), OrientationFromDegrees(7))
	assert.Equal(t, Orientation(1), OrientationFromDegrees(8))
	assert.Equal(t, Orientation(1), OrientationFromDegrees(7.5))
	assert.Equal(t, Orientation(6), OrientationFromDegrees(90))
	assert.Equal(t, Orientation(23), OrientationFromDegrees(-15))
	assert.Equal(t, Orientation(0), OrientationFromDegrees(360))

	for o := Orientation(0); o < NumOrientations; o++ {
		assert.Equal(t, o, OrientationFromDegrees(float64(o.Degrees())))
	}
}

func TestApproxOrientation_Axes(t *testing.T) {
	assert.Equal(t, Orientation(0), ApproxOrientation(0, 0))
	assert.Equal(t, Orientation(0), ApproxOrientation(5, 0))
	assert.Equal(t, Orientation(6), ApproxOrientation(0, 5))
	assert.Equal(t, Orientation(12), ApproxOrientation(-5, 0))
	assert.Equal(t, Orientation(18), ApproxOrientation(0, -5))
	assert.Equal(t, Orientation(3), ApproxOrientation(4, 4))
	assert.Equal(t, Orientation(9), ApproxOrientation(-4, 4))
	assert.Equal(t, Orientation(15), ApproxOrientation(-4, -4))
	assert.Equal(t, Orientation(21), ApproxOrientation(4, -4))
}

func TestApproxOrientation_WithinOneUnit(t *testing.T) {
	for dx := -30; dx <= 30; dx++ {
		for dy := -30; dy <= 30; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			exact := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
			want := OrientationFromDegrees(exact)
			got := ApproxOrientation(dx, dy)
			d := Diff(got, want)
			assert.LessOrEqual(t, abs(d), 1, "dx=%d dy=%d got=%d want=%d", dx, dy, got, want)
		}
	}
}
