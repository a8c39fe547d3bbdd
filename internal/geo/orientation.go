package geo

import "math"

const (
	// NumOrientations is the number of discrete headings a vehicle can face.
	NumOrientations = 24
	// TurningIncrement is the angle between two neighbouring headings, in degrees.
	TurningIncrement = 360 / NumOrientations
)

// Orientation is a heading in units of TurningIncrement, clockwise from east.
// Because y grows south, 6 is south and 18 is north.
type Orientation int

// Normalize folds any integer into [0, NumOrientations).
func Normalize(n int) Orientation {
	n %= NumOrientations
	if n < 0 {
		n += NumOrientations
	}
	return Orientation(n)
}

// Add turns o by the given number of increments (positive is clockwise).
func (o Orientation) Add(turns int) Orientation {
	return Normalize(int(o) + turns)
}

// Plus returns o+b.
func (o Orientation) Plus(b Orientation) Orientation {
	return Normalize(int(o) + int(b))
}

// Minus returns o-b.
func (o Orientation) Minus(b Orientation) Orientation {
	return Normalize(int(o) - int(b))
}

// Neg returns -o.
func (o Orientation) Neg() Orientation {
	return Normalize(-int(o))
}

// Degrees returns the heading angle in [0, 360).
func (o Orientation) Degrees() int {
	return int(Normalize(int(o))) * TurningIncrement
}

// Radians returns the heading angle in radians.
func (o Orientation) Radians() float64 {
	return float64(o.Degrees()) * math.Pi / 180
}

// OrientationFromDegrees returns the nearest heading to the given angle.
func OrientationFromDegrees(deg float64) Orientation {
	return Normalize(int(math.Round(deg / TurningIncrement)))
}

// Diff returns the signed minimal number of increments that turns b into a,
// in (-NumOrientations/2, NumOrientations/2].
func Diff(a, b Orientation) int {
	d := int(a.Minus(b))
	if d > NumOrientations/2 {
		d -= NumOrientations
	}
	return d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
