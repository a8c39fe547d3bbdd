// pkg/core/position.go
package core

import "fmt"

// Point is a 2D tile coordinate. X grows east, Y grows south.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Tripoint is a 3D tile coordinate; Z is the map level.
type Tripoint struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// XY drops the level.
func (p Tripoint) XY() Point {
	return Point{X: p.X, Y: p.Y}
}

// Add returns p+q.
func (p Tripoint) Add(q Tripoint) Tripoint {
	return Tripoint{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// WithZ returns p moved to level z.
func (p Tripoint) WithZ(z int) Tripoint {
	return Tripoint{X: p.X, Y: p.Y, Z: z}
}

func (p Tripoint) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// At lifts a 2D point to level z.
func At(p Point, z int) Tripoint {
	return Tripoint{X: p.X, Y: p.Y, Z: z}
}
