package geo

import "github.com/OCAP2/autodrive/pkg/core"

// QuadRotation is a clockwise rotation by a whole number of quarter turns.
type QuadRotation int

const (
	Rot0 QuadRotation = iota
	Rot90
	Rot180
	Rot270
)

func (r QuadRotation) norm() QuadRotation {
	return QuadRotation(((int(r) % 4) + 4) % 4)
}

// Degrees returns 0, 90, 180 or 270.
func (r QuadRotation) Degrees() int {
	return int(r.norm()) * 90
}

// Inverse returns the rotation that undoes r.
func (r QuadRotation) Inverse() QuadRotation {
	return (4 - r.norm()).norm()
}

// Turns returns the rotation as a number of heading increments.
func (r QuadRotation) Turns() int {
	return int(r.norm()) * NumOrientations / 4
}

// Vector rotates a displacement about the origin.
func (r QuadRotation) Vector(v core.Point) core.Point {
	switch r.norm() {
	case Rot90:
		return core.Point{X: -v.Y, Y: v.X}
	case Rot180:
		return core.Point{X: -v.X, Y: -v.Y}
	case Rot270:
		return core.Point{X: v.Y, Y: -v.X}
	}
	return v
}

// Cell rotates a grid cell about the corner shared by cells (0,0) and
// (-1,-1), so a W×H block of cells maps onto an H×W block without drift.
func (r QuadRotation) Cell(p core.Point) core.Point {
	switch r.norm() {
	case Rot90:
		return core.Point{X: -p.Y - 1, Y: p.X}
	case Rot180:
		return core.Point{X: -p.X - 1, Y: -p.Y - 1}
	case Rot270:
		return core.Point{X: p.Y, Y: -p.X - 1}
	}
	return p
}

// CoordTransform maps points between frames: subtract Pre, rotate, add Post.
type CoordTransform struct {
	Pre  core.Point
	Rot  QuadRotation
	Post core.Point
}

// Point transforms a cell.
func (t CoordTransform) Point(p core.Point) core.Point {
	return t.Rot.Cell(p.Sub(t.Pre)).Add(t.Post)
}

// Tripoint transforms a cell and keeps its level.
func (t CoordTransform) Tripoint(p core.Tripoint) core.Tripoint {
	return core.At(t.Point(p.XY()), p.Z)
}

// Vector transforms a displacement; offsets are unaffected.
func (t CoordTransform) Vector(v core.Point) core.Point {
	return t.Rot.Vector(v)
}

// Orientation transforms a heading.
func (t CoordTransform) Orientation(o Orientation) Orientation {
	return o.Add(t.Rot.Turns())
}

// Inverse returns the transform that undoes t.
func (t CoordTransform) Inverse() CoordTransform {
	return CoordTransform{Pre: t.Post, Rot: t.Rot.Inverse(), Post: t.Pre}
}

// Then returns the transform that applies t first and u second.
func (t CoordTransform) Then(u CoordTransform) CoordTransform {
	return CoordTransform{
		Pre:  t.Pre,
		Rot:  (t.Rot + u.Rot).norm(),
		Post: u.Rot.Vector(t.Post.Sub(u.Pre)).Add(u.Post),
	}
}

// Rect is a half-open rectangle [Min, Max).
type Rect struct {
	Min core.Point
	Max core.Point
}

// NewRect builds the rectangle of the given size at origin.
func NewRect(origin core.Point, w, h int) Rect {
	return Rect{Min: origin, Max: core.Point{X: origin.X + w, Y: origin.Y + h}}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p core.Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Width of r.
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height of r.
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }
