package autodrive

import (
	"sort"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// Profile is the footprint of the vehicle for one heading, relative to the pivot.
type Profile struct {
	Ray geo.Tileray
	// Occupied lists every cell covered by the vehicle body.
	Occupied []core.Point
	// CollisionPoints are the occupied cells that can become newly covered
	// when the vehicle advances one step.
	CollisionPoints []core.Point
}

// ComputeProfile builds the footprint of parts, rotated about pivot to face o.
func ComputeProfile(parts []Part, pivot core.Point, o geo.Orientation) Profile {
	// mounts are placed with the same rays the vehicle moves along, so
	// distinct mounts in a line stay distinct on diagonal headings
	rotate := func(m core.Point) core.Point {
		return along(o, m.X-pivot.X).Add(along(o.Add(6), m.Y-pivot.Y))
	}

	type span struct{ lo, hi int }
	rows := map[int]span{}
	occupied := map[core.Point]bool{}
	for _, part := range parts {
		if part.Removed {
			continue
		}
		p := rotate(part.Mount)
		if s, ok := rows[p.Y]; ok {
			rows[p.Y] = span{min(s.lo, p.X), max(s.hi, p.X)}
		} else {
			rows[p.Y] = span{p.X, p.X}
		}
		if part.RotorDiameter > 0 {
			r := (part.RotorDiameter + 1) / 2
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx*dx+dy*dy <= r*r {
						occupied[core.Point{X: p.X + dx, Y: p.Y + dy}] = true
					}
				}
			}
		}
	}
	for y, s := range rows {
		for x := s.lo; x <= s.hi; x++ {
			occupied[core.Point{X: x, Y: y}] = true
		}
	}

	prof := Profile{Ray: geo.NewTileray(o)}
	prof.Occupied = sortedPoints(occupied)

	u := prof.Ray.UnitStep()
	ahead := make([]core.Point, 0, 3)
	if u.X != 0 {
		ahead = append(ahead, core.Point{X: u.X})
	}
	if u.Y != 0 {
		ahead = append(ahead, core.Point{Y: u.Y})
	}
	if u.X != 0 && u.Y != 0 {
		ahead = append(ahead, u)
	}
	for _, p := range prof.Occupied {
		for _, a := range ahead {
			if !occupied[p.Add(a)] {
				prof.CollisionPoints = append(prof.CollisionPoints, p)
				break
			}
		}
	}
	return prof
}

// along walks n steps of the ray for heading o from the origin; negative n
// walks the opposite heading.
func along(o geo.Orientation, n int) core.Point {
	if n < 0 {
		o, n = o.Add(12), -n
	}
	return geo.NewTileray(o).Advance(core.Point{}, 0, n)
}

// rotated returns the profile expressed in a frame rotated by rot.
func (p Profile) rotated(rot geo.QuadRotation, o geo.Orientation) Profile {
	out := Profile{
		Ray:             geo.NewTileray(o),
		Occupied:        make([]core.Point, len(p.Occupied)),
		CollisionPoints: make([]core.Point, len(p.CollisionPoints)),
	}
	for i, c := range p.Occupied {
		out.Occupied[i] = rot.Vector(c)
	}
	for i, c := range p.CollisionPoints {
		out.CollisionPoints[i] = rot.Vector(c)
	}
	return out
}

func sortedPoints(set map[core.Point]bool) []core.Point {
	out := make([]core.Point, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
