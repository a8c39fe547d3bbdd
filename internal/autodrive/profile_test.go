package autodrive

import (
	"math/rand"
	"testing"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestComputeProfile_LineEast(t *testing.T) {
	prof := ComputeProfile(lineParts(3), core.Point{}, 0)

	want := []core.Point{{X: -1}, {X: 0}, {X: 1}}
	if diff := cmp.Diff(want, prof.Occupied); diff != "" {
		t.Errorf("occupied mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []core.Point{{X: 1}}, prof.CollisionPoints)
}

func TestComputeProfile_LineSouth(t *testing.T) {
	prof := ComputeProfile(lineParts(3), core.Point{}, 6)
	assert.ElementsMatch(t, []core.Point{{Y: -1}, {Y: 0}, {Y: 1}}, prof.Occupied)
	assert.Equal(t, []core.Point{{Y: 1}}, prof.CollisionPoints)
}

func TestComputeProfile_FillsRows(t *testing.T) {
	// an L with a gap in the bottom row is filled to a solid span
	parts := []Part{
		{Mount: core.Point{X: 0, Y: 0}},
		{Mount: core.Point{X: 0, Y: 1}},
		{Mount: core.Point{X: 3, Y: 1}},
	}
	prof := ComputeProfile(parts, core.Point{}, 0)
	assert.ElementsMatch(t, []core.Point{
		{X: 0, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
	}, prof.Occupied)
}

func TestComputeProfile_SkipsRemovedParts(t *testing.T) {
	parts := lineParts(3)
	parts[2].Removed = true
	prof := ComputeProfile(parts, core.Point{}, 0)
	assert.ElementsMatch(t, []core.Point{{X: -1}, {X: 0}}, prof.Occupied)
}

func TestComputeProfile_PivotOffset(t *testing.T) {
	prof := ComputeProfile(lineParts(3), core.Point{X: 1}, 0)
	assert.ElementsMatch(t, []core.Point{{X: -2}, {X: -1}, {X: 0}}, prof.Occupied)
}

func TestComputeProfile_DiagonalKeepsEveryPart(t *testing.T) {
	parts := []Part{
		{Mount: core.Point{X: 0}}, {Mount: core.Point{X: 1}},
		{Mount: core.Point{X: 2}}, {Mount: core.Point{X: 3}},
	}
	for _, o := range []geo.Orientation{3, 9, 15, 21} {
		prof := ComputeProfile(parts, core.Point{}, o)
		assert.Len(t, prof.Occupied, 4, "orientation %d", o)
		tip := geo.NewTileray(o).Advance(core.Point{}, 0, 3)
		assert.Contains(t, prof.Occupied, tip, "orientation %d", o)
	}
}

func TestComputeProfile_MountsFollowTileray(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for range 20 {
		parts := randomParts(r)
		for o := range geo.NumOrientations {
			prof := ComputeProfile(parts, core.Point{}, geo.Orientation(o))
			for _, part := range parts {
				if part.Removed {
					continue
				}
				assert.Contains(t, prof.Occupied, along(geo.Orientation(o), part.Mount.X).
					Add(along(geo.Orientation(o).Add(6), part.Mount.Y)), "orientation %d", o)
			}
		}
	}
}

func TestComputeProfile_RotorDisk(t *testing.T) {
	prof := ComputeProfile([]Part{{RotorDiameter: 3}}, core.Point{}, 0)
	// radius 2 disk
	assert.Len(t, prof.Occupied, 13)
	assert.Contains(t, prof.Occupied, core.Point{X: 2})
	assert.Contains(t, prof.Occupied, core.Point{X: 1, Y: 1})
	assert.NotContains(t, prof.Occupied, core.Point{X: 2, Y: 1})
}

func randomParts(r *rand.Rand) []Part {
	n := 1 + r.Intn(12)
	parts := make([]Part, n)
	for i := range parts {
		parts[i] = Part{
			Mount:   core.Point{X: r.Intn(7) - 3, Y: r.Intn(5) - 2},
			Removed: r.Intn(8) == 0,
		}
		if r.Intn(10) == 0 {
			parts[i].RotorDiameter = 1 + r.Intn(4)
		}
	}
	return parts
}

func TestComputeProfile_CollisionPointsSubset(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for range 50 {
		parts := randomParts(r)
		for o := range geo.NumOrientations {
			prof := ComputeProfile(parts, core.Point{}, geo.Orientation(o))
			occupied := map[core.Point]bool{}
			for _, p := range prof.Occupied {
				occupied[p] = true
			}
			for _, p := range prof.CollisionPoints {
				assert.True(t, occupied[p], "orientation %d: %s is not occupied", o, p)
			}
		}
	}
}

func TestComputeProfile_CollisionPointsCoverNewCells(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for range 50 {
		parts := randomParts(r)
		for o := range geo.NumOrientations {
			prof := ComputeProfile(parts, core.Point{}, geo.Orientation(o))
			occupied := map[core.Point]bool{}
			for _, p := range prof.Occupied {
				occupied[p] = true
			}
			leading := map[core.Point]bool{}
			for _, p := range prof.CollisionPoints {
				leading[p] = true
			}
			for k := 1; k <= 12; k++ {
				s := prof.Ray.StepAt(k)
				for _, q := range prof.Occupied {
					// q+s is covered after the step; it is new unless it was covered before
					if !occupied[q.Add(s)] {
						assert.True(t, leading[q], "orientation %d step %d: %s missing", o, k, q)
					}
				}
			}
		}
	}
}
