package autodrive

import (
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// Grid sizes. The navigation grid covers the current and next region laid
// out along +x; the view buffer pads it by one region on every side.
const (
	navWidth    = 2 * geo.OMTSize
	navHeight   = geo.OMTSize
	viewPadding = geo.OMTSize
	viewWidth   = navWidth + 2*viewPadding
	viewHeight  = navHeight + 2*viewPadding
)

// regionKey identifies the regions a session cache was built for.
type regionKey struct {
	Current     core.Tripoint
	Next        core.Tripoint
	NextNext    core.Tripoint
	HasNextNext bool
}

func regionsFor(pos core.Tripoint, route []core.Tripoint) (regionKey, bool) {
	if len(route) == 0 {
		return regionKey{}, false
	}
	key := regionKey{Current: geo.OMTOf(pos), Next: route[0]}
	key.Next.Z = key.Current.Z
	if len(route) > 1 {
		key.NextNext = route[1]
		key.NextNext.Z = key.Current.Z
		key.HasNextNext = true
	}
	return key, true
}

// NavigationStep is one planned waypoint in world space.
type NavigationStep struct {
	Pos         core.Tripoint
	SteeringDir geo.Orientation
	TargetSpeed int
}

// navData caches everything derived from the current region triple.
type navData struct {
	regions regionKey

	navToMap  geo.CoordTransform
	viewToMap geo.CoordTransform
	navToView geo.CoordTransform
	mapToNav  geo.CoordTransform

	navBounds  geo.Rect
	viewBounds geo.Rect

	caps     Capabilities
	maxSpeed int
	accel    []int
	maxSteer int

	// profiles are indexed by world heading, navProfiles by nav heading.
	profiles    [geo.NumOrientations]Profile
	navProfiles [geo.NumOrientations]Profile

	// view-buffer grids, row major
	obstacle []bool
	groundZ  []int

	// valid[o][y][x] over the navigation grid
	valid []bool

	goalZone    map[NodeAddress]bool
	goalPoints  [2]core.Point
	goalHeading geo.Orientation

	// path is consumed from the back
	path []NavigationStep
}

// newNavData lays out the frames for regions and allocates empty grids.
// Every view cell starts out drivable at the current level.
func newNavData(regions regionKey) (*navData, bool) {
	rot, ok := geo.OMTDirection(regions.Current, regions.Next)
	if !ok {
		return nil, false
	}

	origin := geo.OMTOrigin(regions.Current).XY()
	navToMap := geo.CoordTransform{Rot: rot, Post: origin.Sub(rotatedBlockMin(rot, geo.OMTSize))}
	navToView := geo.CoordTransform{Post: core.Point{X: viewPadding, Y: viewPadding}}

	nd := &navData{
		regions:    regions,
		navToMap:   navToMap,
		navToView:  navToView,
		viewToMap:  navToView.Inverse().Then(navToMap),
		mapToNav:   navToMap.Inverse(),
		navBounds:  geo.NewRect(core.Point{}, navWidth, navHeight),
		viewBounds: geo.NewRect(core.Point{}, viewWidth, viewHeight),
		obstacle:   make([]bool, viewWidth*viewHeight),
		groundZ:    make([]int, viewWidth*viewHeight),
		valid:      make([]bool, geo.NumOrientations*navWidth*navHeight),
		goalZone:   map[NodeAddress]bool{},
		maxSteer:   1,
	}
	for i := range nd.groundZ {
		nd.groundZ[i] = regions.Current.Z
	}
	return nd, true
}

// rotatedBlockMin returns the minimum corner of the n×n block of cells at the
// origin after rotation.
func rotatedBlockMin(rot geo.QuadRotation, n int) core.Point {
	m := rot.Cell(core.Point{})
	for _, c := range []core.Point{{X: n - 1}, {Y: n - 1}, {X: n - 1, Y: n - 1}} {
		r := rot.Cell(c)
		m.X, m.Y = min(m.X, r.X), min(m.Y, r.Y)
	}
	return m
}

func viewIndex(p core.Point) int {
	return p.Y*viewWidth + p.X
}

func validIndex(o geo.Orientation, p core.Point) int {
	return (int(o)*navHeight+p.Y)*navWidth + p.X
}

// region returns which of the two planned regions a nav cell is in.
func region(p core.Point) int {
	return p.X / geo.OMTSize
}

func (nd *navData) isObstacle(view core.Point) bool {
	return !nd.viewBounds.Contains(view) || nd.obstacle[viewIndex(view)]
}

func (nd *navData) setObstacle(view core.Point, v bool) {
	nd.obstacle[viewIndex(view)] = v
}

// setProfiles computes the footprints for every heading from the live layout.
func (nd *navData) setProfiles(parts []Part, pivot core.Point) {
	for o := range geo.NumOrientations {
		nd.profiles[o] = ComputeProfile(parts, pivot, geo.Orientation(o))
	}
	inv := nd.navToMap.Rot.Inverse()
	for o := range geo.NumOrientations {
		world := nd.navToMap.Orientation(geo.Orientation(o))
		nd.navProfiles[o] = nd.profiles[world].rotated(inv, geo.Orientation(o))
	}
}

// computeValid marks every nav placement whose footprint stays inside the
// view buffer and off obstacles.
func (nd *navData) computeValid() {
	for o := range geo.NumOrientations {
		occupied := nd.navProfiles[o].Occupied
		for y := range navHeight {
			for x := range navWidth {
				p := core.Point{X: x, Y: y}
				v := nd.navToView.Point(p)
				ok := true
				for _, d := range occupied {
					if nd.isObstacle(v.Add(d)) {
						ok = false
						break
					}
				}
				nd.valid[validIndex(geo.Orientation(o), p)] = ok
			}
		}
	}
}

// isValid reports whether the pivot can sit at nav cell p facing o.
func (nd *navData) isValid(o geo.Orientation, p core.Point) bool {
	return nd.navBounds.Contains(p) && nd.valid[validIndex(o, p)]
}

// toWorld converts a nav placement into a world waypoint.
func (nd *navData) toWorld(p core.Point, o geo.Orientation, speed int) NavigationStep {
	v := nd.navToView.Point(p)
	z := nd.regions.Current.Z
	if nd.viewBounds.Contains(v) {
		z = nd.groundZ[viewIndex(v)]
	}
	return NavigationStep{
		Pos:         core.At(nd.navToMap.Point(p), z),
		SteeringDir: nd.navToMap.Orientation(o),
		TargetSpeed: speed,
	}
}

// groundAt returns the effective floor level of world cell p.
func (nd *navData) groundAt(p core.Point) (int, bool) {
	v := nd.viewToMap.Inverse().Point(p)
	if !nd.viewBounds.Contains(v) {
		return 0, false
	}
	return nd.groundZ[viewIndex(v)], true
}
