package autodrive

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

var (
	// ErrNoPath is returned when no speed yields a path to the goal zone.
	ErrNoPath = errors.New("no path to goal")
	// ErrInvalidSpeed is returned for non-positive target speeds.
	ErrInvalidSpeed = errors.New("invalid target speed")
)

// alignRadius is the distance to a waypoint below which the heading is
// compared with the finish-line heading rather than the waypoint bearing.
const alignRadius = 4

// NodeAddress is a pivot cell on the navigation grid plus a heading.
type NodeAddress struct {
	X, Y   int16
	Facing geo.Orientation
}

func addressOf(p core.Point, o geo.Orientation) NodeAddress {
	return NodeAddress{X: int16(p.X), Y: int16(p.Y), Facing: o}
}

func (a NodeAddress) point() core.Point {
	return core.Point{X: int(a.X), Y: int(a.Y)}
}

type navNode struct {
	addr        NodeAddress
	prev        *navNode
	cost        float64
	score       float64
	raySteps    int
	speed       int
	targetSpeed int
	isGoal      bool
	closed      bool
	index       int // position in the open set, -1 when not queued
}

type openSet []*navNode

func (s openSet) Len() int           { return len(s) }
func (s openSet) Less(i, j int) bool { return s[i].score < s[j].score }
func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *openSet) Push(x any) {
	n := x.(*navNode)
	n.index = len(*s)
	*s = append(*s, n)
}

func (s *openSet) Pop() any {
	old := *s
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*s = old[:len(old)-1]
	return n
}

// searchStart is where the vehicle is, in nav space.
type searchStart struct {
	pos      core.Point
	facing   geo.Orientation
	speed    int
	raySteps int
}

// SearchResult reports one planning attempt.
type SearchResult struct {
	Path     []NavigationStep // last step first
	Nodes    int
	Speed    int
	Duration time.Duration
}

// search runs A* at a fixed target speed. The returned path is in world
// space and ordered last step first.
func (nd *navData) search(cfg Config, start searchStart, speed int) (SearchResult, bool) {
	began := time.Now()
	res := SearchResult{Speed: speed}
	if speed <= 0 {
		return res, false
	}

	visited := map[NodeAddress]*navNode{}
	open := &openSet{}
	first := &navNode{
		addr:        addressOf(start.pos, start.facing),
		raySteps:    start.raySteps,
		speed:       start.speed,
		targetSpeed: speed,
	}
	first.score = nd.score(cfg, first)
	visited[first.addr] = first
	heap.Push(open, first)

	for open.Len() > 0 && res.Nodes < cfg.MaxNodes {
		n := heap.Pop(open).(*navNode)
		n.closed = true
		res.Nodes++

		if n.isGoal {
			for ; n.prev != nil; n = n.prev {
				res.Path = append(res.Path, nd.toWorld(n.addr.point(), n.addr.Facing, n.targetSpeed))
			}
			res.Duration = time.Since(began)
			return res, true
		}

		for _, next := range nd.nextNodes(cfg, n) {
			if old, ok := visited[next.addr]; ok {
				if old.closed || old.cost <= next.cost {
					continue
				}
				old.prev, old.cost, old.score = next.prev, next.cost, next.score
				old.raySteps, old.speed, old.isGoal = next.raySteps, next.speed, next.isGoal
				heap.Fix(open, old.index)
				continue
			}
			visited[next.addr] = next
			heap.Push(open, next)
		}
	}
	res.Duration = time.Since(began)
	return res, false
}

// nextNodes expands n for every steering choice at n's target speed.
func (nd *navData) nextNodes(cfg Config, n *navNode) []*navNode {
	speed := n.speed
	if speed < n.targetSpeed {
		speed = min(n.targetSpeed, speed+nd.accelAt(speed))
	} else {
		speed = n.targetSpeed
	}

	from := n.addr.point()
	fromRegion := region(from)
	out := make([]*navNode, 0, 2*nd.maxSteer+1)

edges:
	for steer := -nd.maxSteer; steer <= nd.maxSteer; steer++ {
		facing := n.addr.Facing.Add(steer)
		done := 0
		if steer == 0 {
			done = n.raySteps
		}
		ray := geo.NewTileray(facing)

		pos := from
		dist := 0
		goal := false
		for k := 1; k <= speed; k++ {
			p := pos.Add(ray.StepAt(done + k))
			if !nd.navBounds.Contains(p) {
				if goal {
					break
				}
				continue edges
			}
			if region(p) < fromRegion || !nd.isValid(facing, p) {
				continue edges
			}
			pos = p
			dist++
			if nd.goalZone[addressOf(p, facing)] {
				goal = true
			}
		}
		if dist == 0 {
			continue
		}

		next := &navNode{
			addr:        addressOf(pos, facing),
			prev:        n,
			cost:        n.cost + cfg.MoveCost*float64(dist) + cfg.SteerCost*float64(abs(steer)),
			raySteps:    done + dist,
			speed:       speed,
			targetSpeed: n.targetSpeed,
			isGoal:      goal,
			index:       -1,
		}
		next.score = nd.score(cfg, next)
		out = append(out, next)
	}
	return out
}

func (nd *navData) accelAt(speed int) int {
	if len(nd.accel) == 0 {
		return 1
	}
	return max(1, nd.accel[min(speed, len(nd.accel)-1)])
}

// score is the priority of n in the open set: accumulated cost plus an
// estimate of what remains.
func (nd *navData) score(cfg Config, n *navNode) float64 {
	p := n.addr.point()

	near := 0
	for _, d := range neighbours4 {
		q := p.Add(d)
		if q.Y < 0 || q.Y >= navHeight || (nd.navBounds.Contains(q) && !nd.isValid(n.addr.Facing, q)) {
			near++
		}
	}

	var forward, lateral int
	var waypoint core.Point
	var heading geo.Orientation
	if region(p) == 0 {
		waypoint, heading = nd.goalPoints[0], 0
		forward = abs(waypoint.X-p.X) + manhattan(nd.goalPoints[0], nd.goalPoints[1])
		lateral = abs(waypoint.Y - p.Y)
	} else {
		waypoint, heading = nd.goalPoints[1], nd.goalHeading
		dx, dy := abs(waypoint.X-p.X), abs(waypoint.Y-p.Y)
		if heading == 0 {
			forward, lateral = dx, dy
		} else {
			forward, lateral = dy, dx
		}
	}

	d := waypoint.Sub(p)
	if max(abs(d.X), abs(d.Y)) > alignRadius {
		heading = geo.ApproxOrientation(d.X, d.Y)
	}
	misalign := abs(geo.Diff(n.addr.Facing, heading))

	return n.cost +
		cfg.ObstaclePenalty*float64(near) +
		cfg.ForwardWeight*float64(forward) +
		cfg.LateralWeight*float64(lateral) +
		cfg.AlignmentWeight*float64(misalign)
}

// PlanPath searches at maxSpeed and then at halved speeds down to one tile
// per turn. Every attempt is returned; the last one is the successful one
// when err is nil.
func (nd *navData) planPath(cfg Config, start searchStart, maxSpeed int) ([]SearchResult, error) {
	if maxSpeed <= 0 {
		return nil, fmt.Errorf("plan at %d tiles/turn: %w", maxSpeed, ErrInvalidSpeed)
	}
	var attempts []SearchResult
	for speed := maxSpeed; speed >= 1; speed /= 2 {
		res, ok := nd.search(cfg, start, speed)
		attempts = append(attempts, res)
		if ok {
			return attempts, nil
		}
	}
	return attempts, ErrNoPath
}

func manhattan(a, b core.Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
