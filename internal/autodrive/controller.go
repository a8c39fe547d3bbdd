package autodrive

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// PlanAttempt summarises one search run during a turn.
type PlanAttempt struct {
	Speed    int
	Nodes    int
	Duration time.Duration
	Success  bool
	Path     []core.Tripoint // first step first
}

// TurnResult is what the controller did in one turn.
type TurnResult struct {
	Turn        uint
	State       State
	Check       CollisionCheck
	Failure     Failure
	Message     string
	Braked      bool
	Rebuilt     bool
	TargetSpeed int
	SteerDelta  int
	PathLeft    int
	Plans       []PlanAttempt
}

// Controller drives one vehicle along the driver's route. It is not safe for
// concurrent use; call Step once per turn.
type Controller struct {
	vehicle Vehicle
	driver  Driver
	m       Map
	cfg     Config
	logger  *slog.Logger
	metrics *metrics

	state   State
	failure Failure
	turn    uint
	nav     *navData

	// the step issued last turn and where the vehicle was when it was issued
	expected *NavigationStep
	issuedAt core.Tripoint
}

// NewController creates a controller in the idle state.
func NewController(v Vehicle, d Driver, m Map, cfg Config, logger *slog.Logger) (*Controller, error) {
	met, err := newMetrics()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		vehicle: v,
		driver:  d,
		m:       m,
		cfg:     cfg.withDefaults(),
		logger:  logger.With("vehicleId", v.ID()),
		metrics: met,
	}, nil
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	return c.state
}

// Failure returns why the activity was aborted, if it was.
func (c *Controller) Failure() Failure {
	return c.failure
}

// PathLeft returns the number of cached steps not yet issued.
func (c *Controller) PathLeft() int {
	if c.nav == nil {
		return 0
	}
	return len(c.nav.path)
}

// Stop ends the activity between turns without touching the controls.
func (c *Controller) Stop() {
	if c.state.Done() {
		return
	}
	c.state = StateAborted
	c.failure = FailureStopped
	c.nav = nil
	c.logger.Info("Autodrive stopped", "turn", c.turn)
}

// Step runs one turn of the activity.
func (c *Controller) Step() TurnResult {
	c.turn++
	res := TurnResult{Turn: c.turn}
	if c.state.Done() {
		res.State, res.Failure = c.state, c.failure
		return res
	}

	if !c.driver.InControl() || c.vehicle.IsSkidding() {
		return c.abort(res, FailureLostControl)
	}

	pos := c.vehicle.Position()
	here := geo.OMTOf(pos).XY()
	for route := c.driver.Route(); len(route) > 0 && route[0].XY() == here; route = c.driver.Route() {
		c.driver.PopRoute()
	}

	regions, ok := regionsFor(pos, c.driver.Route())
	if !ok {
		c.driver.SetCruise(0)
		c.expected = nil
		if c.vehicle.Velocity() == 0 {
			c.state = StateFinished
			res.Message = MessageArrived
			c.logger.Info("Autodrive finished", "turn", c.turn, "position", pos.String())
		} else {
			c.state = StateFollowing
		}
		res.State = c.state
		return res
	}

	if c.nav == nil || c.nav.regions != regions {
		if !c.rebuild(regions) {
			return c.abort(res, FailureInternal)
		}
		res.Rebuilt = true
	}
	c.nav.maxSpeed = c.vehicle.SafeVelocity()

	start, ok := c.navStart(pos)
	if !ok {
		c.logger.Error("Vehicle is outside the navigation grid",
			"turn", c.turn, "position", pos.String(),
			"current", regions.Current.String(), "next", regions.Next.String())
		return c.abort(res, FailureInternal)
	}

	planSpeed := c.nav.maxSpeed
	if speed, diverged := c.divergence(pos); diverged {
		c.nav.path = nil
		planSpeed = speed
		c.logger.Debug("Vehicle diverged from plan", "turn", c.turn,
			"expected", c.expected.Pos.String(), "actual", pos.String(), "replanSpeed", speed)
	}

	var step NavigationStep
	for {
		if len(c.nav.path) == 0 {
			c.state = StatePlanning
			if !c.plan(&res, start, planSpeed) {
				return c.abort(res, FailureNoPath)
			}
		}
		step = c.nav.path[len(c.nav.path)-1]
		c.nav.path = c.nav.path[:len(c.nav.path)-1]

		res.Check = c.checkCollision(step)
		switch res.Check {
		case CheckNoVisibility:
			return c.abort(res, FailureNoVisibility)
		case CheckCloseObstacle:
			return c.abort(res, FailureCloseObstacle)
		case CheckSlowDown:
			c.state = StateDegraded
			if step.TargetSpeed > 1 {
				c.logger.Warn("Obstacle ahead, slowing down", "turn", c.turn, "position", pos.String())
				c.nav.path = nil
				planSpeed = 1
				continue
			}
		default:
			c.state = StateFollowing
		}
		break
	}

	delta := geo.Diff(step.SteeringDir, c.vehicle.Face())
	dir := 1
	if delta < 0 {
		dir = -1
	}
	for i := 0; i < abs(delta) && c.driver.MovesLeft() > 0; i++ {
		c.driver.Steer(dir)
		res.SteerDelta += dir
	}
	c.driver.SetCruise(step.TargetSpeed)

	c.expected = &step
	c.issuedAt = pos
	res.State = c.state
	res.TargetSpeed = step.TargetSpeed
	res.PathLeft = len(c.nav.path)
	return res
}

// rebuild derives the session cache for a new region triple.
func (c *Controller) rebuild(regions regionKey) bool {
	nd, ok := newNavData(regions)
	if !ok {
		c.logger.Error("Route hop is not between adjacent regions",
			"turn", c.turn, "current", regions.Current.String(), "next", regions.Next.String())
		return false
	}
	nd.caps = c.vehicle.Capabilities()
	nd.maxSteer = max(1, c.vehicle.MaxSteer())
	nd.maxSpeed = c.vehicle.SafeVelocity()
	nd.accel = make([]int, max(1, nd.maxSpeed)+1)
	for s := range nd.accel {
		nd.accel[s] = c.vehicle.Acceleration(s)
	}
	nd.setProfiles(c.vehicle.Parts(), c.vehicle.PivotMount())
	nd.buildObstacles(world{vehicleID: c.vehicle.ID(), driver: c.driver, m: c.m})
	nd.computeValid()
	nd.computeGoal()

	c.nav = nd
	c.logger.Info("Rebuilt navigation cache", "turn", c.turn,
		"current", regions.Current.String(), "next", regions.Next.String(),
		"goalPlacements", len(nd.goalZone))
	return true
}

func (c *Controller) navStart(pos core.Tripoint) (searchStart, bool) {
	p := c.nav.mapToNav.Point(pos.XY())
	if !c.nav.navBounds.Contains(p) {
		return searchStart{}, false
	}
	return searchStart{
		pos:      p,
		facing:   c.nav.mapToNav.Orientation(c.vehicle.Face()),
		speed:    abs(c.vehicle.Velocity()),
		raySteps: c.vehicle.RaySteps(),
	}, true
}

// divergence compares where the vehicle ended up with the step issued last
// turn. When it kept the planned heading but fell short, the replan keeps
// its current speed instead of the maximum.
func (c *Controller) divergence(pos core.Tripoint) (speed int, diverged bool) {
	if c.expected == nil || pos.XY() == c.expected.Pos.XY() {
		return 0, false
	}
	speed = c.nav.maxSpeed
	if c.vehicle.Face() == c.expected.SteeringDir &&
		chebyshev(c.issuedAt.XY(), pos.XY()) < chebyshev(c.issuedAt.XY(), c.expected.Pos.XY()) {
		speed = min(max(abs(c.vehicle.Velocity()), 1), max(c.nav.maxSpeed, 1))
	}
	return speed, true
}

func (c *Controller) plan(res *TurnResult, start searchStart, speed int) bool {
	attempts, err := c.nav.planPath(c.cfg, start, speed)
	for i, a := range attempts {
		success := err == nil && i == len(attempts)-1
		path := make([]core.Tripoint, len(a.Path))
		for j, s := range a.Path {
			path[len(path)-1-j] = s.Pos
		}
		res.Plans = append(res.Plans, PlanAttempt{
			Speed:    a.Speed,
			Nodes:    a.Nodes,
			Duration: a.Duration,
			Success:  success,
			Path:     path,
		})
		c.metrics.recordPlan(a.Speed, a.Nodes, success)
		c.logger.Debug("Planning attempt", "turn", c.turn, "speed", a.Speed,
			"nodes", a.Nodes, "success", success, "duration", a.Duration)
	}
	if err != nil {
		c.logger.Warn("Planning failed", "turn", c.turn, "maxSpeed", speed, "error", err)
		return false
	}
	c.nav.path = slices.Clone(attempts[len(attempts)-1].Path)
	return true
}

func (c *Controller) abort(res TurnResult, f Failure) TurnResult {
	if f.Brakes() {
		c.driver.SetCruise(0)
		res.Braked = true
	}
	c.state = StateAborted
	c.failure = f
	c.nav = nil
	c.expected = nil
	c.metrics.recordAbort(f)

	level := slog.LevelWarn
	if f == FailureInternal {
		level = slog.LevelError
	}
	c.logger.Log(context.Background(), level, "Autodrive aborted", "turn", c.turn, "failure", f.String(), "braked", res.Braked)

	res.State = c.state
	res.Failure = f
	res.Message = f.Message()
	return res
}

func chebyshev(a, b core.Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}
