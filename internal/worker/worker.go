// Package worker owns the autodrive command handlers: it binds vehicles to
// controllers, steps them, and journals what they did.
package worker

import (
	"errors"
	"log/slog"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/internal/cache"
	"github.com/OCAP2/autodrive/internal/logging"
	"github.com/OCAP2/autodrive/internal/storage"
	"github.com/OCAP2/autodrive/pkg/core"
	"github.com/google/uuid"
)

var (
	// ErrNoController is returned for vehicles without an active activity.
	ErrNoController = errors.New("no active autodrive for vehicle")
	// ErrActive is returned when starting a vehicle that is already driving itself.
	ErrActive = errors.New("autodrive already active for vehicle")
	// ErrFixedRoute is returned when a route is given for a driver that cannot take one.
	ErrFixedRoute = errors.New("driver does not accept a new route")
)

// Binding is what a vehicle id resolves to in the world.
type Binding struct {
	Vehicle autodrive.Vehicle
	Driver  autodrive.Driver
	Map     autodrive.Map
	Name    string
}

// ResolverFunc looks up the world objects for a vehicle id.
type ResolverFunc func(vehicleID int) (Binding, error)

// RouteSetter is implemented by drivers that accept a route from START.
type RouteSetter interface {
	SetRoute(route []core.Tripoint)
}

// PointWriter receives telemetry points; *influx.Manager implements it.
type PointWriter interface {
	WritePoint(bucket string, point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Controllers *cache.ControllerCache
	Resolve     ResolverFunc
	Planner     autodrive.Config
	LogManager  *logging.SlogManager
	Telemetry   PointWriter // optional
	Now         func() time.Time
	NewID       func() string
}

// Manager handles autodrive commands
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	logger  *slog.Logger
	turns   cache.SafeCounter
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Controllers == nil {
		deps.Controllers = cache.NewControllerCache()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.NewString() }
	}
	logger := slog.Default()
	if deps.LogManager != nil {
		logger = deps.LogManager.Logger()
	}
	return &Manager{deps: deps, backend: backend, logger: logger}
}

// Controllers exposes the active activities.
func (m *Manager) Controllers() *cache.ControllerCache {
	return m.deps.Controllers
}

// ActiveVehicles lists the vehicles currently driving themselves.
func (m *Manager) ActiveVehicles() []int {
	return m.deps.Controllers.VehicleIDs()
}

// TurnsProcessed counts TURN commands handled across all vehicles.
func (m *Manager) TurnsProcessed() int {
	return m.turns.Value()
}

// WriteDurationProvider is an optional interface that backends can implement
// to expose their last write duration for monitoring.
type WriteDurationProvider interface {
	LastWriteDuration() time.Duration
}

// LastWriteDuration returns the duration of the last journal write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) LastWriteDuration() time.Duration {
	if p, ok := m.backend.(WriteDurationProvider); ok {
		return p.LastWriteDuration()
	}
	return 0
}
