package scenario

import (
	"github.com/OCAP2/autodrive/pkg/core"
)

// Sim ties a world, a vehicle and its driver together.
type Sim struct {
	World   *World
	Vehicle *Vehicle
	Driver  *Driver
	Turn    uint
}

// New builds a simulation from sc.
func New(sc *Scenario) *Sim {
	v := NewVehicle(sc.Vehicle)
	return &Sim{
		World:   NewWorld(sc.Levels),
		Vehicle: v,
		Driver:  NewDriver(v, sc.Sight, sc.Route),
	}
}

// BeginTurn refreshes the driver before the controller acts.
func (s *Sim) BeginTurn() {
	s.Turn++
	s.Driver.moves = movesPerTurn
	s.Driver.look()
}

// EndTurn moves the vehicle.
func (s *Sim) EndTurn() {
	s.Vehicle.move(s.World)
}

// Destination is the last region of the original route.
func (sc *Scenario) Destination() core.Tripoint {
	return sc.Route[len(sc.Route)-1]
}
