// pkg/core/vehicle.go
package core

import "time"

// Vehicle identifies a driven vehicle in the journal.
type Vehicle struct {
	ID          int
	DisplayName string
	PartCount   int
}

// VehicleState is the vehicle snapshot taken at the start of a turn.
type VehicleState struct {
	VehicleID int
	Time      time.Time
	Turn      uint
	Position  Tripoint
	Face      int // orientation units of 15 degrees, 0 = east
	Velocity  int // tiles per turn
	Cruise    int // tiles per turn
}
