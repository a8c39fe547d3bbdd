// Package model holds the GORM tables of the drive journal.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels lists every journal table for AutoMigrate.
var DatabaseModels = []any{
	&DriveSession{},
	&PlanAttempt{},
	&TurnRecord{},
	&Outcome{},
}

// DriveSession is one autodrive activity.
type DriveSession struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID   string         `json:"sessionId" gorm:"size:36;uniqueIndex:idx_drive_session_session_id"`
	StartTime   time.Time      `json:"startTime" gorm:"type:timestamptz;"`
	VehicleID   int            `json:"vehicleId" gorm:"index:idx_drive_session_vehicle_id"`
	VehicleName string         `json:"vehicleName" gorm:"size:64"`
	PartCount   int            `json:"partCount"`
	Start       datatypes.JSON `json:"start"`       // tile the vehicle started on
	Destination datatypes.JSON `json:"destination"` // last region of the route
	RouteLength int            `json:"routeLength"`
}

func (*DriveSession) TableName() string {
	return "drive_sessions"
}

// PlanAttempt is one search at a fixed target speed.
type PlanAttempt struct {
	ID             uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID      string         `json:"sessionId" gorm:"size:36;index:idx_plan_attempt_session_id"`
	Time           time.Time      `json:"time" gorm:"type:timestamptz;"`
	Turn           uint           `json:"turn"`
	SpeedTPS       int            `json:"speedTps"`
	NodesExplored  int            `json:"nodesExplored"`
	DurationMicros int64          `json:"durationMicros"`
	Success        bool           `json:"success"`
	Region         datatypes.JSON `json:"region"`
	Path           datatypes.JSON `json:"path"`
	PathWKT        string         `json:"pathWkt" gorm:"type:text"` // LINESTRING Z of the path, empty below two distinct XY cells
}

func (*PlanAttempt) TableName() string {
	return "plan_attempts"
}

// TurnRecord is the vehicle and controller state of one turn.
type TurnRecord struct {
	ID          uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID   string    `json:"sessionId" gorm:"size:36;index:idx_turn_record_session_turn,priority:1"`
	Turn        uint      `json:"turn" gorm:"index:idx_turn_record_session_turn,priority:2"`
	Time        time.Time `json:"time" gorm:"type:timestamptz;"`
	VehicleID   int       `json:"vehicleId"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
	Z           int       `json:"z"`
	Face        int       `json:"face"`
	Velocity    int       `json:"velocity"`
	Cruise      int       `json:"cruise"`
	Phase       string    `json:"phase" gorm:"size:16"`
	Check       string    `json:"check" gorm:"size:16"`
	TargetSpeed int       `json:"targetSpeed"`
	SteerDelta  int       `json:"steerDelta"`
	PathLeft    int       `json:"pathLeft"`
	Rebuilt     bool      `json:"rebuilt"`
}

func (*TurnRecord) TableName() string {
	return "turn_records"
}

// Outcome closes a session.
type Outcome struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID string    `json:"sessionId" gorm:"size:36;uniqueIndex:idx_outcome_session_id"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;"`
	Turn      uint      `json:"turn"`
	Outcome   string    `json:"outcome" gorm:"size:16"`
	Failure   string    `json:"failure" gorm:"size:32"`
	Message   string    `json:"message" gorm:"size:255"`
	Braked    bool      `json:"braked"`
}

func (*Outcome) TableName() string {
	return "outcomes"
}
