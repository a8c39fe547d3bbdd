// Package parser turns raw command arguments into typed autodrive commands.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/internal/util"
	"github.com/OCAP2/autodrive/pkg/core"
)

// ErrArgCount is returned when a command has the wrong number of arguments.
var ErrArgCount = errors.New("wrong argument count")

// StartCommand asks for a new autodrive activity. An empty Route keeps the
// route the driver already has.
type StartCommand struct {
	VehicleID int
	Route     []core.Tripoint
}

// TelemetryCommand is a free-form metric for a bucket.
type TelemetryCommand struct {
	Args []string
}

// parseIntFromFloat accepts "12" and "12.0"; callers that script in
// languages without integers often send the latter.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(f), nil
}

func parseVehicleID(s string) (int, error) {
	id, err := parseIntFromFloat(util.CleanArg(s))
	if err != nil {
		return 0, fmt.Errorf("invalid vehicle id: %w", err)
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid vehicle id: %d is negative", id)
	}
	return int(id), nil
}

// ParseStart parses [vehicleId] or [vehicleId, routeJSON].
func ParseStart(args []string) (StartCommand, error) {
	if len(args) < 1 || len(args) > 2 {
		return StartCommand{}, fmt.Errorf("%w: start takes 1 or 2 arguments, got %d", ErrArgCount, len(args))
	}
	id, err := parseVehicleID(args[0])
	if err != nil {
		return StartCommand{}, err
	}
	cmd := StartCommand{VehicleID: id}
	if len(args) == 2 {
		cmd.Route, err = geo.ParseRoute(util.CleanArg(args[1]))
		if err != nil {
			return StartCommand{}, err
		}
	}
	return cmd, nil
}

// ParseVehicleID parses the single vehicle id of TURN, STOP and STATUS.
func ParseVehicleID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected a vehicle id, got %d arguments", ErrArgCount, len(args))
	}
	return parseVehicleID(args[0])
}

// ParseTelemetry cleans the arguments of a telemetry command.
func ParseTelemetry(args []string) (TelemetryCommand, error) {
	if len(args) < 3 {
		return TelemetryCommand{}, fmt.Errorf("%w: telemetry needs bucket, measurement and fields", ErrArgCount)
	}
	return TelemetryCommand{Args: util.CleanArgs(args)}, nil
}
