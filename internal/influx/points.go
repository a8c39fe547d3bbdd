package influx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/autodrive/pkg/core"
)

// TurnPoint is one controller turn.
func TurnPoint(t core.TurnEvent) *influxdb2_write.Point {
	s := t.State
	return influxdb2_write.NewPoint("turn",
		map[string]string{
			"sessionId": t.SessionID,
			"vehicleId": strconv.Itoa(s.VehicleID),
			"phase":     t.Phase,
			"check":     t.Check,
		},
		map[string]any{
			"turn":        int64(s.Turn),
			"x":           s.Position.X,
			"y":           s.Position.Y,
			"z":           s.Position.Z,
			"face":        s.Face,
			"velocity":    s.Velocity,
			"cruise":      s.Cruise,
			"targetSpeed": t.TargetSpeed,
			"steerDelta":  t.SteerDelta,
			"pathLeft":    t.PathLeft,
			"rebuilt":     t.Rebuilt,
		},
		s.Time,
	)
}

// PlanPoint is one planning attempt.
func PlanPoint(p core.PlanEvent) *influxdb2_write.Point {
	return influxdb2_write.NewPoint("plan",
		map[string]string{
			"sessionId": p.SessionID,
			"success":   strconv.FormatBool(p.Success),
		},
		map[string]any{
			"turn":           int64(p.Turn),
			"speed":          p.SpeedTPS,
			"nodes":          p.NodesExplored,
			"durationMicros": p.Duration.Microseconds(),
			"pathLength":     len(p.Path),
		},
		p.Time,
	)
}

// OutcomePoint marks the end of a session.
func OutcomePoint(o core.OutcomeEvent) *influxdb2_write.Point {
	return influxdb2_write.NewPoint("outcome",
		map[string]string{
			"sessionId": o.SessionID,
			"outcome":   o.Outcome,
			"failure":   o.Failure,
		},
		map[string]any{
			"turn":   int64(o.Turn),
			"braked": o.Braked,
		},
		o.Time,
	)
}

// ErrMetricFormat is returned for malformed telemetry arguments.
var ErrMetricFormat = errors.New("malformed metric")

// ParseMetric builds a point from free-form telemetry arguments:
//
//	bucket, measurement, "tag::name::value"..., "field::type::name::value"...
//
// where type is string, int, float or bool.
func ParseMetric(args []string) (string, *influxdb2_write.Point, error) {
	if len(args) < 3 {
		return "", nil, fmt.Errorf("%w: need bucket, measurement and at least one field", ErrMetricFormat)
	}
	bucket, point := args[0], influxdb2_write.NewPointWithMeasurement(args[1])

	fields := 0
	for _, arg := range args[2:] {
		parts := strings.Split(arg, "::")
		switch {
		case parts[0] == "tag" && len(parts) == 3:
			point.AddTag(parts[1], parts[2])
		case parts[0] == "field" && len(parts) == 4:
			v, err := fieldValue(parts[1], parts[3])
			if err != nil {
				return "", nil, fmt.Errorf("%w: field %s: %v", ErrMetricFormat, parts[2], err)
			}
			point.AddField(parts[2], v)
			fields++
		default:
			return "", nil, fmt.Errorf("%w: %q", ErrMetricFormat, arg)
		}
	}
	if fields == 0 {
		return "", nil, fmt.Errorf("%w: no fields", ErrMetricFormat)
	}
	return bucket, point, nil
}

func fieldValue(typ, raw string) (any, error) {
	switch typ {
	case "string":
		return raw, nil
	case "int":
		return strconv.ParseInt(raw, 10, 64)
	case "float":
		return strconv.ParseFloat(raw, 64)
	case "bool":
		return strconv.ParseBool(raw)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}
