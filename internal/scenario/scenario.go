// Package scenario loads small text worlds and simulates a vehicle and its
// driver in them, turn by turn.
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/internal/geo"
	"github.com/OCAP2/autodrive/pkg/core"
)

// ErrInvalidScenario is returned for malformed scenario files.
var ErrInvalidScenario = errors.New("invalid scenario")

// VehicleSpec describes the simulated vehicle.
type VehicleSpec struct {
	ID           int
	Name         string
	Pivot        core.Point
	Parts        []autodrive.Part
	Start        core.Tripoint
	Face         geo.Orientation
	Speed        int // safe speed, tiles per turn
	Acceleration int
	MaxSteer     int
	Caps         autodrive.Capabilities
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name    string
	Vehicle VehicleSpec
	Route   []core.Tripoint
	Sight   int
	// Levels holds map rows per z level; row y, column x.
	Levels map[int][]string
}

// Load reads a scenario file from disk.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a scenario: "key: value" header lines, then one or more
// "map: <z>" sections of rows.
func Parse(r io.Reader) (*Scenario, error) {
	sc := &Scenario{
		Vehicle: VehicleSpec{
			ID:           1,
			Name:         "vehicle",
			Speed:        3,
			Acceleration: 1,
			MaxSteer:     1,
			Caps:         autodrive.Capabilities{Land: true},
		},
		Sight:  60,
		Levels: map[int][]string{},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	level, inMap := 0, false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, "map:") {
			z, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "map:")))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad level: %v", ErrInvalidScenario, lineNo, err)
			}
			level, inMap = z, true
			continue
		}
		if inMap {
			sc.Levels[level] = append(sc.Levels[level], line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected key: value", ErrInvalidScenario, lineNo)
		}
		if err := sc.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidScenario, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	if len(sc.Route) == 0 {
		return nil, fmt.Errorf("%w: no route", ErrInvalidScenario)
	}
	if len(sc.Levels) == 0 {
		return nil, fmt.Errorf("%w: no map", ErrInvalidScenario)
	}
	if len(sc.Vehicle.Parts) == 0 {
		sc.Vehicle.Parts = []autodrive.Part{{Mount: sc.Vehicle.Pivot}}
	}
	return sc, nil
}

func (sc *Scenario) set(key, value string) error {
	v := &sc.Vehicle
	var err error
	switch key {
	case "name":
		sc.Name = value
	case "vehicle":
		v.Name = value
	case "id":
		v.ID, err = strconv.Atoi(value)
	case "pivot":
		v.Pivot, err = parsePoint(value)
	case "part":
		var part autodrive.Part
		part, err = parsePart(value)
		v.Parts = append(v.Parts, part)
	case "start":
		v.Start, err = parseTripoint(value)
	case "face":
		var deg int
		deg, err = strconv.Atoi(value)
		v.Face = geo.OrientationFromDegrees(float64(deg))
	case "route":
		sc.Route, err = geo.ParseRoute(value)
	case "sight":
		sc.Sight, err = strconv.Atoi(value)
	case "land":
		v.Caps.Land, err = strconv.ParseBool(value)
	case "water":
		v.Caps.Water, err = strconv.ParseBool(value)
	case "air":
		v.Caps.Air, err = strconv.ParseBool(value)
	case "speed":
		v.Speed, err = strconv.Atoi(value)
	case "accel":
		v.Acceleration, err = strconv.Atoi(value)
	case "steer":
		v.MaxSteer, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func parseInts(s string, n int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(s string) (core.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return core.Point{}, err
	}
	return core.Point{X: v[0], Y: v[1]}, nil
}

func parseTripoint(s string) (core.Tripoint, error) {
	v, err := parseInts(s, 3)
	if err != nil {
		return core.Tripoint{}, err
	}
	return core.Tripoint{X: v[0], Y: v[1], Z: v[2]}, nil
}

// parsePart reads "x,y" or "x,y,rotor=d".
func parsePart(s string) (autodrive.Part, error) {
	coords, extra, _ := strings.Cut(s, ",rotor=")
	p, err := parsePoint(coords)
	if err != nil {
		return autodrive.Part{}, err
	}
	part := autodrive.Part{Mount: p}
	if extra != "" {
		part.RotorDiameter, err = strconv.Atoi(strings.TrimSpace(extra))
		if err != nil {
			return autodrive.Part{}, fmt.Errorf("rotor: %w", err)
		}
	}
	return part, nil
}
