package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OCAP2/autodrive/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidRoute is returned when a route string cannot be parsed.
var ErrInvalidRoute = errors.New("invalid route provided")

// ParseRoute parses a JSON array of region coordinates.
// Input format: "[[x1,y1],[x2,y2,z2],...]"; a missing z is 0.
func ParseRoute(input string) ([]core.Tripoint, error) {
	var coords [][]int
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: route is empty", ErrInvalidRoute)
	}

	route := make([]core.Tripoint, len(coords))
	for i, c := range coords {
		if len(c) < 2 || len(c) > 3 {
			return nil, fmt.Errorf("%w: coordinate %d has %d values", ErrInvalidRoute, i, len(c))
		}
		route[i] = core.Tripoint{X: c[0], Y: c[1]}
		if len(c) == 3 {
			route[i].Z = c[2]
		}
	}

	// consecutive regions must be orthogonal neighbours
	for i := 1; i < len(route); i++ {
		if _, ok := OMTDirection(route[i-1], route[i]); !ok {
			return nil, fmt.Errorf("%w: %s and %s are not adjacent", ErrInvalidRoute, route[i-1], route[i])
		}
	}
	return route, nil
}

// PathLineString converts a planned path into an XYZ line string. A path
// whose steps all share one XY cell has no line representation.
func PathLineString(path []core.Tripoint) (geom.LineString, error) {
	flat := make([]float64, 0, len(path)*3)
	for _, p := range path {
		flat = append(flat, float64(p.X), float64(p.Y), float64(p.Z))
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXYZ))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("path line string: %w", err)
	}
	return ls, nil
}

// PathWKT renders a planned path as WKT. Paths shorter than two points
// yield "".
func PathWKT(path []core.Tripoint) (string, error) {
	if len(path) < 2 {
		return "", nil
	}
	ls, err := PathLineString(path)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}
