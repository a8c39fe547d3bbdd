package scenario

import (
	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/pkg/core"
)

// ForeignVehicleID marks cells taken by a vehicle other than the driven one.
const ForeignVehicleID = 99

var glyphs = map[byte]autodrive.Tile{
	'.': {MoveCost: 2},                                // pavement
	'"': {MoveCost: 2},                                // grass
	'#': {Bashable: true},                             // wall
	'~': {Swimmable: true, Liquid: true, MoveCost: 8}, // deep water
	'_': {OpenAir: true},
	'^': {MoveCost: 2, RampUp: true},
	'v': {MoveCost: 2, RampDown: true},
	'T': {MoveCost: 2, Trap: true},
	'M': {MoveCost: 2, Creature: true},
	'h': {MoveCost: 2, FurnitureMoveCost: 2},
	'V': {MoveCost: 2, VehicleID: ForeignVehicleID},
}

var nullTile = autodrive.Tile{Null: true}

// World is the static terrain of a scenario.
type World struct {
	levels map[int][]string
}

// NewWorld wraps parsed map levels.
func NewWorld(levels map[int][]string) *World {
	return &World{levels: levels}
}

// Tile returns the terrain at p; anything off the map is null terrain.
func (w *World) Tile(p core.Tripoint) autodrive.Tile {
	rows, ok := w.levels[p.Z]
	if !ok || p.Y < 0 || p.Y >= len(rows) {
		return nullTile
	}
	row := rows[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return nullTile
	}
	if t, ok := glyphs[row[p.X]]; ok {
		return t
	}
	return nullTile
}

// Set replaces the glyph at p. Setting outside the existing rows grows the level.
func (w *World) Set(p core.Tripoint, glyph byte) {
	rows := w.levels[p.Z]
	for len(rows) <= p.Y {
		rows = append(rows, "")
	}
	row := []byte(rows[p.Y])
	for len(row) <= p.X {
		row = append(row, ' ')
	}
	row[p.X] = glyph
	rows[p.Y] = string(row)
	w.levels[p.Z] = rows
}

// blocks reports whether a vehicle body cannot share a cell with t.
func blocks(t autodrive.Tile, vehicleID int) bool {
	return t.Null || t.Bashable || t.FurnitureMoveCost > 0 || t.Creature ||
		(t.VehicleID != 0 && t.VehicleID != vehicleID)
}
