// Package pattern turns a card shape, anchor and rotation into target tiles.
package pattern

import (
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
)

// Locator resolves coordinates to tiles.
type Locator interface {
	TileAt(x, y int) (grid.TileID, bool)
}

var line3Offsets = [4][]grid.Coord{
	{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
	{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
	{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: -2, Y: 0}},
	{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: -2}},
}

var square2x2Offsets = []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

// NormalizeRotation maps any integer onto 0..3.
func NormalizeRotation(rotation int) int {
	return ((rotation % 4) + 4) % 4
}

// Offsets returns the relative cells covered by p at the given rotation.
// Wind patterns have no cells.
func Offsets(p cards.Pattern, rotation int) []grid.Coord {
	r := NormalizeRotation(rotation)

	switch p {
	case cards.PatternLine3:
		return append([]grid.Coord(nil), line3Offsets[r]...)
	case cards.PatternSquare2x2:
		return append([]grid.Coord(nil), square2x2Offsets...)
	case cards.PatternTwoAdjacent:
		if r%2 == 0 {
			return []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}}
		}
		return []grid.Coord{{X: 0, Y: 0}, {X: 0, Y: 1}}
	case cards.PatternOneSpaceOne:
		if r%2 == 0 {
			return []grid.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}}
		}
		return []grid.Coord{{X: 0, Y: 0}, {X: 0, Y: 2}}
	default:
		return nil
	}
}

// Compute returns the tiles covered by p anchored at anchor, in offset order.
// Cells off the grid appear as grid.NoTile.
func Compute(loc Locator, anchor grid.Coord, p cards.Pattern, rotation int) []grid.TileID {
	offsets := Offsets(p, rotation)
	tiles := make([]grid.TileID, 0, len(offsets))
	for _, off := range offsets {
		c := anchor.Add(off)
		id, ok := loc.TileAt(c.X, c.Y)
		if !ok {
			id = grid.NoTile
		}
		tiles = append(tiles, id)
	}
	return tiles
}
