// Package placement decides whether a set of target tiles is a legal play.
package placement

import (
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
)

// Topology provides the grid adjacency needed for validation.
type Topology interface {
	// Contains reports whether id is a tile of the grid
	Contains(id grid.TileID) bool
	// Neighbors returns the on-grid 4-neighbours of id
	Neighbors(id grid.TileID) []grid.TileID
}

// BoardView provides read access to tile occupancy.
type BoardView interface {
	IsLava(id grid.TileID) bool
	IsBlock(id grid.TileID) bool
	IsOccupied(id grid.TileID) bool
}

// Rejection reasons reported in Result.Reason.
const (
	ReasonNoTargets      = "no targets on the grid"
	ReasonNothingToPlace = "no placeable tiles"
	ReasonNoLavaContact  = "pattern does not touch existing lava"
	ReasonDisconnected   = "placeable tiles are not connected"
	ReasonUnknownCard    = "unknown card type"
)

// Result is the outcome of evaluating a placement.
type Result struct {
	Valid bool
	// Placeable holds the tiles the card would act on, in target order.
	Placeable []grid.TileID
	Reason    string
}

// Validator checks card placements against the board. It never mutates state.
type Validator struct {
	topo Topology
}

// NewValidator creates a validator over topo.
func NewValidator(topo Topology) *Validator {
	return &Validator{topo: topo}
}

// Validate reports whether targets are a legal placement for a card of type t.
func (v *Validator) Validate(t cards.Type, targets []grid.TileID, board BoardView) bool {
	return v.Evaluate(t, targets, board).Valid
}

// Evaluate validates targets and returns the tiles the card would act on.
// Off-grid entries and duplicates are dropped before any rule is applied.
func (v *Validator) Evaluate(t cards.Type, targets []grid.TileID, board BoardView) Result {
	onGrid := v.onGrid(targets)

	switch t {
	case cards.TypeLava:
		return v.evaluateLava(onGrid, board)
	case cards.TypeWater:
		if len(onGrid) == 0 {
			return Result{Reason: ReasonNoTargets}
		}
		return Result{Valid: true, Placeable: onGrid}
	case cards.TypeBlock:
		return v.evaluateBlock(onGrid, board)
	case cards.TypeWindDirection:
		return Result{Valid: true}
	default:
		return Result{Reason: ReasonUnknownCard}
	}
}

func (v *Validator) evaluateLava(targets []grid.TileID, board BoardView) Result {
	placeable := make([]grid.TileID, 0, len(targets))
	blocks := make([]grid.TileID, 0)

	for _, id := range targets {
		switch {
		case board.IsLava(id):
			continue
		case board.IsBlock(id):
			blocks = append(blocks, id)
		default:
			placeable = append(placeable, id)
		}
	}

	if len(placeable) == 0 {
		return Result{Reason: ReasonNothingToPlace}
	}
	if !v.TouchesLava(placeable, board) && !v.TouchesLava(blocks, board) {
		return Result{Placeable: placeable, Reason: ReasonNoLavaContact}
	}
	if !v.Connected(placeable) {
		return Result{Placeable: placeable, Reason: ReasonDisconnected}
	}
	return Result{Valid: true, Placeable: placeable}
}

func (v *Validator) evaluateBlock(targets []grid.TileID, board BoardView) Result {
	placeable := make([]grid.TileID, 0, len(targets))
	for _, id := range targets {
		if !board.IsOccupied(id) {
			placeable = append(placeable, id)
		}
	}

	if len(placeable) == 0 {
		return Result{Reason: ReasonNothingToPlace}
	}
	if !v.Connected(placeable) {
		return Result{Placeable: placeable, Reason: ReasonDisconnected}
	}
	return Result{Valid: true, Placeable: placeable}
}

// TouchesLava reports whether any tile has a 4-neighbour that is lava on the board.
func (v *Validator) TouchesLava(tiles []grid.TileID, board BoardView) bool {
	for _, id := range tiles {
		for _, n := range v.topo.Neighbors(id) {
			if board.IsLava(n) {
				return true
			}
		}
	}
	return false
}

// Connected reports whether tiles form one 4-connected component.
// An empty set is not connected; a single tile is.
func (v *Validator) Connected(tiles []grid.TileID) bool {
	if len(tiles) == 0 {
		return false
	}

	members := make(map[grid.TileID]bool, len(tiles))
	for _, id := range tiles {
		members[id] = true
	}

	visited := make(map[grid.TileID]bool, len(members))
	queue := []grid.TileID{tiles[0]}
	visited[tiles[0]] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range v.topo.Neighbors(current) {
			if members[n] && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	return len(visited) == len(members)
}

func (v *Validator) onGrid(targets []grid.TileID) []grid.TileID {
	out := make([]grid.TileID, 0, len(targets))
	seen := make(map[grid.TileID]bool, len(targets))
	for _, id := range targets {
		if id == grid.NoTile || !v.topo.Contains(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
