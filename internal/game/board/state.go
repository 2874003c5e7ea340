// Package board holds tile occupancy, protected lava, bases and eliminations.
package board

import (
	"fmt"
	"sort"

	"github.com/lavaflow/lavaboard/internal/game/grid"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
)

// TileState is the occupancy of a tile.
type TileState int

const (
	Empty TileState = iota
	Lava
	Block
)

var tileStateNames = map[TileState]string{
	Empty: "EMPTY",
	Lava:  "LAVA",
	Block: "BLOCK",
}

func (s TileState) String() string {
	if name, ok := tileStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TILE_STATE_%d", int(s))
}

type tile struct {
	state     TileState
	protected bool
}

// State is the mutable board. It is not safe for concurrent use.
type State struct {
	tiles      []tile
	bases      map[grid.TileID]int
	baseOf     map[int]grid.TileID
	eliminated map[int]bool
	order      []int
}

// NewState creates an empty board with size tiles.
func NewState(size int) *State {
	return &State{
		tiles:      make([]tile, size),
		bases:      make(map[grid.TileID]int),
		baseOf:     make(map[int]grid.TileID),
		eliminated: make(map[int]bool),
	}
}

// Len returns the number of tiles.
func (s *State) Len() int {
	return len(s.tiles)
}

func (s *State) contains(id grid.TileID) bool {
	return id >= 0 && int(id) < len(s.tiles)
}

func outOfGrid(id grid.TileID) error {
	return domainerrors.WithMetadata(domainerrors.CodeTileOutOfGrid,
		fmt.Sprintf("tile %d is not on the board", id),
		map[string]string{"tile": fmt.Sprint(id)})
}

func occupied(id grid.TileID, state TileState) error {
	return domainerrors.WithMetadata(domainerrors.CodeTileOccupied,
		fmt.Sprintf("tile %d is already %s", id, state),
		map[string]string{"tile": fmt.Sprint(id), "state": state.String()})
}

// PlaceLava turns an empty tile into lava.
func (s *State) PlaceLava(id grid.TileID) error {
	if !s.contains(id) {
		return outOfGrid(id)
	}
	if st := s.tiles[id].state; st != Empty {
		return occupied(id, st)
	}
	s.tiles[id].state = Lava
	return nil
}

// PlaceInitialLava places lava and marks it protected for the rest of the game.
func (s *State) PlaceInitialLava(id grid.TileID) error {
	if err := s.PlaceLava(id); err != nil {
		return err
	}
	s.tiles[id].protected = true
	return nil
}

// PlaceBlock turns an empty tile into a block.
func (s *State) PlaceBlock(id grid.TileID) error {
	if !s.contains(id) {
		return outOfGrid(id)
	}
	if st := s.tiles[id].state; st != Empty {
		return occupied(id, st)
	}
	s.tiles[id].state = Block
	return nil
}

// RemoveLava empties a lava tile. It reports whether lava was removed.
// Protected tiles are left untouched and return TILE_PROTECTED.
// Tiles that are not lava are left untouched.
func (s *State) RemoveLava(id grid.TileID) (bool, error) {
	if !s.contains(id) {
		return false, outOfGrid(id)
	}
	t := &s.tiles[id]
	if t.protected {
		return false, domainerrors.WithMetadata(domainerrors.CodeTileProtected,
			fmt.Sprintf("tile %d is protected starting lava", id),
			map[string]string{"tile": fmt.Sprint(id)})
	}
	if t.state != Lava {
		return false, nil
	}
	t.state = Empty
	return true, nil
}

// StateOf returns the occupancy of id; off-board tiles read as Empty.
func (s *State) StateOf(id grid.TileID) TileState {
	if !s.contains(id) {
		return Empty
	}
	return s.tiles[id].state
}

// IsLava reports whether id holds lava.
func (s *State) IsLava(id grid.TileID) bool {
	return s.StateOf(id) == Lava
}

// IsBlock reports whether id holds a block.
func (s *State) IsBlock(id grid.TileID) bool {
	return s.StateOf(id) == Block
}

// IsOccupied reports whether id holds lava or a block.
func (s *State) IsOccupied(id grid.TileID) bool {
	return s.StateOf(id) != Empty
}

// IsProtected reports whether id is one of the starting lava tiles.
func (s *State) IsProtected(id grid.TileID) bool {
	return s.contains(id) && s.tiles[id].protected
}

// SetBase records id as the base of player.
func (s *State) SetBase(player int, id grid.TileID) error {
	if !s.contains(id) {
		return outOfGrid(id)
	}
	if owner, ok := s.bases[id]; ok && owner != player {
		return fmt.Errorf("tile %d is already the base of player %d", id, owner)
	}
	if prev, ok := s.baseOf[player]; ok {
		delete(s.bases, prev)
	}
	s.bases[id] = player
	s.baseOf[player] = id
	return nil
}

// BaseOwner returns the player whose base is on id.
func (s *State) BaseOwner(id grid.TileID) (int, bool) {
	player, ok := s.bases[id]
	return player, ok
}

// BaseTile returns the base of player.
func (s *State) BaseTile(player int) (grid.TileID, bool) {
	id, ok := s.baseOf[player]
	return id, ok
}

// CheckElimination eliminates the owner of id if id is a lava-covered base.
// It returns the player eliminated by this call.
func (s *State) CheckElimination(id grid.TileID) (int, bool) {
	if !s.IsLava(id) {
		return 0, false
	}
	player, ok := s.bases[id]
	if !ok || s.eliminated[player] {
		return 0, false
	}
	s.eliminated[player] = true
	s.order = append(s.order, player)
	return player, true
}

// IsEliminated reports whether player has lost their base.
func (s *State) IsEliminated(player int) bool {
	return s.eliminated[player]
}

// EliminatedCount returns the number of eliminated players.
func (s *State) EliminatedCount() int {
	return len(s.eliminated)
}

// Eliminated returns eliminated players in elimination order.
func (s *State) Eliminated() []int {
	return append([]int(nil), s.order...)
}

// LavaTiles returns all lava tiles in id order.
func (s *State) LavaTiles() []grid.TileID {
	return s.tilesIn(Lava)
}

// BlockTiles returns all block tiles in id order.
func (s *State) BlockTiles() []grid.TileID {
	return s.tilesIn(Block)
}

// ProtectedTiles returns the protected starting lava in id order.
func (s *State) ProtectedTiles() []grid.TileID {
	out := make([]grid.TileID, 0, 4)
	for i, t := range s.tiles {
		if t.protected {
			out = append(out, grid.TileID(i))
		}
	}
	return out
}

// Bases returns player number to base tile.
func (s *State) Bases() map[int]grid.TileID {
	out := make(map[int]grid.TileID, len(s.baseOf))
	for player, id := range s.baseOf {
		out[player] = id
	}
	return out
}

// Players returns the players that have a base, ascending.
func (s *State) Players() []int {
	players := make([]int, 0, len(s.baseOf))
	for player := range s.baseOf {
		players = append(players, player)
	}
	sort.Ints(players)
	return players
}

func (s *State) tilesIn(state TileState) []grid.TileID {
	out := make([]grid.TileID, 0)
	for i, t := range s.tiles {
		if t.state == state {
			out = append(out, grid.TileID(i))
		}
	}
	return out
}
