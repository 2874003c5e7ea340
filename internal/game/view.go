package game

import (
	"time"

	"github.com/lavaflow/lavaboard/internal/game/board"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
)

// GameView is a read-only snapshot of a session for renderers.
type GameView struct {
	GameID        string         `json:"game_id"`
	State         GameState      `json:"state"`
	Phase         string         `json:"phase"`
	Turn          int            `json:"turn"`
	CurrentPlayer int            `json:"current_player"`
	Wind          grid.Direction `json:"wind"`
	Winner        int            `json:"winner"`
	Rotation      int            `json:"rotation"`
	Selected      int            `json:"selected"`
	Min           grid.Coord     `json:"min"`
	Max           grid.Coord     `json:"max"`
	Tiles         []TileView     `json:"tiles"`
	Players       []PlayerView   `json:"players"`
	StartedAt     time.Time      `json:"started_at"`
}

// TileView is one tile of a GameView.
type TileView struct {
	ID        grid.TileID `json:"id"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	State     string      `json:"state"`
	Protected bool        `json:"protected,omitempty"`
	BaseOf    int         `json:"base_of,omitempty"`
}

// PlayerView is one seat of a GameView.
type PlayerView struct {
	Number     int         `json:"number"`
	Color      string      `json:"color"`
	Eliminated bool        `json:"eliminated"`
	Base       *grid.Coord `json:"base,omitempty"`
	Hand       []string    `json:"hand"`
}

// View returns a snapshot of the session.
func (s *Session) View() GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildView()
}

func (s *Session) buildView() GameView {
	lo, hi := s.index.Bounds()
	view := GameView{
		GameID:        s.id,
		State:         s.state,
		Phase:         s.turns.Phase().String(),
		Turn:          s.turns.TurnNumber(),
		CurrentPlayer: s.turns.CurrentPlayer(),
		Wind:          s.wind,
		Winner:        s.winner,
		Rotation:      s.turns.RotationIndex(),
		Selected:      s.selected,
		Min:           lo,
		Max:           hi,
		StartedAt:     s.startedAt,
	}

	for _, t := range s.index.Tiles() {
		tv := TileView{
			ID:        t.ID,
			X:         t.Coord.X,
			Y:         t.Coord.Y,
			State:     s.board.StateOf(t.ID).String(),
			Protected: s.board.IsProtected(t.ID),
		}
		if owner, ok := s.board.BaseOwner(t.ID); ok {
			tv.BaseOf = owner
		}
		view.Tiles = append(view.Tiles, tv)
	}

	for i, p := range s.players {
		pv := PlayerView{
			Number:     p.Number,
			Color:      p.Color,
			Eliminated: s.board.IsEliminated(p.Number),
		}
		if id, ok := s.board.BaseTile(p.Number); ok {
			if c, ok := s.index.CoordOf(id); ok {
				pv.Base = &c
			}
		}
		for _, c := range s.hands[i].Cards() {
			pv.Hand = append(pv.Hand, c.Name())
		}
		view.Players = append(view.Players, pv)
	}

	return view
}

// Tile returns the view of the tile at (x, y).
func (v GameView) Tile(x, y int) (TileView, bool) {
	for _, t := range v.Tiles {
		if t.X == x && t.Y == y {
			return t, true
		}
	}
	return TileView{}, false
}

// IsPhase reports whether the view's phase is p.
func (v GameView) IsPhase(p rules.Phase) bool {
	return v.Phase == p.String()
}

// LavaCount returns the number of lava tiles in the view.
func (v GameView) LavaCount() int {
	n := 0
	for _, t := range v.Tiles {
		if t.State == board.Lava.String() {
			n++
		}
	}
	return n
}
