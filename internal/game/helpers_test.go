package game

import (
	"sync"
	"testing"

	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/pattern"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Hand indices of the fixed ten card hand.
const (
	cardLavaLine3 = iota
	cardLavaSquare
	cardWaterLine3
	cardWaterSquare
	cardBlockTwoAdjacent
	cardBlockOneSpaceOne
	cardWindNorth
	cardWindSouth
	cardWindEast
	cardWindWest
)

var board16 = grid.Layout{Shape: grid.ShapeSquare, Width: 16, Height: 16}

type recorder struct {
	mu     sync.Mutex
	events []rules.Event
}

func (r *recorder) listen(e rules.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []rules.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]rules.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) ofType(t rules.EventType) []rules.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []rules.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// newTestSession starts a seeded 16x16 session. Starting lava sits at
// (7,7),(8,7),(7,8),(8,8); with the default distance the bases of players
// 1 and 2 are (3,3) and (13,3).
func newTestSession(t *testing.T, settings Settings) (*Session, *recorder) {
	t.Helper()
	if settings.Seed == 0 {
		settings.Seed = 42
	}
	rec := &recorder{}
	s, err := NewSession("test-game", board16, settings, zaptest.NewLogger(t), rec.listen)
	require.NoError(t, err)
	return s, rec
}

func tileAt(t *testing.T, s *Session, x, y int) grid.TileID {
	t.Helper()
	id, ok := s.index.TileAt(x, y)
	require.True(t, ok, "no tile at (%d,%d)", x, y)
	return id
}

func (s *Session) targets(anchor grid.Coord, p cards.Pattern, rotation int) []grid.TileID {
	return pattern.Compute(s.index, anchor, p, rotation)
}

// openTurn sets the wind to North and places the mandatory lava at (x, y),
// which needs lava at (x, y-1).
func openTurn(t *testing.T, s *Session, x, y int) {
	t.Helper()
	s.mu.Lock()
	s.wind = grid.North
	s.mu.Unlock()
	require.NoError(t, s.PlaceMandatoryLavaAt(x, y))
}
