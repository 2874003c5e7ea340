package console

import (
	"strings"
	"testing"

	"github.com/lavaflow/lavaboard/internal/game"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		name string
		tile game.TileView
		want rune
	}{
		{"empty", game.TileView{State: "EMPTY"}, '.'},
		{"lava", game.TileView{State: "LAVA"}, '*'},
		{"protected lava", game.TileView{State: "LAVA", Protected: true}, '@'},
		{"block", game.TileView{State: "BLOCK"}, '#'},
		{"base", game.TileView{State: "EMPTY", BaseOf: 3}, '3'},
		{"covered base", game.TileView{State: "LAVA", BaseOf: 2}, 'X'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Symbol(tt.tile))
		})
	}
}

func TestRowsPutNorthUp(t *testing.T) {
	settings := game.DefaultSettings()
	settings.Seed = 3
	s, err := game.NewSession("render", grid.Layout{Shape: grid.ShapeSquare, Width: 16, Height: 16}, settings, zaptest.NewLogger(t))
	require.NoError(t, err)

	view := s.View()
	lines := rows(view)
	require.Len(t, lines, 16)

	at := func(x, y int) byte { return lines[view.Max.Y-y][x-view.Min.X] }
	assert.Equal(t, byte('1'), at(3, 3))
	assert.Equal(t, byte('2'), at(13, 3))
	assert.Equal(t, byte('@'), at(7, 7))
	assert.Equal(t, byte('.'), at(0, 15))
}

func TestRowsLeaveGapsOutsideCircle(t *testing.T) {
	settings := game.DefaultSettings()
	settings.Seed = 3
	s, err := game.NewSession("circle", grid.Layout{Shape: grid.ShapeCircle, Width: 16, Height: 16}, settings, zaptest.NewLogger(t))
	require.NoError(t, err)

	view := s.View()
	lines := rows(view)
	assert.Equal(t, byte(' '), lines[0][0], "corner is outside the circle")
}

func TestRenderGameOver(t *testing.T) {
	view := game.GameView{
		State:  game.GameStateFinished,
		Winner: 2,
		Max:    grid.Coord{X: 1, Y: 0},
		Tiles: []game.TileView{
			{X: 0, Y: 0, State: "LAVA", BaseOf: 1},
			{X: 1, Y: 0, State: "EMPTY", BaseOf: 2},
		},
		Players: []game.PlayerView{
			{Number: 1, Color: "red", Eliminated: true},
			{Number: 2, Color: "blue", Base: &grid.Coord{X: 1, Y: 0}},
		},
	}

	out := Render(view)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "game over: player 2 wins", lines[0])
	assert.Equal(t, "  0 X 2 ", lines[1])
	assert.Contains(t, lines[3], "eliminated")
	assert.Contains(t, lines[4], "base (1,0)")

	view.Winner = 0
	assert.True(t, strings.HasPrefix(Render(view), "game over: draw"))
}
