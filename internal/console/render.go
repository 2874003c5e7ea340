package console

import (
	"fmt"
	"strings"

	"github.com/lavaflow/lavaboard/internal/game"
	"github.com/lavaflow/lavaboard/internal/game/board"
)

// Board symbols.
const (
	symbolMissing   = ' '
	symbolEmpty     = '.'
	symbolLava      = '*'
	symbolProtected = '@'
	symbolBlock     = '#'
	symbolLostBase  = 'X'
)

// Symbol returns the character drawn for t. Uncovered bases show the
// owner's number.
func Symbol(t game.TileView) rune {
	lava := t.State == board.Lava.String()
	switch {
	case t.BaseOf > 0 && lava:
		return symbolLostBase
	case t.BaseOf > 0:
		return rune('0' + t.BaseOf)
	case lava && t.Protected:
		return symbolProtected
	case lava:
		return symbolLava
	case t.State == board.Block.String():
		return symbolBlock
	default:
		return symbolEmpty
	}
}

// rows draws the board top row first, one character per column.
func rows(view game.GameView) []string {
	width := view.Max.X - view.Min.X + 1
	height := view.Max.Y - view.Min.Y + 1

	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(string(symbolMissing), width))
	}
	for _, t := range view.Tiles {
		row := view.Max.Y - t.Y
		cells[row][t.X-view.Min.X] = Symbol(t)
	}

	out := make([]string, height)
	for i, r := range cells {
		out[i] = string(r)
	}
	return out
}

// Render draws view as text: a status line, the board with north up and
// one line per player.
func Render(view game.GameView) string {
	var b strings.Builder

	b.WriteString(status(view))
	b.WriteByte('\n')

	for i, row := range rows(view) {
		y := view.Max.Y - i
		b.WriteString(fmt.Sprintf("%3d ", y))
		for _, r := range row {
			b.WriteRune(r)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	b.WriteString("    ")
	for x := view.Min.X; x <= view.Max.X; x++ {
		b.WriteString(fmt.Sprintf("%d ", ((x%10)+10)%10))
	}
	b.WriteByte('\n')

	for _, p := range view.Players {
		b.WriteString(fmt.Sprintf("P%d %-6s ", p.Number, p.Color))
		switch {
		case p.Eliminated:
			b.WriteString("eliminated")
		case p.Base != nil:
			b.WriteString("base " + p.Base.String())
		default:
			b.WriteString("no base")
		}
		if p.Number == view.CurrentPlayer && view.State == game.GameStateInProgress {
			b.WriteString("  <")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func status(view game.GameView) string {
	switch view.State {
	case game.GameStateFinished:
		if view.Winner == 0 {
			return "game over: draw"
		}
		return fmt.Sprintf("game over: player %d wins", view.Winner)
	case game.GameStateAborted:
		return "match aborted"
	}
	return fmt.Sprintf("turn %d  player %d  wind %s  %s",
		view.Turn, view.CurrentPlayer, view.Wind, view.Phase)
}
