// Package console maps text commands onto a game session and draws the
// board as text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/lavaflow/lavaboard/internal/game"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
	"go.uber.org/zap"
)

const helpText = `commands:
  lava X Y       place the mandatory lava
  select N       select card N from the hand (wind cards are played at once)
  rotate         rotate the selected pattern
  preview X Y    show where the selected card would land
  confirm X Y    play the selected card anchored at X Y
  cancel         drop the selection
  hand           list the current player's cards
  show           draw the board
  reset          start the match over
  help           show this text
  quit           leave
`

var errNoGame = errors.New("no game started")

// Console drives one session from text input. Create it before the
// session so Listen can be registered ahead of the opening events.
type Console struct {
	logger *zap.Logger

	mu      sync.Mutex
	out     io.Writer
	session *game.Session
}

// New creates a console writing to out.
func New(out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		logger: logger,
		out:    out,
	}
}

// SetSession selects the session commands act on.
func (c *Console) SetSession(session *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *Console) current() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Listen prints core events. It is a rules.Listener.
func (c *Console) Listen(e rules.Event) {
	switch e.Type {
	case rules.EventLavaPlaced, rules.EventLavaRemoved, rules.EventBlockPlaced:
		c.printf("> %s %s\n", e.Type, coordOf(e))
	case rules.EventWindChanged:
		c.printf("> %s %s\n", e.Type, e.Wind)
	case rules.EventCardPlayed:
		c.printf("> player %d played %s\n", e.Player, e.Card)
	case rules.EventEliminated:
		c.printf("> player %d eliminated\n", e.Player)
	case rules.EventTurnStarted:
		c.printf("> turn %d: player %d, wind %s\n", e.Turn, e.Player, e.Wind)
	case rules.EventGameOver:
		c.printf("> game over: %s\n", e.Description)
	}
}

func coordOf(e rules.Event) string {
	if e.Coord == nil {
		return fmt.Sprintf("tile %d", e.Tile)
	}
	return e.Coord.String()
}

// Run reads commands from in until quit, end of input or ctx is done.
// Rejected commands are reported and reading continues.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	session := c.current()
	if session == nil {
		return errNoGame
	}
	scanner := bufio.NewScanner(in)
	c.printf("%s", Render(session.View()))

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := c.Execute(scanner.Text())
		if err != nil {
			c.printf("error: %s\n", describe(err))
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func describe(err error) string {
	code := domainerrors.CodeOf(err)
	if code == domainerrors.CodeUnknown {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", code, err.Error())
}

// Execute runs one command line. It reports whether the console should stop.
func (c *Console) Execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	c.logger.Debug("console command", zap.String("command", cmd), zap.Strings("args", args))

	session := c.current()
	if session == nil {
		return false, errNoGame
	}

	switch cmd {
	case "lava":
		x, y, err := parseXY(args)
		if err != nil {
			return false, err
		}
		return false, session.PlaceMandatoryLavaAt(x, y)

	case "select":
		n, err := parseInts(args, 1)
		if err != nil {
			return false, err
		}
		card, played, err := session.SelectCard(n[0] - 1)
		if err != nil {
			return false, err
		}
		if !played {
			c.printf("selected %s\n", card.Name())
		}
		return false, nil

	case "rotate":
		rotation, err := session.RotatePattern()
		if err != nil {
			return false, err
		}
		c.printf("rotation %d\n", rotation)
		return false, nil

	case "preview":
		x, y, err := parseXY(args)
		if err != nil {
			return false, err
		}
		preview, err := session.Preview(x, y)
		if err != nil {
			return false, err
		}
		c.printf("%s\n", formatPreview(session.Index(), preview))
		return false, nil

	case "confirm":
		x, y, err := parseXY(args)
		if err != nil {
			return false, err
		}
		return false, session.ConfirmPlacement(x, y)

	case "cancel":
		session.CancelPlacement()
		return false, nil

	case "hand":
		view := session.View()
		for _, p := range view.Players {
			if p.Number != view.CurrentPlayer {
				continue
			}
			for i, name := range p.Hand {
				c.printf("%2d %s\n", i+1, name)
			}
		}
		return false, nil

	case "show":
		c.printf("%s", Render(session.View()))
		return false, nil

	case "reset":
		session.Reset()
		c.printf("%s", Render(session.View()))
		return false, nil

	case "help", "?":
		c.printf("%s", helpText)
		return false, nil

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func formatPreview(index *grid.Index, p game.Preview) string {
	coords := make([]string, 0, len(p.Placeable))
	for _, id := range p.Placeable {
		if c, ok := index.CoordOf(id); ok {
			coords = append(coords, c.String())
		}
	}
	verdict := "valid"
	if !p.Valid {
		verdict = "invalid: " + p.Reason
	}
	return fmt.Sprintf("%s at %s rotation %d -> %s (%s)",
		p.CardName, p.Anchor, p.Rotation, strings.Join(coords, " "), verdict)
}

func parseXY(args []string) (int, int, error) {
	n, err := parseInts(args, 2)
	if err != nil {
		return 0, 0, err
	}
	return n[0], n[1], nil
}

func parseInts(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d numbers, got %d", want, len(args))
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", a, err)
		}
		out[i] = n
	}
	return out, nil
}
