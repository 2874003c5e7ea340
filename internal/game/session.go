// Package game runs lavaboard matches: turn flow, card resolution,
// eliminations and game over.
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lavaflow/lavaboard/internal/game/board"
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/placement"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
	"github.com/lavaflow/lavaboard/internal/platform/random"
	"go.uber.org/zap"
)

// GameState is the lifecycle state of a session.
type GameState int

const (
	GameStateInProgress GameState = iota
	GameStateFinished
	// GameStateAborted means elimination bookkeeping broke and the match stopped.
	GameStateAborted
)

var gameStateNames = map[GameState]string{
	GameStateInProgress: "IN_PROGRESS",
	GameStateFinished:   "FINISHED",
	GameStateAborted:    "ABORTED",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GAME_STATE_%d", int(s))
}

// MarshalText encodes the state by name.
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player is a seat at the table.
type Player struct {
	Number int    `json:"number"`
	Color  string `json:"color"`
}

var playerColors = []string{"red", "blue", "green", "yellow"}

// Base angles in degrees for players 1..4, measured from the board centre.
var baseAngles = []float64{225, 315, 45, 135}

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Settings configures a session.
type Settings struct {
	Players      int
	BaseDistance int
	// Seed for wind and deck shuffles; 0 picks a random seed.
	Seed     int64
	HandMode cards.HandMode
	HandSize int
	Deck     cards.Composition
}

// DefaultSettings returns a two player game with the fixed ten card hand.
func DefaultSettings() Settings {
	return Settings{
		Players:      2,
		BaseDistance: 7,
		HandMode:     cards.HandModeFull,
		HandSize:     5,
		Deck:         cards.DefaultComposition(),
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if s.Players < MinPlayers || s.Players > MaxPlayers {
		return domainerrors.New(domainerrors.CodeInvalidSettings,
			fmt.Sprintf("players must be between %d and %d, got %d", MinPlayers, MaxPlayers, s.Players))
	}
	if s.BaseDistance < 0 {
		return domainerrors.New(domainerrors.CodeInvalidSettings,
			fmt.Sprintf("base distance must not be negative, got %d", s.BaseDistance))
	}
	if err := s.Deck.Validate(); err != nil {
		return domainerrors.Wrap(domainerrors.CodeInvalidSettings, err.Error(), err)
	}
	switch s.HandMode {
	case cards.HandModeFull:
	case cards.HandModeDeck:
		if s.HandSize <= 0 {
			return domainerrors.New(domainerrors.CodeInvalidSettings,
				fmt.Sprintf("hand size must be positive, got %d", s.HandSize))
		}
		if s.Deck.Total() < s.HandSize*s.Players {
			return domainerrors.New(domainerrors.CodeInvalidSettings,
				fmt.Sprintf("deck of %d cards cannot deal %d hands of %d", s.Deck.Total(), s.Players, s.HandSize))
		}
	default:
		return domainerrors.New(domainerrors.CodeInvalidSettings,
			fmt.Sprintf("unknown hand mode %q", s.HandMode))
	}
	return nil
}

// Session is one match. All exported methods are safe for concurrent use.
// Events are published after the state lock is released, one action's batch
// at a time, so listeners may query the session but must not act on it.
type Session struct {
	id        string
	logger    *zap.Logger
	settings  Settings
	source    grid.Source
	index     *grid.Index
	validator *placement.Validator
	events    *rules.EventBus
	seed      int64
	rng       *rand.Rand

	// publishMu serialises actions together with their event delivery.
	publishMu sync.Mutex

	mu        sync.Mutex
	state     GameState
	board     *board.State
	turns     *rules.TurnManager
	wind      grid.Direction
	players   []Player
	hands     []*cards.Hand
	deck      *cards.Deck
	winner    int
	selected  int
	pending   []rules.Event
	startedAt time.Time
}

// NewSession builds the grid from src and starts a match. listeners are
// subscribed before the opening events are published.
func NewSession(id string, src grid.Source, settings Settings, logger *zap.Logger, listeners ...rules.Listener) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	index, err := grid.NewIndex(src.Tiles())
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInvalidSettings, "build grid: "+err.Error(), err)
	}

	seed := settings.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return nil, fmt.Errorf("seed session: %w", err)
		}
	}

	s := &Session{
		id:        id,
		logger:    logger.With(zap.String("game_id", id)),
		settings:  settings,
		source:    src,
		index:     index,
		validator: placement.NewValidator(index),
		events:    rules.NewEventBus(),
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}

	for _, listener := range listeners {
		s.events.Subscribe(listener)
	}
	_ = s.do("start", func() error {
		s.reset()
		return nil
	})

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Seed returns the seed driving wind and deck randomness.
func (s *Session) Seed() int64 {
	return s.seed
}

// Index returns the immutable tile index.
func (s *Session) Index() *grid.Index {
	return s.index
}

// Events returns the bus core events are published on.
func (s *Session) Events() *rules.EventBus {
	return s.events
}

// State returns the lifecycle state of the match.
func (s *Session) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Phase returns the phase of the current turn.
func (s *Session) Phase() rules.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.Phase()
}

// Wind returns the current wind direction.
func (s *Session) Wind() grid.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wind
}

// CurrentPlayer returns the 1-based number of the player to act.
func (s *Session) CurrentPlayer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.CurrentPlayer()
}

// Winner returns the winning player, or 0 while playing or after a draw.
func (s *Session) Winner() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

// Players returns the seats in turn order.
func (s *Session) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Player(nil), s.players...)
}

// Hand returns the cards held by player.
func (s *Session) Hand(player int) ([]cards.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player < 1 || player > len(s.hands) {
		return nil, false
	}
	return s.hands[player-1].Cards(), true
}

// TileState returns the occupancy of id.
func (s *Session) TileState(id grid.TileID) board.TileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.StateOf(id)
}

// IsEliminated reports whether player's base has been covered.
func (s *Session) IsEliminated(player int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.IsEliminated(player)
}

// Reset starts the match over. Subscribers are kept.
func (s *Session) Reset() {
	_ = s.do("reset", func() error {
		s.reset()
		return nil
	})
}

// do runs fn under the session lock, logs a rejection and then publishes
// the events fn produced. Actions and their publication are serialised.
func (s *Session) do(action string, fn func() error) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	events, err := s.apply(fn)
	if err != nil {
		code := domainerrors.CodeOf(err)
		if code.Fatal() {
			s.logger.Error("match aborted", zap.String("action", action), zap.Error(err))
		} else {
			s.logger.Warn("action rejected",
				zap.String("action", action),
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}
	}

	s.events.PublishBatch(events)
	return err
}

// apply runs fn under s.mu and returns the events it emitted.
func (s *Session) apply(fn func() error) ([]rules.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	err := fn()
	events := s.pending
	s.pending = nil
	return events, err
}

func (s *Session) emit(evt rules.Event) {
	evt.Wind = s.wind
	if evt.Turn == 0 && s.turns != nil {
		evt.Turn = s.turns.TurnNumber()
	}
	s.pending = append(s.pending, evt)
}

func (s *Session) tileEvent(eventType rules.EventType, id grid.TileID) rules.Event {
	coord, _ := s.index.CoordOf(id)
	return rules.NewTileEvent(eventType, s.id, id, coord)
}
