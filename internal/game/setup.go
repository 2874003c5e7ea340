package game

import (
	"math"
	"time"

	"github.com/lavaflow/lavaboard/internal/game/board"
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	"go.uber.org/zap"
)

// reset reinitialises every entity of the match. Caller holds s.mu.
func (s *Session) reset() {
	s.state = GameStateInProgress
	s.winner = 0
	s.selected = -1
	s.startedAt = time.Now()
	s.board = board.NewState(s.index.Len())
	s.turns = rules.NewTurnManager(s.settings.Players)

	s.players = make([]Player, s.settings.Players)
	for i := range s.players {
		s.players[i] = Player{Number: i + 1, Color: playerColors[i]}
	}

	s.placeInitialLava()
	s.placeBases()
	s.wind = grid.Direction(s.rng.Intn(4))
	s.dealHands()

	started := rules.NewEvent(rules.EventGameStarted, s.id)
	started.Description = "game started"
	s.emit(started)
	s.emit(rules.NewPlayerEvent(rules.EventTurnStarted, s.id, s.turns.CurrentPlayer()))

	s.logger.Info("game started",
		zap.Int("players", len(s.players)),
		zap.Int("tiles", s.index.Len()),
		zap.Stringer("wind", s.wind),
		zap.String("hand_mode", string(s.settings.HandMode)),
	)
}

// StartingLavaCoords returns the four protected tiles around center.
func StartingLavaCoords(center grid.Coord) []grid.Coord {
	return []grid.Coord{
		{X: center.X - 1, Y: center.Y - 1},
		{X: center.X, Y: center.Y - 1},
		{X: center.X - 1, Y: center.Y},
		{X: center.X, Y: center.Y},
	}
}

func (s *Session) placeInitialLava() {
	for _, c := range StartingLavaCoords(s.source.Center()) {
		id, ok := s.index.TileAt(c.X, c.Y)
		if !ok {
			s.logger.Warn("starting lava off grid", zap.Stringer("coord", c))
			continue
		}
		if err := s.board.PlaceInitialLava(id); err != nil {
			s.logger.Warn("starting lava not placed", zap.Stringer("coord", c), zap.Error(err))
		}
	}
}

// BaseCoord returns where player's base goes: at the player's angle and
// distance from center, rounded and clamped into [lo, hi].
func BaseCoord(player int, center grid.Coord, distance int, lo, hi grid.Coord) grid.Coord {
	angle := baseAngles[(player-1)%len(baseAngles)] * math.Pi / 180
	x := center.X + int(math.Round(math.Cos(angle)*float64(distance)))
	y := center.Y + int(math.Round(math.Sin(angle)*float64(distance)))
	return grid.Coord{
		X: min(max(x, lo.X), hi.X),
		Y: min(max(y, lo.Y), hi.Y),
	}
}

func (s *Session) placeBases() {
	lo, hi := s.index.Bounds()
	center := s.source.Center()

	for _, p := range s.players {
		c := BaseCoord(p.Number, center, s.settings.BaseDistance, lo, hi)
		id, ok := s.index.TileAt(c.X, c.Y)
		if !ok {
			s.logger.Warn("base off grid, player has no base",
				zap.Int("player", p.Number), zap.Stringer("coord", c))
			continue
		}
		if s.board.IsOccupied(id) {
			s.logger.Warn("base tile occupied, player has no base",
				zap.Int("player", p.Number), zap.Stringer("coord", c))
			continue
		}
		if err := s.board.SetBase(p.Number, id); err != nil {
			s.logger.Warn("base not placed", zap.Int("player", p.Number), zap.Error(err))
			continue
		}
		s.logger.Debug("base placed", zap.Int("player", p.Number), zap.Stringer("coord", c))
	}
}

func (s *Session) dealHands() {
	s.hands = make([]*cards.Hand, len(s.players))
	s.deck = nil

	if s.settings.HandMode != cards.HandModeDeck {
		for i, p := range s.players {
			s.hands[i] = cards.NewFullHand(p.Number)
		}
		return
	}

	s.deck = cards.NewDeck(s.settings.Deck, s.rng)
	for i, p := range s.players {
		dealt := make([]cards.Card, 0, s.settings.HandSize)
		for len(dealt) < s.settings.HandSize {
			c, ok := s.deck.Draw()
			if !ok {
				break
			}
			dealt = append(dealt, c)
		}
		s.hands[i] = cards.NewHand(p.Number, dealt)
	}
}
