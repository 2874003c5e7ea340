package game

import (
	"fmt"

	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
	"go.uber.org/zap"
)

func phaseViolation(format string, args ...any) error {
	return domainerrors.New(domainerrors.CodePhaseViolation, fmt.Sprintf(format, args...))
}

// checkPlaying rejects actions once the match has ended. Caller holds s.mu.
func (s *Session) checkPlaying() error {
	switch s.state {
	case GameStateInProgress:
		return nil
	case GameStateAborted:
		return domainerrors.New(domainerrors.CodeEngineInvariantViolation, "match was aborted")
	default:
		return phaseViolation("game is over")
	}
}

// PlaceMandatoryLava places the turn's wind-constrained lava on id.
func (s *Session) PlaceMandatoryLava(id grid.TileID) error {
	return s.do("place_mandatory_lava", func() error {
		return s.placeMandatoryLava(id)
	})
}

// PlaceMandatoryLavaAt is PlaceMandatoryLava by coordinate.
func (s *Session) PlaceMandatoryLavaAt(x, y int) error {
	return s.do("place_mandatory_lava", func() error {
		id, ok := s.index.TileAt(x, y)
		if !ok {
			return domainerrors.WithMetadata(domainerrors.CodeTileOutOfGrid,
				fmt.Sprintf("no tile at (%d,%d)", x, y),
				map[string]string{"x": fmt.Sprint(x), "y": fmt.Sprint(y)})
		}
		return s.placeMandatoryLava(id)
	})
}

// CheckMandatoryLava reports why id cannot take the mandatory lava, or nil.
// It does not change any state.
func (s *Session) CheckMandatoryLava(id grid.TileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkMandatoryLava(id)
}

// CanPlaceMandatoryLava reports whether id is a legal mandatory placement now.
func (s *Session) CanPlaceMandatoryLava(id grid.TileID) bool {
	return s.CheckMandatoryLava(id) == nil
}

func (s *Session) checkMandatoryLava(id grid.TileID) error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if !s.turns.CanPlaceMandatoryLava() {
		return phaseViolation("mandatory lava already placed this turn")
	}

	coord, ok := s.index.CoordOf(id)
	if !ok {
		return domainerrors.WithMetadata(domainerrors.CodeTileOutOfGrid,
			fmt.Sprintf("tile %d is not on the board", id),
			map[string]string{"tile": fmt.Sprint(id)})
	}
	if s.board.IsOccupied(id) {
		return domainerrors.WithMetadata(domainerrors.CodeTileOccupied,
			fmt.Sprintf("tile %s is %s", coord, s.board.StateOf(id)),
			map[string]string{"tile": fmt.Sprint(id)})
	}

	upwind := coord.Sub(s.wind.Offset())
	upID, ok := s.index.TileAt(upwind.X, upwind.Y)
	if !ok || !s.board.IsLava(upID) {
		return domainerrors.WithMetadata(domainerrors.CodeWindMismatch,
			fmt.Sprintf("wind blows %s: tile %s needs lava at %s", s.wind, coord, upwind),
			map[string]string{"tile": fmt.Sprint(id), "wind": s.wind.String()})
	}
	return nil
}

func (s *Session) placeMandatoryLava(id grid.TileID) error {
	if err := s.checkMandatoryLava(id); err != nil {
		return err
	}

	if err := s.board.PlaceLava(id); err != nil {
		return err
	}
	s.emit(s.tileEvent(rules.EventLavaPlaced, id))
	s.checkElimination(id)
	s.turns.MarkMandatoryLavaPlaced()

	s.logger.Debug("mandatory lava placed",
		zap.Int("player", s.turns.CurrentPlayer()),
		zap.Int("tile", int(id)),
	)

	s.checkIfGameIsOver()
	return nil
}

// PlayCard plays the current player's card at cardIndex on targets.
// Off-grid targets (grid.NoTile) are ignored.
func (s *Session) PlayCard(cardIndex int, targets []grid.TileID) error {
	return s.do("play_card", func() error {
		return s.playCard(cardIndex, targets)
	})
}

func (s *Session) currentHand() *cards.Hand {
	return s.hands[s.turns.CurrentIndex()]
}

func (s *Session) checkCardPlay() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if s.turns.CanPlayCard() {
		return nil
	}
	if !s.turns.HasPlacedMandatoryLava() {
		return phaseViolation("place the mandatory lava before playing a card")
	}
	return phaseViolation("a card was already played this turn")
}

func (s *Session) playCard(cardIndex int, targets []grid.TileID) error {
	if err := s.checkCardPlay(); err != nil {
		return err
	}

	hand := s.currentHand()
	card, ok := hand.Play(cardIndex)
	if !ok {
		return domainerrors.WithMetadata(domainerrors.CodeInvalidCardIndex,
			fmt.Sprintf("card index %d outside hand of %d", cardIndex, hand.Len()),
			map[string]string{"index": fmt.Sprint(cardIndex)})
	}

	result := s.validator.Evaluate(card.Type, targets, s.board)
	if !result.Valid {
		return domainerrors.WithMetadata(domainerrors.CodePatternInvalid,
			fmt.Sprintf("%s cannot be placed there: %s", card.Name(), result.Reason),
			map[string]string{"card": card.Name(), "reason": result.Reason})
	}

	if err := s.resolveCard(card, result.Placeable); err != nil {
		return err
	}

	played := rules.NewPlayerEvent(rules.EventCardPlayed, s.id, s.turns.CurrentPlayer())
	played.Card = card.Name()
	s.emit(played)

	s.logger.Info("card played",
		zap.Int("player", s.turns.CurrentPlayer()),
		zap.String("card", card.Name()),
		zap.Int("turn", s.turns.TurnNumber()),
	)

	s.replaceCard(hand, cardIndex, card)
	s.turns.MarkCardPlayed()
	s.selected = -1
	s.turns.ResetRotation()

	if s.checkIfGameIsOver() {
		return nil
	}
	return s.advanceTurn()
}

// resolveCard applies an approved card. Water is checked for effect before
// anything changes so a card without effect leaves the board untouched.
func (s *Session) resolveCard(card cards.Card, tiles []grid.TileID) error {
	switch card.Type {
	case cards.TypeLava:
		for _, id := range tiles {
			if err := s.board.PlaceLava(id); err != nil {
				s.logger.Debug("lava skipped", zap.Int("tile", int(id)), zap.Error(err))
				continue
			}
			s.emit(s.tileEvent(rules.EventLavaPlaced, id))
			s.checkElimination(id)
		}

	case cards.TypeWater:
		if s.waterEffects(tiles) == 0 {
			return domainerrors.New(domainerrors.CodeNoEffect,
				fmt.Sprintf("%s has no effect there", card.Name()))
		}
		for _, id := range tiles {
			switch {
			case s.board.IsProtected(id):
				s.logger.Debug("water skipped protected lava", zap.Int("tile", int(id)))
			case s.board.IsBlock(id):
				s.logger.Debug("water skipped block", zap.Int("tile", int(id)))
			case s.board.IsLava(id):
				if removed, err := s.board.RemoveLava(id); err == nil && removed {
					s.emit(s.tileEvent(rules.EventLavaRemoved, id))
				}
			}
		}

	case cards.TypeBlock:
		for _, id := range tiles {
			if err := s.board.PlaceBlock(id); err != nil {
				s.logger.Debug("block skipped", zap.Int("tile", int(id)), zap.Error(err))
				continue
			}
			s.emit(s.tileEvent(rules.EventBlockPlaced, id))
		}

	case cards.TypeWindDirection:
		dir, ok := card.Pattern.Direction()
		if !ok {
			return domainerrors.New(domainerrors.CodePatternInvalid,
				fmt.Sprintf("%s has no direction", card.Name()))
		}
		s.wind = dir
		s.emit(rules.NewEvent(rules.EventWindChanged, s.id))
		s.logger.Info("wind changed", zap.Stringer("wind", dir))
	}
	return nil
}

// waterEffects counts tiles water would act on: unprotected lava is
// removed and empty tiles count as doused.
func (s *Session) waterEffects(tiles []grid.TileID) int {
	effects := 0
	for _, id := range tiles {
		if s.board.IsProtected(id) || s.board.IsBlock(id) {
			continue
		}
		effects++
	}
	return effects
}

func (s *Session) replaceCard(hand *cards.Hand, index int, card cards.Card) {
	if s.deck == nil {
		return
	}
	s.deck.Discard(card)
	if next, ok := s.deck.Draw(); ok {
		hand.Replace(index, next)
		return
	}
	hand.Remove(index)
}

// checkElimination eliminates the owner of id if it is a covered base.
func (s *Session) checkElimination(id grid.TileID) {
	player, eliminated := s.board.CheckElimination(id)
	if !eliminated {
		return
	}
	s.emit(rules.NewPlayerEvent(rules.EventEliminated, s.id, player))
	s.logger.Info("player eliminated",
		zap.Int("player", player),
		zap.Int("by_player", s.turns.CurrentPlayer()),
		zap.Int("tile", int(id)),
	)
}

// checkIfGameIsOver ends the match when at most one player is alive.
func (s *Session) checkIfGameIsOver() bool {
	if s.state != GameStateInProgress {
		return true
	}

	alive := s.turns.PlayerCount() - s.board.EliminatedCount()
	if alive > 1 {
		return false
	}

	s.winner = 0
	if alive == 1 {
		for _, p := range s.players {
			if !s.board.IsEliminated(p.Number) {
				s.winner = p.Number
				break
			}
		}
	}

	s.state = GameStateFinished
	s.turns.Finish()
	s.selected = -1

	over := rules.NewEvent(rules.EventGameOver, s.id)
	over.Winner = s.winner
	if s.winner == 0 {
		over.Description = "draw"
		s.logger.Info("game ended in draw")
	} else {
		over.Description = fmt.Sprintf("player %d wins", s.winner)
		s.logger.Info("game ended", zap.Int("winner", s.winner))
	}
	s.emit(over)
	return true
}

// advanceTurn passes the turn to the next alive player. Running out of
// alive players aborts the match.
func (s *Session) advanceTurn() error {
	next, err := s.turns.Advance(s.board.IsEliminated)
	if err != nil {
		s.state = GameStateAborted
		s.turns.Finish()
		return domainerrors.Wrap(domainerrors.CodeEngineInvariantViolation,
			"turn advance found no alive player", err)
	}

	s.emit(rules.NewPlayerEvent(rules.EventTurnStarted, s.id, next))
	s.logger.Debug("turn started", zap.Int("player", next), zap.Int("turn", s.turns.TurnNumber()))
	return nil
}
