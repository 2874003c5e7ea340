package game

import (
	"fmt"

	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/pattern"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
)

// Preview describes where the selected card would land.
type Preview struct {
	Card     cards.Card    `json:"-"`
	CardName string        `json:"card"`
	Anchor   grid.Coord    `json:"anchor"`
	Rotation int           `json:"rotation"`
	Tiles    []grid.TileID `json:"tiles"` // pattern slots, grid.NoTile when off the board
	// Placeable are the tiles the card would act on.
	Placeable []grid.TileID `json:"placeable"`
	Valid     bool          `json:"valid"`
	Reason    string        `json:"reason,omitempty"`
}

// SelectCard picks the card to place. Wind cards have no pattern and are
// played immediately; the returned bool reports that case.
func (s *Session) SelectCard(index int) (cards.Card, bool, error) {
	var (
		card   cards.Card
		played bool
	)
	err := s.do("select_card", func() error {
		if err := s.checkCardPlay(); err != nil {
			return err
		}
		c, ok := s.currentHand().Card(index)
		if !ok {
			return domainerrors.New(domainerrors.CodeInvalidCardIndex,
				fmt.Sprintf("card index %d outside hand of %d", index, s.currentHand().Len()))
		}
		card = c

		if c.Type == cards.TypeWindDirection {
			if err := s.playCard(index, nil); err != nil {
				return err
			}
			played = true
			return nil
		}

		s.selected = index
		s.turns.ResetRotation()
		return nil
	})
	return card, played, err
}

// Selected returns the index of the selected card.
func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected >= 0
}

// RotatePattern turns the selected card's pattern a quarter turn.
func (s *Session) RotatePattern() (int, error) {
	var rotation int
	err := s.do("rotate_pattern", func() error {
		if _, err := s.selectedCard(); err != nil {
			return err
		}
		rotation = s.turns.Rotate()
		return nil
	})
	return rotation, err
}

// Rotation returns the current pattern rotation.
func (s *Session) Rotation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.RotationIndex()
}

// Preview evaluates the selected card anchored at (x, y) without placing it.
func (s *Session) Preview(x, y int) (Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.selectedCard()
	if err != nil {
		return Preview{}, err
	}
	return s.preview(card, grid.Coord{X: x, Y: y}), nil
}

func (s *Session) preview(card cards.Card, anchor grid.Coord) Preview {
	rotation := s.turns.RotationIndex()
	tiles := pattern.Compute(s.index, anchor, card.Pattern, rotation)
	result := s.validator.Evaluate(card.Type, tiles, s.board)
	return Preview{
		Card:      card,
		CardName:  card.Name(),
		Anchor:    anchor,
		Rotation:  rotation,
		Tiles:     tiles,
		Placeable: result.Placeable,
		Valid:     result.Valid,
		Reason:    result.Reason,
	}
}

// ConfirmPlacement plays the selected card anchored at (x, y).
// A rejected placement keeps the selection.
func (s *Session) ConfirmPlacement(x, y int) error {
	return s.do("confirm_placement", func() error {
		card, err := s.selectedCard()
		if err != nil {
			return err
		}
		tiles := pattern.Compute(s.index, grid.Coord{X: x, Y: y}, card.Pattern, s.turns.RotationIndex())
		return s.playCard(s.selected, tiles)
	})
}

// CancelPlacement drops the selection.
func (s *Session) CancelPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
	s.turns.ResetRotation()
}

func (s *Session) selectedCard() (cards.Card, error) {
	if err := s.checkPlaying(); err != nil {
		return cards.Card{}, err
	}
	if s.selected < 0 {
		return cards.Card{}, phaseViolation("no card selected")
	}
	card, ok := s.currentHand().Card(s.selected)
	if !ok {
		s.selected = -1
		return cards.Card{}, domainerrors.New(domainerrors.CodeInvalidCardIndex, "selected card is no longer in hand")
	}
	return card, nil
}
