package cards

import (
	"fmt"
	"strings"
)

// HandMode selects how hands are filled.
type HandMode string

const (
	// HandModeFull gives every player the fixed set of ten cards.
	HandModeFull HandMode = "full"
	// HandModeDeck deals from a shared shuffled deck.
	HandModeDeck HandMode = "deck"
)

// ParseHandMode parses a hand mode name.
func ParseHandMode(s string) (HandMode, error) {
	switch HandMode(strings.ToLower(strings.TrimSpace(s))) {
	case HandModeFull:
		return HandModeFull, nil
	case HandModeDeck:
		return HandModeDeck, nil
	default:
		return "", fmt.Errorf("unknown hand mode %q", s)
	}
}

// Hand is the ordered set of cards held by one player.
type Hand struct {
	player int
	cards  []Card
}

// NewHand creates a hand holding the given cards.
func NewHand(player int, cards []Card) *Hand {
	return &Hand{
		player: player,
		cards:  append([]Card(nil), cards...),
	}
}

// NewFullHand creates a hand with one card of each definition.
func NewFullHand(player int) *Hand {
	return NewHand(player, FullSet())
}

// Player returns the 1-based owner number.
func (h *Hand) Player() int {
	return h.player
}

// Len returns the number of cards held.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Card returns the card at index.
func (h *Hand) Card(index int) (Card, bool) {
	if index < 0 || index >= len(h.cards) {
		return Card{}, false
	}
	return h.cards[index], true
}

// Cards returns a copy of the held cards.
func (h *Hand) Cards() []Card {
	return append([]Card(nil), h.cards...)
}

// Play returns the card at index. Cards stay in the hand.
func (h *Hand) Play(index int) (Card, bool) {
	return h.Card(index)
}

// Replace swaps the card at index for c and returns the previous card.
func (h *Hand) Replace(index int, c Card) (Card, bool) {
	old, ok := h.Card(index)
	if !ok {
		return Card{}, false
	}
	h.cards[index] = c
	return old, true
}

// Remove drops the card at index.
func (h *Hand) Remove(index int) (Card, bool) {
	old, ok := h.Card(index)
	if !ok {
		return Card{}, false
	}
	h.cards = append(h.cards[:index], h.cards[index+1:]...)
	return old, true
}
