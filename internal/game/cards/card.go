// Package cards defines the playable cards, hands and the shared deck.
package cards

import (
	"fmt"

	"github.com/lavaflow/lavaboard/internal/game/grid"
)

// Type is the effect family of a card.
type Type int

const (
	TypeLava Type = iota
	TypeWater
	TypeBlock
	TypeWindDirection
)

var typeNames = map[Type]string{
	TypeLava:          "LAVA",
	TypeWater:         "WATER",
	TypeBlock:         "BLOCK",
	TypeWindDirection: "WIND",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE_%d", int(t))
}

// Pattern is the shape a card targets. Each pattern belongs to specific types.
type Pattern int

const (
	PatternLine3 Pattern = iota
	PatternSquare2x2
	PatternTwoAdjacent
	PatternOneSpaceOne
	PatternNorth
	PatternSouth
	PatternEast
	PatternWest
)

var patternNames = map[Pattern]string{
	PatternLine3:       "LINE3",
	PatternSquare2x2:   "SQUARE2X2",
	PatternTwoAdjacent: "TWO_ADJACENT",
	PatternOneSpaceOne: "ONE_SPACE_ONE",
	PatternNorth:       "NORTH",
	PatternSouth:       "SOUTH",
	PatternEast:        "EAST",
	PatternWest:        "WEST",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PATTERN_%d", int(p))
}

var windPatterns = map[Pattern]grid.Direction{
	PatternNorth: grid.North,
	PatternSouth: grid.South,
	PatternEast:  grid.East,
	PatternWest:  grid.West,
}

// Direction returns the wind direction of a wind pattern.
func (p Pattern) Direction() (grid.Direction, bool) {
	d, ok := windPatterns[p]
	return d, ok
}

var allowedPatterns = map[Type][]Pattern{
	TypeLava:          {PatternLine3, PatternSquare2x2},
	TypeWater:         {PatternLine3, PatternSquare2x2},
	TypeBlock:         {PatternTwoAdjacent, PatternOneSpaceOne},
	TypeWindDirection: {PatternNorth, PatternSouth, PatternEast, PatternWest},
}

// Patterns lists the patterns a card of type t may carry.
func Patterns(t Type) []Pattern {
	return append([]Pattern(nil), allowedPatterns[t]...)
}

// Card is an immutable type/pattern pair.
type Card struct {
	Type    Type
	Pattern Pattern
}

// New creates a card, rejecting patterns outside the type's scope.
func New(t Type, p Pattern) (Card, error) {
	allowed, ok := allowedPatterns[t]
	if !ok {
		return Card{}, fmt.Errorf("unknown card type %s", t)
	}
	for _, candidate := range allowed {
		if candidate == p {
			return Card{Type: t, Pattern: p}, nil
		}
	}
	return Card{}, fmt.Errorf("pattern %s is not valid for %s cards", p, t)
}

// MustNew is New for statically known cards.
func MustNew(t Type, p Pattern) Card {
	c, err := New(t, p)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns a display name such as "Lava LINE3".
func (c Card) Name() string {
	switch c.Type {
	case TypeLava:
		return "Lava " + c.Pattern.String()
	case TypeWater:
		return "Water " + c.Pattern.String()
	case TypeBlock:
		return "Block " + c.Pattern.String()
	case TypeWindDirection:
		return "Wind " + c.Pattern.String()
	default:
		return c.Type.String() + " " + c.Pattern.String()
	}
}

func (c Card) String() string {
	return c.Name()
}

// handOrder is the type order of the fixed hand.
var handOrder = []Type{TypeLava, TypeWater, TypeBlock, TypeWindDirection}

// FullSet returns one card of each definition in hand order.
func FullSet() []Card {
	set := make([]Card, 0, 10)
	for _, t := range handOrder {
		for _, p := range Patterns(t) {
			set = append(set, Card{Type: t, Pattern: p})
		}
	}
	return set
}
