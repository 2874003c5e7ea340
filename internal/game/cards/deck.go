package cards

import (
	"fmt"
	"math/rand"
)

// Composition sets how many copies of each card the deck holds.
type Composition struct {
	LavaLine3        int `mapstructure:"lava_line3"`
	LavaSquare2x2    int `mapstructure:"lava_square2x2"`
	WaterLine3       int `mapstructure:"water_line3"`
	WaterSquare2x2   int `mapstructure:"water_square2x2"`
	BlockTwoAdjacent int `mapstructure:"block_two_adjacent"`
	BlockOneSpaceOne int `mapstructure:"block_one_space_one"`
	WindNorth        int `mapstructure:"wind_north"`
	WindSouth        int `mapstructure:"wind_south"`
	WindEast         int `mapstructure:"wind_east"`
	WindWest         int `mapstructure:"wind_west"`
}

// DefaultComposition holds five of each tile card and two of each wind card.
func DefaultComposition() Composition {
	return Composition{
		LavaLine3:        5,
		LavaSquare2x2:    5,
		WaterLine3:       5,
		WaterSquare2x2:   5,
		BlockTwoAdjacent: 5,
		BlockOneSpaceOne: 5,
		WindNorth:        2,
		WindSouth:        2,
		WindEast:         2,
		WindWest:         2,
	}
}

// Total returns the number of cards in the composition.
func (c Composition) Total() int {
	total := 0
	for _, entry := range c.entries() {
		total += entry.count
	}
	return total
}

// Validate rejects negative counts.
func (c Composition) Validate() error {
	for _, entry := range c.entries() {
		if entry.count < 0 {
			return fmt.Errorf("deck count for %s must not be negative, got %d", entry.card.Name(), entry.count)
		}
	}
	return nil
}

type compositionEntry struct {
	card  Card
	count int
}

func (c Composition) entries() []compositionEntry {
	return []compositionEntry{
		{MustNew(TypeLava, PatternLine3), c.LavaLine3},
		{MustNew(TypeLava, PatternSquare2x2), c.LavaSquare2x2},
		{MustNew(TypeWater, PatternLine3), c.WaterLine3},
		{MustNew(TypeWater, PatternSquare2x2), c.WaterSquare2x2},
		{MustNew(TypeBlock, PatternTwoAdjacent), c.BlockTwoAdjacent},
		{MustNew(TypeBlock, PatternOneSpaceOne), c.BlockOneSpaceOne},
		{MustNew(TypeWindDirection, PatternNorth), c.WindNorth},
		{MustNew(TypeWindDirection, PatternSouth), c.WindSouth},
		{MustNew(TypeWindDirection, PatternEast), c.WindEast},
		{MustNew(TypeWindDirection, PatternWest), c.WindWest},
	}
}

// Deck is a shuffled draw pile with a discard pile.
// Drawing from an empty pile reshuffles the discards back in.
type Deck struct {
	rng     *rand.Rand
	draw    []Card
	discard []Card
}

// NewDeck builds and shuffles a deck from comp.
func NewDeck(comp Composition, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for _, entry := range comp.entries() {
		for i := 0; i < entry.count; i++ {
			d.draw = append(d.draw, entry.card)
		}
	}
	d.Shuffle()
	return d
}

// Shuffle randomises the draw pile in place.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Draw takes the top card. It returns false when both piles are empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, false
		}
		d.draw, d.discard = d.discard, nil
		d.Shuffle()
	}
	top := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return top, true
}

// Discard puts c on the discard pile.
func (d *Deck) Discard(c Card) {
	d.discard = append(d.discard, c)
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int {
	return len(d.draw)
}

// DiscardLen returns the size of the discard pile.
func (d *Deck) DiscardLen() int {
	return len(d.discard)
}
