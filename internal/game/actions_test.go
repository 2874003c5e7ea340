package game

import (
	"fmt"
	"testing"

	"github.com/lavaflow/lavaboard/internal/game/board"
	"github.com/lavaflow/lavaboard/internal/game/cards"
	"github.com/lavaflow/lavaboard/internal/game/grid"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	domainerrors "github.com/lavaflow/lavaboard/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindGateExample(t *testing.T) {
	settings := DefaultSettings()
	settings.BaseDistance = 6
	s, _ := newTestSession(t, settings)

	s.wind = grid.North
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 3, 3)))

	err := s.PlaceMandatoryLavaAt(4, 3)
	assert.Equal(t, domainerrors.CodeWindMismatch, domainerrors.CodeOf(err))

	require.NoError(t, s.PlaceMandatoryLavaAt(3, 4))
	assert.Equal(t, board.Lava, s.TileState(tileAt(t, s, 3, 4)))
	assert.Equal(t, rules.PhaseAwaitingCardPlay, s.Phase())
}

func TestWindGateAllDirections(t *testing.T) {
	for _, dir := range []grid.Direction{grid.North, grid.South, grid.East, grid.West} {
		t.Run(dir.String(), func(t *testing.T) {
			s, _ := newTestSession(t, DefaultSettings())
			s.wind = dir
			source := grid.Coord{X: 5, Y: 10}
			require.NoError(t, s.board.PlaceLava(tileAt(t, s, source.X, source.Y)))

			downwind := source.Add(dir.Offset())
			upwind := source.Sub(dir.Offset())

			assert.False(t, s.CanPlaceMandatoryLava(tileAt(t, s, upwind.X, upwind.Y)))
			assert.True(t, s.CanPlaceMandatoryLava(tileAt(t, s, downwind.X, downwind.Y)))
		})
	}
}

func TestMandatoryLavaRejections(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	s.wind = grid.North
	before := s.Checksum()

	tests := []struct {
		name string
		do   func() error
		code domainerrors.Code
	}{
		{"off grid coordinate", func() error { return s.PlaceMandatoryLavaAt(-1, 4) }, domainerrors.CodeTileOutOfGrid},
		{"unknown tile", func() error { return s.PlaceMandatoryLava(grid.TileID(9999)) }, domainerrors.CodeTileOutOfGrid},
		{"no tile sentinel", func() error { return s.PlaceMandatoryLava(grid.NoTile) }, domainerrors.CodeTileOutOfGrid},
		{"occupied", func() error { return s.PlaceMandatoryLavaAt(7, 8) }, domainerrors.CodeTileOccupied},
		{"no upwind lava", func() error { return s.PlaceMandatoryLavaAt(0, 0) }, domainerrors.CodeWindMismatch},
		{"card before lava", func() error { return s.PlayCard(cardWindEast, nil) }, domainerrors.CodePhaseViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.do()
			require.Error(t, err)
			assert.Equal(t, tt.code, domainerrors.CodeOf(err))
			assert.Equal(t, before, s.Checksum(), "rejected action must not change state")
		})
	}

	openTurn(t, s, 7, 9)
	err := s.PlaceMandatoryLavaAt(7, 10)
	assert.Equal(t, domainerrors.CodePhaseViolation, domainerrors.CodeOf(err))
}

// Scenario A: mandatory lava next to the centre, then a Block card.
func TestScenarioBlockCardPassesTurn(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	rec.reset()

	left, right := tileAt(t, s, 2, 12), tileAt(t, s, 3, 12)
	require.NoError(t, s.PlayCard(cardBlockTwoAdjacent, []grid.TileID{left, right}))

	assert.Equal(t, board.Block, s.TileState(left))
	assert.Equal(t, board.Block, s.TileState(right))
	assert.Equal(t, 2, s.CurrentPlayer())
	assert.Equal(t, rules.PhaseAwaitingMandatoryLava, s.Phase())
	assert.Equal(t, []rules.EventType{
		rules.EventBlockPlaced,
		rules.EventBlockPlaced,
		rules.EventCardPlayed,
		rules.EventTurnStarted,
	}, rec.types())
	assert.Equal(t, 2, rec.ofType(rules.EventTurnStarted)[0].Player)
	assert.Equal(t, 2, rec.ofType(rules.EventTurnStarted)[0].Turn)
}

// Scenario B: a Lava square over one lava and one block cell.
func TestScenarioLavaSquareSkipsLavaAndBlock(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	require.NoError(t, s.board.PlaceBlock(tileAt(t, s, 8, 9)))
	lavaBefore := len(s.board.LavaTiles())
	rec.reset()

	require.NoError(t, s.PlayCard(cardLavaSquare, s.targets(grid.Coord{X: 7, Y: 9}, cards.PatternSquare2x2, 0)))

	assert.Equal(t, board.Lava, s.TileState(tileAt(t, s, 7, 10)))
	assert.Equal(t, board.Lava, s.TileState(tileAt(t, s, 8, 10)))
	assert.Equal(t, board.Block, s.TileState(tileAt(t, s, 8, 9)))
	assert.Len(t, s.board.LavaTiles(), lavaBefore+2)
	assert.Len(t, rec.ofType(rules.EventLavaPlaced), 2)
}

// Scenario C: a player covering their own base with the mandatory lava.
func TestScenarioOwnBaseCoveredByMandatoryLava(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	s.wind = grid.South
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 3, 4)))

	require.NoError(t, s.PlaceMandatoryLavaAt(3, 3))

	assert.True(t, s.IsEliminated(1))
	assert.Equal(t, GameStateFinished, s.State())
	assert.Equal(t, rules.PhaseGameOver, s.Phase())
	assert.Equal(t, 2, s.Winner())

	eliminated := rec.ofType(rules.EventEliminated)
	require.Len(t, eliminated, 1)
	assert.Equal(t, 1, eliminated[0].Player)
	over := rec.ofType(rules.EventGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, 2, over[0].Winner)

	err := s.PlayCard(cardWindEast, nil)
	assert.Equal(t, domainerrors.CodePhaseViolation, domainerrors.CodeOf(err))
}

// Scenario C: an opponent's base covered by a Lava card.
func TestScenarioOpponentBaseCoveredByLavaCard(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 12, 3)))
	openTurn(t, s, 7, 9)

	require.NoError(t, s.PlayCard(cardLavaLine3, s.targets(grid.Coord{X: 13, Y: 3}, cards.PatternLine3, 0)))

	assert.True(t, s.IsEliminated(2))
	assert.False(t, s.IsEliminated(1))
	assert.Equal(t, 1, s.Winner())
	assert.Equal(t, GameStateFinished, s.State())
	assert.Equal(t, 1, s.CurrentPlayer(), "turn does not advance after game over")
}

func TestLastTwoBasesCoveredTogetherIsDraw(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	require.NoError(t, s.board.SetBase(1, tileAt(t, s, 10, 12)))
	require.NoError(t, s.board.SetBase(2, tileAt(t, s, 11, 12)))
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 9, 12)))
	openTurn(t, s, 7, 9)

	require.NoError(t, s.PlayCard(cardLavaLine3, s.targets(grid.Coord{X: 10, Y: 12}, cards.PatternLine3, 0)))

	assert.Equal(t, GameStateFinished, s.State())
	assert.Equal(t, 0, s.Winner())
	assert.Equal(t, []int{1, 2}, s.board.Eliminated())
	over := rec.ofType(rules.EventGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, 0, over[0].Winner)
	assert.Equal(t, "draw", over[0].Description)
}

func TestThreePlayerEliminationSkipsTurn(t *testing.T) {
	settings := DefaultSettings()
	settings.Players = 3
	s, _ := newTestSession(t, settings)

	// Player 2's base at (13,3) sits right of existing lava.
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 12, 3)))
	openTurn(t, s, 7, 9)
	require.NoError(t, s.PlayCard(cardLavaLine3, s.targets(grid.Coord{X: 13, Y: 3}, cards.PatternLine3, 0)))

	assert.True(t, s.IsEliminated(2))
	assert.Equal(t, GameStateInProgress, s.State())
	assert.Equal(t, 3, s.CurrentPlayer())
}

func TestSelfEliminatedPlayerFinishesTurnThenIsSkipped(t *testing.T) {
	settings := DefaultSettings()
	settings.Players = 3
	s, rec := newTestSession(t, settings)

	s.wind = grid.South
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 3, 4)))
	require.NoError(t, s.PlaceMandatoryLavaAt(3, 3))

	assert.True(t, s.IsEliminated(1))
	assert.Equal(t, GameStateInProgress, s.State())
	assert.Equal(t, rules.PhaseAwaitingCardPlay, s.Phase())
	assert.Equal(t, 1, s.CurrentPlayer())

	require.NoError(t, s.PlayCard(cardWindEast, nil))
	assert.Equal(t, 2, s.CurrentPlayer())

	openTurn(t, s, 7, 9)
	require.NoError(t, s.PlayCard(cardWindEast, nil))
	assert.Equal(t, 3, s.CurrentPlayer())

	openTurn(t, s, 7, 10)
	require.NoError(t, s.PlayCard(cardWindEast, nil))
	assert.Equal(t, 2, s.CurrentPlayer(), "eliminated player 1 is skipped")

	var turnPlayers []int
	for _, e := range rec.ofType(rules.EventTurnStarted) {
		turnPlayers = append(turnPlayers, e.Player)
	}
	assert.Equal(t, []int{1, 2, 3, 2}, turnPlayers)
}

func TestWaterNeverRemovesProtectedLava(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	before := s.Checksum()

	for i := 0; i < 5; i++ {
		err := s.PlayCard(cardWaterSquare, s.targets(grid.Coord{X: 7, Y: 7}, cards.PatternSquare2x2, 0))
		assert.Equal(t, domainerrors.CodeNoEffect, domainerrors.CodeOf(err))
		assert.Equal(t, before, s.Checksum())
	}

	for _, id := range s.board.ProtectedTiles() {
		assert.Equal(t, board.Lava, s.TileState(id))
	}
	assert.Equal(t, rules.PhaseAwaitingCardPlay, s.Phase(), "a card without effect is not played")
}

func TestWaterRemovesLavaAndSkipsBlocks(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	require.NoError(t, s.board.PlaceLava(tileAt(t, s, 2, 2)))
	require.NoError(t, s.board.PlaceBlock(tileAt(t, s, 3, 2)))
	rec.reset()

	require.NoError(t, s.PlayCard(cardWaterLine3, s.targets(grid.Coord{X: 2, Y: 2}, cards.PatternLine3, 0)))

	assert.Equal(t, board.Empty, s.TileState(tileAt(t, s, 2, 2)))
	assert.Equal(t, board.Block, s.TileState(tileAt(t, s, 3, 2)))
	assert.Equal(t, board.Empty, s.TileState(tileAt(t, s, 4, 2)))
	assert.Len(t, rec.ofType(rules.EventLavaRemoved), 1)
	assert.Equal(t, 2, s.CurrentPlayer())
}

func TestWaterOnEmptyTilesStillCounts(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)

	require.NoError(t, s.PlayCard(cardWaterLine3, s.targets(grid.Coord{X: 0, Y: 15}, cards.PatternLine3, 0)))
	assert.Equal(t, 2, s.CurrentPlayer())
}

func TestWaterOnBlocksOnlyHasNoEffect(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	require.NoError(t, s.board.PlaceBlock(tileAt(t, s, 0, 15)))

	err := s.PlayCard(cardWaterLine3, s.targets(grid.Coord{X: 0, Y: 15}, cards.PatternLine3, 2))
	assert.Equal(t, domainerrors.CodeNoEffect, domainerrors.CodeOf(err))
}

func TestWindCardChangesWind(t *testing.T) {
	s, rec := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	rec.reset()

	require.NoError(t, s.PlayCard(cardWindWest, nil))

	assert.Equal(t, grid.West, s.Wind())
	changed := rec.ofType(rules.EventWindChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, grid.West, changed[0].Wind)
	assert.Equal(t, 2, s.CurrentPlayer())
}

func TestPlayCardRejections(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)
	before := s.Checksum()

	tests := []struct {
		name    string
		index   int
		targets []grid.TileID
		code    domainerrors.Code
	}{
		{"index past hand", 10, nil, domainerrors.CodeInvalidCardIndex},
		{"negative index", -1, nil, domainerrors.CodeInvalidCardIndex},
		{"lava far from lava", cardLavaLine3, s.targets(grid.Coord{X: 0, Y: 15}, cards.PatternLine3, 0), domainerrors.CodePatternInvalid},
		{"lava all off grid", cardLavaLine3, []grid.TileID{grid.NoTile}, domainerrors.CodePatternInvalid},
		{"block split by gap", cardBlockOneSpaceOne, s.targets(grid.Coord{X: 0, Y: 0}, cards.PatternOneSpaceOne, 0), domainerrors.CodePatternInvalid},
		{"block on lava", cardBlockTwoAdjacent, s.targets(grid.Coord{X: 7, Y: 7}, cards.PatternTwoAdjacent, 0), domainerrors.CodePatternInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.PlayCard(tt.index, tt.targets)
			assert.Equal(t, tt.code, domainerrors.CodeOf(err), fmt.Sprint(err))
			assert.Equal(t, before, s.Checksum())
			assert.Equal(t, rules.PhaseAwaitingCardPlay, s.Phase())
		})
	}
}

func TestCardsAreNotConsumed(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())

	openTurn(t, s, 7, 9)
	require.NoError(t, s.PlayCard(cardWindNorth, nil))
	openTurn(t, s, 7, 10)
	require.NoError(t, s.PlayCard(cardWindNorth, nil))

	for _, player := range []int{1, 2} {
		hand, ok := s.Hand(player)
		require.True(t, ok)
		assert.Len(t, hand, 10)
	}
}

func TestSecondCardInSameTurnIsRejected(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	openTurn(t, s, 7, 9)

	s.mu.Lock()
	s.turns.MarkCardPlayed()
	s.mu.Unlock()

	err := s.PlayCard(cardWindEast, nil)
	assert.Equal(t, domainerrors.CodePhaseViolation, domainerrors.CodeOf(err))
}

func TestAdvanceWithoutAlivePlayersAbortsMatch(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())

	s.mu.Lock()
	for _, player := range []int{1, 2} {
		base, ok := s.board.BaseTile(player)
		require.True(t, ok)
		require.NoError(t, s.board.PlaceLava(base))
		s.board.CheckElimination(base)
	}
	err := s.advanceTurn()
	s.mu.Unlock()

	require.Error(t, err)
	assert.True(t, domainerrors.IsFatal(err))
	assert.ErrorIs(t, err, rules.ErrNoAlivePlayers)
	assert.Equal(t, GameStateAborted, s.State())

	err = s.PlaceMandatoryLavaAt(7, 9)
	assert.Equal(t, domainerrors.CodeEngineInvariantViolation, domainerrors.CodeOf(err))
}

func TestDeckModeReplacesPlayedCard(t *testing.T) {
	settings := DefaultSettings()
	settings.HandMode = cards.HandModeDeck
	s, _ := newTestSession(t, settings)

	for _, player := range []int{1, 2} {
		hand, ok := s.Hand(player)
		require.True(t, ok)
		assert.Len(t, hand, 5)
	}
	require.Equal(t, 38-10, s.deck.Len())

	s.hands[0] = cards.NewHand(1, []cards.Card{
		cards.MustNew(cards.TypeWindDirection, cards.PatternEast),
		cards.MustNew(cards.TypeLava, cards.PatternLine3),
		cards.MustNew(cards.TypeLava, cards.PatternLine3),
		cards.MustNew(cards.TypeLava, cards.PatternLine3),
		cards.MustNew(cards.TypeLava, cards.PatternLine3),
	})

	openTurn(t, s, 7, 9)
	require.NoError(t, s.PlayCard(0, nil))

	hand, _ := s.Hand(1)
	assert.Len(t, hand, 5)
	assert.Equal(t, 38-11, s.deck.Len())
	assert.Equal(t, 1, s.deck.DiscardLen())
	assert.Equal(t, grid.East, s.Wind())
}
