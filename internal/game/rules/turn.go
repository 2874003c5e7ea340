package rules

import (
	"errors"
	"fmt"
)

// Phase is the stage of the current turn.
type Phase int

const (
	PhaseAwaitingMandatoryLava Phase = iota
	PhaseAwaitingCardPlay
	PhaseTurnEnded
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseAwaitingMandatoryLava: "AWAITING_MANDATORY_LAVA",
	PhaseAwaitingCardPlay:      "AWAITING_CARD_PLAY",
	PhaseTurnEnded:             "TURN_ENDED",
	PhaseGameOver:              "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ErrNoAlivePlayers is returned by Advance when every player is eliminated.
var ErrNoAlivePlayers = errors.New("no alive players to advance to")

// TurnManager tracks the current player and the per-turn flags.
type TurnManager struct {
	playerCount            int
	currentIndex           int
	turnNumber             int
	hasPlacedMandatoryLava bool
	hasPlayedCard          bool
	rotationIndex          int
	gameOver               bool
}

// NewTurnManager creates a turn manager for playerCount players, starting
// with player 1 on turn 1.
func NewTurnManager(playerCount int) *TurnManager {
	return &TurnManager{
		playerCount: playerCount,
		turnNumber:  1,
	}
}

// Phase derives the current phase from the turn flags.
func (tm *TurnManager) Phase() Phase {
	switch {
	case tm.gameOver:
		return PhaseGameOver
	case !tm.hasPlacedMandatoryLava:
		return PhaseAwaitingMandatoryLava
	case !tm.hasPlayedCard:
		return PhaseAwaitingCardPlay
	default:
		return PhaseTurnEnded
	}
}

// PlayerCount returns the number of seats.
func (tm *TurnManager) PlayerCount() int {
	return tm.playerCount
}

// CurrentIndex returns the 0-based index of the player whose turn it is.
func (tm *TurnManager) CurrentIndex() int {
	return tm.currentIndex
}

// CurrentPlayer returns the 1-based number of the player whose turn it is.
func (tm *TurnManager) CurrentPlayer() int {
	return tm.currentIndex + 1
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// HasPlacedMandatoryLava reports whether this turn's mandatory lava is down.
func (tm *TurnManager) HasPlacedMandatoryLava() bool {
	return tm.hasPlacedMandatoryLava
}

// HasPlayedCard reports whether this turn's card was played.
func (tm *TurnManager) HasPlayedCard() bool {
	return tm.hasPlayedCard
}

// CanPlaceMandatoryLava reports whether the mandatory placement is still pending.
func (tm *TurnManager) CanPlaceMandatoryLava() bool {
	return !tm.gameOver && !tm.hasPlacedMandatoryLava
}

// MarkMandatoryLavaPlaced records the mandatory placement.
func (tm *TurnManager) MarkMandatoryLavaPlaced() {
	tm.hasPlacedMandatoryLava = true
}

// CanPlayCard reports whether a card may be played this turn.
func (tm *TurnManager) CanPlayCard() bool {
	return !tm.gameOver && tm.hasPlacedMandatoryLava && !tm.hasPlayedCard
}

// MarkCardPlayed records the card play.
func (tm *TurnManager) MarkCardPlayed() {
	tm.hasPlayedCard = true
}

// RotationIndex returns the pattern rotation, 0..3.
func (tm *TurnManager) RotationIndex() int {
	return tm.rotationIndex
}

// Rotate advances the pattern rotation by a quarter turn.
func (tm *TurnManager) Rotate() int {
	tm.rotationIndex = (tm.rotationIndex + 1) % 4
	return tm.rotationIndex
}

// ResetRotation returns the pattern rotation to 0.
func (tm *TurnManager) ResetRotation() {
	tm.rotationIndex = 0
}

// Finish ends the game. No further actions are accepted.
func (tm *TurnManager) Finish() {
	tm.gameOver = true
}

// Advance moves to the next player for whom isEliminated is false and
// clears the turn flags. It returns the new 1-based player number.
// When every player is eliminated the turn does not move and
// ErrNoAlivePlayers is returned.
func (tm *TurnManager) Advance(isEliminated func(player int) bool) (int, error) {
	for step := 1; step <= tm.playerCount; step++ {
		next := (tm.currentIndex + step) % tm.playerCount
		if isEliminated != nil && isEliminated(next+1) {
			continue
		}
		tm.currentIndex = next
		tm.turnNumber++
		tm.hasPlacedMandatoryLava = false
		tm.hasPlayedCard = false
		tm.rotationIndex = 0
		return tm.CurrentPlayer(), nil
	}
	return 0, ErrNoAlivePlayers
}
