package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Checksum computes a deterministic SHA-256 of the authoritative match state.
// Two sessions with equal boards, turns, wind and hands hash the same.
func (s *Session) Checksum() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := sha256.Sum256([]byte(s.buildDeterministicRepresentation()))
	return hex.EncodeToString(sum[:])
}

// buildDeterministicRepresentation creates a canonical string of the state,
// excluding timestamps and ids.
func (s *Session) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%d|%d|%d|%t|%t|%d|%s|%d|%d\n",
		s.state,
		s.turns.TurnNumber(),
		s.turns.CurrentPlayer(),
		s.turns.HasPlacedMandatoryLava(),
		s.turns.HasPlayedCard(),
		s.turns.RotationIndex(),
		s.wind,
		s.winner,
		s.selected,
	))

	// Tiles in id order
	for _, t := range s.index.Tiles() {
		buf.WriteString(fmt.Sprintf("T:%d|%d|%t\n", t.ID, s.board.StateOf(t.ID), s.board.IsProtected(t.ID)))
	}

	for _, p := range s.players {
		base, hasBase := s.board.BaseTile(p.Number)
		buf.WriteString(fmt.Sprintf("PLAYER:%d|%t|%t|%d\n", p.Number, s.board.IsEliminated(p.Number), hasBase, base))
		for _, c := range s.hands[p.Number-1].Cards() {
			buf.WriteString(fmt.Sprintf("CARD:%d|%d\n", c.Type, c.Pattern))
		}
	}

	buf.WriteString(fmt.Sprintf("ELIMINATED:%v\n", s.board.Eliminated()))

	if s.deck != nil {
		buf.WriteString(fmt.Sprintf("DECK:%d|%d\n", s.deck.Len(), s.deck.DiscardLen()))
	}

	return buf.String()
}
