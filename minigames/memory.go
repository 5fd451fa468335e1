// Package minigames holds the unlockable mini-games. Each game is a plain
// state container driven by explicit calls; none of them block. Deferred
// steps (the memory flip-back) are scheduled by the session loop, not here.
package minigames

import (
	"errors"
	"math/rand"

	cfg "github.com/pixelmint/nftplay/config"
)

var (
	ErrOutOfRange  = errors.New("minigames: index out of range")
	ErrCardUsed    = errors.New("minigames: card already face up or matched")
	ErrTurnPending = errors.New("minigames: resolve the open turn first")
	ErrGameOver    = errors.New("minigames: game already finished")
)

// FlipOutcome reports what one card flip did.
type FlipOutcome int

const (
	FlipFaceUp   FlipOutcome = iota // first card of the turn
	FlipMatch                       // second card matched
	FlipMismatch                    // second card mismatched; flip-back pending
	FlipWin                         // second card matched and cleared the board
)

// Memory is the memory-match game: flip two cards per turn, mismatches flip
// back after a delay (driven externally via ResolveTurn).
type Memory struct {
	cards   []int // pair IDs, shuffled
	faceUp  []bool
	matched []bool
	open    []int // indices face up in the current turn
	pending bool  // mismatch waiting for ResolveTurn
	moves   int
	won     bool
}

// NewMemory deals a shuffled board with the given number of pairs.
func NewMemory(pairs int, rng *rand.Rand) *Memory {
	if pairs < 2 {
		pairs = 2
	}
	cards := make([]int, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		cards = append(cards, i, i)
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Memory{
		cards:   cards,
		faceUp:  make([]bool, len(cards)),
		matched: make([]bool, len(cards)),
	}
}

// Flip turns one card face up. The second flip of a turn counts one move and
// either locks the pair in or leaves a pending mismatch.
func (m *Memory) Flip(i int) (FlipOutcome, error) {
	if m.won {
		return 0, ErrGameOver
	}
	if m.pending {
		return 0, ErrTurnPending
	}
	if i < 0 || i >= len(m.cards) {
		return 0, ErrOutOfRange
	}
	if m.faceUp[i] || m.matched[i] {
		return 0, ErrCardUsed
	}

	m.faceUp[i] = true
	m.open = append(m.open, i)
	if len(m.open) < 2 {
		return FlipFaceUp, nil
	}

	m.moves++
	a, b := m.open[0], m.open[1]
	if m.cards[a] != m.cards[b] {
		m.pending = true
		return FlipMismatch, nil
	}

	m.matched[a], m.matched[b] = true, true
	m.open = m.open[:0]
	for _, done := range m.matched {
		if !done {
			return FlipMatch, nil
		}
	}
	m.won = true
	return FlipWin, nil
}

// ResolveTurn flips a pending mismatch back down. No-op otherwise, so the
// deferred call is safe to fire regardless of what happened in between.
func (m *Memory) ResolveTurn() {
	if !m.pending {
		return
	}
	for _, i := range m.open {
		m.faceUp[i] = false
	}
	m.open = m.open[:0]
	m.pending = false
}

// Award is the points payout: inversely related to move count, floored.
func (m *Memory) Award() int {
	award := cfg.Memory.BaseAward - cfg.Memory.MovePenalty*m.moves
	if award < cfg.Memory.MinAward {
		award = cfg.Memory.MinAward
	}
	return award
}

func (m *Memory) Won() bool          { return m.won }
func (m *Memory) Moves() int         { return m.moves }
func (m *Memory) Cards() int         { return len(m.cards) }
func (m *Memory) FaceUp(i int) bool  { return i >= 0 && i < len(m.faceUp) && m.faceUp[i] }
func (m *Memory) Matched(i int) bool { return i >= 0 && i < len(m.matched) && m.matched[i] }
func (m *Memory) MismatchOpen() bool { return m.pending }
func (m *Memory) Card(i int) int {
	if i < 0 || i >= len(m.cards) {
		return -1
	}
	return m.cards[i]
}
