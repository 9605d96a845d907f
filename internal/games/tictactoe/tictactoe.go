// Package tictactoe is a minimal perfect-information game used to
// exercise the core search package's property and end-to-end tests.
// The bitboard layout and win-pattern table are adapted from a
// pointer/history-based tic-tac-toe implementation into the
// value-state shape mcts.Game requires.
package tictactoe

import (
	"math/bits"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/gridforge/arenamcts/pkg/mcts"
)

// Square is a board position in [0, 9).
type Square = uint8

// State is a tic-tac-toe position: one bitboard per side plus whose
// turn it is. Cheap to copy by value, as mcts.Game requires.
type State struct {
	Bitboards [2]uint16
	Turn_     int8 // 1 = cross to move, -1 = circle to move
}

const (
	crossIdx  = 0
	circleIdx = 1
	fullBoard = 0b111111111
)

// NewState returns the empty starting position with cross to move.
func NewState() State {
	return State{Turn_: 1}
}

var winPatterns = [8]uint16{
	0b111000000, 0b000111000, 0b000000111,
	0b100100100, 0b010010010, 0b001001001,
	0b100010001, 0b001010100,
}

func hasWin(bb uint16) bool {
	for _, pattern := range winPatterns {
		if bb&pattern == pattern {
			return true
		}
	}
	return false
}

func occupied(s State) uint16 {
	return s.Bitboards[crossIdx] | s.Bitboards[circleIdx]
}

// Game implements mcts.Game[State, Square].
type Game struct{}

var _ mcts.Game[State, Square] = Game{}

func (Game) Turn(s State) int8 { return s.Turn_ }

func (Game) IsTerminal(s State) bool {
	return hasWin(s.Bitboards[crossIdx]) || hasWin(s.Bitboards[circleIdx]) || occupied(s) == fullBoard
}

func (Game) Evaluate(s State) int8 {
	if hasWin(s.Bitboards[crossIdx]) {
		return 1
	}
	if hasWin(s.Bitboards[circleIdx]) {
		return -1
	}
	return 0
}

func (Game) GenerateMoves(s State, out *mcts.MoveBuffer[Square]) {
	free := uint(fullBoard ^ occupied(s))
	for free != 0 {
		out.Push(Square(bits.TrailingZeros(free)))
		free &= free - 1
	}
}

func (Game) Push(s *State, move Square) {
	idx := crossIdx
	if s.Turn_ < 0 {
		idx = circleIdx
	}
	s.Bitboards[idx] |= 1 << move
	s.Turn_ = -s.Turn_
}

func (g Game) PushRandom(s *State, rng *rand.Rand) error {
	buf := mcts.DefaultMoveBuffer[Square]()
	g.GenerateMoves(*s, buf)
	if buf.IsEmpty() {
		return errors.Wrap(mcts.ErrIllegalState, "tic-tac-toe: no legal moves")
	}
	g.Push(s, buf.At(rng.Intn(buf.Len())))
	return nil
}
