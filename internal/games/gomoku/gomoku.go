// Package gomoku is a 9x9 five-in-a-row implementation used to
// exercise the core search package's PriorGame extension: unlike
// tic-tac-toe and connect-four, gomoku's branching factor is large
// enough that an unbiased selector explores it slowly, so the game
// supplies an unnormalized prior favouring moves adjacent to an
// existing stone. The board layout and win check are adapted from a
// from-scratch Rust gomoku implementation.
package gomoku

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/gridforge/arenamcts/pkg/mcts"
)

const (
	boardN    = 9
	cellCount = boardN * boardN
	crossSide = 0
	circSide  = 1
	winLength = 5
)

// Cell is a move: the board index row*boardN+col.
type Cell = uint8

// State is a gomoku position: one occupancy bitboard per side (one
// uint16 row mask per row), the ply counter, and the last move played
// (needed to check for a win without rescanning the whole board).
type State struct {
	Board    [2][boardN]uint16
	Moves    uint8
	LastMove Cell
}

// NewState returns the empty starting position.
func NewState() State {
	return State{}
}

func (s State) filled(row, col int) bool {
	mask := uint16(1) << uint(col)
	return s.Board[crossSide][row]&mask != 0 || s.Board[circSide][row]&mask != 0
}

func (s State) occupied(side, row, col int) bool {
	return s.Board[side][row]&(uint16(1)<<uint(col)) != 0
}

// countDir counts consecutive side-owned cells strictly beyond
// (row, col) walking in direction (dRow, dCol).
func (s State) countDir(row, col, dRow, dCol, side int) int {
	n := 0
	r, c := row+dRow, col+dCol
	for r >= 0 && r < boardN && c >= 0 && c < boardN && s.occupied(side, r, c) {
		n++
		r += dRow
		c += dCol
	}
	return n
}

// hasFiveThrough reports whether side has winLength in a row through
// (row, col) in any of the four line orientations.
func (s State) hasFiveThrough(row, col, side int) bool {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1 + s.countDir(row, col, d[0], d[1], side) + s.countDir(row, col, -d[0], -d[1], side)
		if count >= winLength {
			return true
		}
	}
	return false
}

// Game implements mcts.Game[State, Cell] and mcts.PriorGame[State, Cell].
type Game struct{}

var (
	_ mcts.Game[State, Cell]      = Game{}
	_ mcts.PriorGame[State, Cell] = Game{}
)

func (Game) Turn(s State) int8 {
	if s.Moves%2 == 0 {
		return 1
	}
	return -1
}

func (Game) Evaluate(s State) int8 {
	if s.Moves == 0 {
		return 0
	}
	row, col := int(s.LastMove)/boardN, int(s.LastMove)%boardN
	side := int(s.Moves-1) & 1
	if !s.hasFiveThrough(row, col, side) {
		return 0
	}
	if side == crossSide {
		return 1
	}
	return -1
}

func (g Game) IsTerminal(s State) bool {
	return s.Moves == cellCount || g.Evaluate(s) != 0
}

func (Game) GenerateMoves(s State, out *mcts.MoveBuffer[Cell]) {
	for cell := 0; cell < cellCount; cell++ {
		row, col := cell/boardN, cell%boardN
		if !s.filled(row, col) {
			out.Push(Cell(cell))
		}
	}
}

func (Game) Push(s *State, move Cell) {
	row, col := int(move)/boardN, int(move)%boardN
	side := int(s.Moves) & 1
	s.Board[side][row] |= 1 << uint(col)
	s.LastMove = move
	s.Moves++
}

func (g Game) PushRandom(s *State, rng *rand.Rand) error {
	buf := mcts.DefaultMoveBuffer[Cell]()
	g.GenerateMoves(*s, buf)
	if buf.IsEmpty() {
		return errors.Wrap(mcts.ErrIllegalState, "gomoku: no legal moves")
	}
	g.Push(s, buf.At(rng.Intn(buf.Len())))
	return nil
}

// Policy returns an unnormalized prior for playing move from state: 3
// if the target cell touches an already-occupied neighbour, 1
// otherwise. This is what makes the PUCT selector favour moves near
// existing stones over isolated ones on an empty-ish board.
func (Game) Policy(s State, move Cell) float64 {
	row, col := int(move)/boardN, int(move)%boardN
	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}
			r, c := row+dRow, col+dCol
			if r >= 0 && r < boardN && c >= 0 && c < boardN && s.filled(r, c) {
				return 3.0
			}
		}
	}
	return 1.0
}
