package mcts_test

import (
	"testing"

	"github.com/gridforge/arenamcts/internal/games/tictactoe"
	"github.com/gridforge/arenamcts/pkg/mcts"
)

func TestEngineSearchTicTacToePicksWinningMove(t *testing.T) {
	mcts.SetSeedGeneratorFn(func() int64 { return 42 })

	// X has two in a row on the top row (squares 0, 1) and can win by
	// taking square 2.
	state := tictactoe.NewState()
	game := tictactoe.Game{}
	game.Push(&state, 0) // X
	game.Push(&state, 3) // O
	game.Push(&state, 1) // X

	behaviour := mcts.NewBehaviour()
	behaviour.Limit = mcts.Rollouts(2000)

	engine, err := mcts.NewEngine[tictactoe.State, tictactoe.Square](game, behaviour, 100000, 0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	res, err := engine.Search(state, nil, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move != tictactoe.Square(2) {
		t.Fatalf("Search chose move %v, want the immediate winning move 2", res.Move)
	}
}

func TestEngineSearchRespectsRolloutLimit(t *testing.T) {
	state := tictactoe.NewState()
	game := tictactoe.Game{}

	behaviour := mcts.NewBehaviour()
	behaviour.Limit = mcts.Rollouts(64)

	engine, err := mcts.NewEngine[tictactoe.State, tictactoe.Square](game, behaviour, 100000, 0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	res, err := engine.Search(state, nil, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Rollouts != 64 {
		t.Fatalf("Rollouts = %d, want exactly 64", res.Rollouts)
	}
}

func TestEngineSearchOnTerminalRootReturnsNoChildren(t *testing.T) {
	state := tictactoe.NewState()
	game := tictactoe.Game{}

	// Fill the board without a winner: X O X / X O O / O X X is a draw.
	for _, m := range []tictactoe.Square{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		game.Push(&state, m)
	}
	if !game.IsTerminal(state) {
		t.Fatalf("test setup bug: constructed state is not terminal")
	}

	behaviour := mcts.NewBehaviour()
	behaviour.Limit = mcts.Rollouts(10)
	engine, err := mcts.NewEngine[tictactoe.State, tictactoe.Square](game, behaviour, 1000, 0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	res, err := engine.Search(state, nil, nil)
	if err != nil {
		t.Fatalf("Search on a terminal root: %v", err)
	}
	if len(res.VisitDistribution) != 0 {
		t.Fatalf("terminal root should have no children, got %d", len(res.VisitDistribution))
	}
	if res.WinRate != 0.5 {
		t.Fatalf("WinRate = %v, want (evaluate=0 -> 0.5) exactly", res.WinRate)
	}
}
