// Command selfplaydemo plays a batch of self-play tic-tac-toe games in
// Behaviour.TrainingMode, showing progress and a final win/draw/loss
// tally. It exists to exercise the training-mode sampling path end to
// end, the way a real self-play data generator would.
package main

import (
	"flag"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/gridforge/arenamcts/internal/games/tictactoe"
	"github.com/gridforge/arenamcts/pkg/mcts"
)

func main() {
	games := flag.Int("games", 200, "number of self-play games to generate")
	rolloutsPerMove := flag.Uint("rollouts", 400, "rollout budget per move")
	flag.Parse()

	behaviour := mcts.NewBehaviour()
	behaviour.TrainingMode = true
	behaviour.RolloutPolicy = mcts.DecisiveRollout()
	behaviour.Limit = mcts.Rollouts(uint32(*rolloutsPerMove))

	bar := progressbar.Default(int64(*games), "self-play")

	var wins, draws, losses int
	for i := 0; i < *games; i++ {
		switch playOneGame(behaviour) {
		case 1:
			wins++
		case -1:
			losses++
		default:
			draws++
		}
		_ = bar.Add(1)
	}
	fmt.Println()
	fmt.Printf("cross wins: %d  draws: %d  circle wins: %d  (of %d games)\n", wins, draws, losses, *games)
}

// playOneGame runs training-mode search move by move until terminal
// and returns the outcome from cross's perspective.
func playOneGame(behaviour mcts.Behaviour) int8 {
	game := tictactoe.Game{}
	state := tictactoe.NewState()

	for !game.IsTerminal(state) {
		engine, err := mcts.NewEngine[tictactoe.State, tictactoe.Square](game, behaviour, 0, 8<<20)
		if err != nil {
			panic(err)
		}
		res, err := engine.Search(state, nil, nil)
		if err != nil {
			panic(err)
		}
		state = res.NewState
	}
	return game.Evaluate(state)
}
