// Command mctsbench runs a fixed-rollout search against one of the
// bundled fixture games and prints a colored summary of the result:
// chosen move, win rate, rollout count and rollouts/sec.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/gridforge/arenamcts/internal/games/connectfour"
	"github.com/gridforge/arenamcts/internal/games/gomoku"
	"github.com/gridforge/arenamcts/internal/games/tictactoe"
	"github.com/gridforge/arenamcts/pkg/mcts"
)

func main() {
	game := flag.String("game", "tictactoe", "fixture game: tictactoe | connectfour | gomoku")
	rollouts := flag.Uint("rollouts", 10000, "rollout budget")
	policy := flag.String("rollout-policy", "decisive", "rollout policy (see ParseBehaviour grammar)")
	flag.Parse()

	profile := termenv.ColorProfile()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		profile = termenv.Ascii
	}

	behaviour, err := mcts.ParseBehaviour(fmt.Sprintf("limit=rollouts:%d,rollout_policy=%s", *rollouts, *policy))
	if err != nil {
		fatal(profile, err)
	}

	start := time.Now()
	var (
		moveStr  string
		winRate  float64
		nRollout uint64
	)

	switch *game {
	case "tictactoe":
		res, err := runSearch[tictactoe.State, tictactoe.Square](tictactoe.Game{}, tictactoe.NewState(), behaviour)
		if err != nil {
			fatal(profile, err)
		}
		moveStr = fmt.Sprint(res.Move)
		winRate = res.WinRate
		nRollout = res.Rollouts
	case "connectfour":
		res, err := runSearch[connectfour.State, connectfour.Column](connectfour.Game{}, connectfour.NewState(), behaviour)
		if err != nil {
			fatal(profile, err)
		}
		moveStr = fmt.Sprint(res.Move)
		winRate = res.WinRate
		nRollout = res.Rollouts
	case "gomoku":
		behaviour.Selector = mcts.SelectorPUCT
		res, err := runSearch[gomoku.State, gomoku.Cell](gomoku.Game{}, gomoku.NewState(), behaviour)
		if err != nil {
			fatal(profile, err)
		}
		moveStr = fmt.Sprint(res.Move)
		winRate = res.WinRate
		nRollout = res.Rollouts
	default:
		fatal(profile, fmt.Errorf("unknown game %q", *game))
	}

	elapsed := time.Since(start)
	nps := float64(nRollout) / elapsed.Seconds()

	heading := termenv.String("mctsbench").Foreground(profile.Color("6")).Bold()
	fmt.Println(heading)
	fmt.Printf("move:     %s\n", moveStr)
	fmt.Printf("win rate: %s\n", colorWinRate(profile, winRate))
	fmt.Printf("rollouts: %s in %s (%s/s)\n",
		humanize.Comma(int64(nRollout)), elapsed.Round(time.Millisecond), humanize.Comma(int64(nps)))
}

func colorWinRate(profile termenv.Profile, wr float64) string {
	pct := fmt.Sprintf("%.1f%%", wr*100)
	color := "3" // yellow: unclear
	switch {
	case wr >= 0.55:
		color = "2" // green: favorable
	case wr <= 0.45:
		color = "1" // red: unfavorable
	}
	return termenv.String(pct).Foreground(profile.Color(color)).String()
}

func runSearch[S any, M mcts.MoveLike](game mcts.Game[S, M], state S, behaviour mcts.Behaviour) (*mcts.SearchResults[S, M], error) {
	engine, err := mcts.NewEngine[S, M](game, behaviour, 0, 128<<20)
	if err != nil {
		return nil, err
	}
	return engine.Search(state, nil, nil)
}

func fatal(profile termenv.Profile, err error) {
	fmt.Fprintln(os.Stderr, termenv.String(err.Error()).Foreground(profile.Color("1")))
	os.Exit(1)
}
