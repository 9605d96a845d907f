package mcts

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Parallel runs Behaviour.RootParallelism independent Engines against
// independent Arenas from the same rootState, then joins their results
// by summing visit distributions and averaging win rates (spec §4.6
// "Concurrency/Resource model": root-parallelism, never a shared
// mutable tree). newGame must return a fresh Game value usable from
// the calling goroutine; for a stateless Game implementation it can
// simply return the same value every time.
func Parallel[S any, M MoveLike](behaviour Behaviour, newGame func() Game[S, M], rootState S, cancel <-chan struct{}) (*SearchResults[S, M], error) {
	if err := behaviour.Validate(); err != nil {
		return nil, err
	}
	workers := behaviour.RootParallelism
	if workers <= 1 {
		engine, err := NewEngine[S, M](newGame(), behaviour, 0, defaultSingleEngineBytes)
		if err != nil {
			return nil, err
		}
		return engine.Search(rootState, cancel, nil)
	}

	results := make([]*SearchResults[S, M], workers)
	group, ctx := errgroup.WithContext(context.Background())

	for w := 0; w < workers; w++ {
		w := w
		group.Go(func() error {
			engine, err := NewEngine[S, M](newGame(), behaviour, 0, defaultSingleEngineBytes/int64(workers))
			if err != nil {
				return multierror.Append(nil, err)
			}
			res, err := engine.Search(rootState, mergeCancel(ctx, cancel), nil)
			if err != nil {
				return multierror.Append(nil, err)
			}
			results[w] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	joined := joinResults(results)
	if len(joined.ChildMoves) > 0 {
		newState := rootState
		newGame().Push(&newState, joined.Move)
		joined.NewState = newState
	}
	return joined, nil
}

// defaultSingleEngineBytes is the arena byte budget Parallel uses: a
// single engine gets all of it, and with N workers each gets 1/N of it.
// Callers with a tighter memory budget can build their own Engines with
// NewEngine instead.
const defaultSingleEngineBytes = 64 << 20 // 64 MiB

// mergeCancel closes its returned channel as soon as either ctx is
// done or cancel is closed.
func mergeCancel(ctx context.Context, cancel <-chan struct{}) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
		case <-cancel:
		}
	}()
	return out
}

// joinResults sums per-child visit distributions elementwise and
// averages win rate across workers (spec §4.6). It assumes every
// worker explored the same root children in the same generation
// order, which holds because GenerateMoves is deterministic.
func joinResults[S any, M MoveLike](results []*SearchResults[S, M]) *SearchResults[S, M] {
	first := results[0]
	n := len(first.VisitDistribution)

	summed := make([]uint32, n)
	var totalRollouts uint64
	var winRateSum float64
	var depthSum float64
	bestIdx, bestVisits := 0, uint32(0)

	for _, res := range results {
		totalRollouts += res.Rollouts
		winRateSum += res.WinRate
		depthSum += res.AverageDepth
		for i := 0; i < n && i < len(res.VisitDistribution); i++ {
			summed[i] += res.VisitDistribution[i]
			if summed[i] > bestVisits {
				bestVisits = summed[i]
				bestIdx = i
			}
		}
	}

	bestMove := first.Move
	if bestIdx < len(first.ChildMoves) {
		bestMove = first.ChildMoves[bestIdx]
	}

	return &SearchResults[S, M]{
		Move:              bestMove,
		NewState:          first.NewState,
		VisitDistribution: summed,
		ChildMoves:        first.ChildMoves,
		Rollouts:          totalRollouts,
		WinRate:           winRateSum / float64(len(results)),
		AverageDepth:      depthSum / float64(len(results)),
		PVLength:          first.PVLength,
	}
}
