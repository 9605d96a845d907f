package mcts

import (
	"math"
	"math/rand"
)

// RolloutKind tags the variant of RolloutPolicy (spec §4.4). Modeled
// as a flat enum plus payload fields rather than an interface
// hierarchy, so a RolloutPolicy value is always comparable and easy to
// serialize/deserialize (see config.go).
type RolloutKind int

const (
	RolloutRandom RolloutKind = iota
	RolloutDecisive
	RolloutRandomQualityScaled
	RolloutDecisiveQualityScaled
	RolloutRandomCutoff
	RolloutDecisiveCutoff
	RolloutMetaAggregated
)

// RolloutPolicy is a tagged sum over the rollout variants in spec
// §4.4. Cutoff holds the move-count bound for the *Cutoff kinds;
// Inner/Repeats hold the wrapped policy and repeat count for
// RolloutMetaAggregated.
type RolloutPolicy struct {
	Kind    RolloutKind
	Cutoff  int
	Inner   *RolloutPolicy
	Repeats int
}

// RandomRollout applies uniformly random moves until terminal.
func RandomRollout() RolloutPolicy { return RolloutPolicy{Kind: RolloutRandom} }

// DecisiveRollout plays an immediate non-zero-evaluation terminal move
// as soon as one exists, otherwise plays uniformly at random.
func DecisiveRollout() RolloutPolicy { return RolloutPolicy{Kind: RolloutDecisive} }

// RandomQualityScaledRollout is RandomRollout with its outcome scaled
// by exp(-0.04*move_count), weighting faster wins higher.
func RandomQualityScaledRollout() RolloutPolicy {
	return RolloutPolicy{Kind: RolloutRandomQualityScaled}
}

// DecisiveQualityScaledRollout is DecisiveRollout with the same
// quality scaling.
func DecisiveQualityScaledRollout() RolloutPolicy {
	return RolloutPolicy{Kind: RolloutDecisiveQualityScaled}
}

// RandomCutoffRollout plays RandomRollout but returns 0 if the rollout
// reaches k moves without terminating.
func RandomCutoffRollout(k int) RolloutPolicy {
	return RolloutPolicy{Kind: RolloutRandomCutoff, Cutoff: k}
}

// DecisiveCutoffRollout is DecisiveRollout with the same cutoff.
func DecisiveCutoffRollout(k int) RolloutPolicy {
	return RolloutPolicy{Kind: RolloutDecisiveCutoff, Cutoff: k}
}

// MetaAggregatedRollout runs inner n times from independent clones of
// the input state and returns the arithmetic mean. inner must be one
// of the four base/quality-scaled variants (not a cutoff variant and
// not itself meta-aggregated); violating that is a configuration
// error, not a runtime one (spec §4.4, §9).
func MetaAggregatedRollout(inner RolloutPolicy, n int) (RolloutPolicy, error) {
	switch inner.Kind {
	case RolloutRandom, RolloutDecisive, RolloutRandomQualityScaled, RolloutDecisiveQualityScaled:
		// allowed
	default:
		return RolloutPolicy{}, arenaErrorf(ErrConfig, "meta-aggregated rollout cannot wrap %v", inner.Kind)
	}
	if n <= 0 {
		return RolloutPolicy{}, arenaErrorf(ErrConfig, "meta-aggregated rollout repeat count must be positive, got %d", n)
	}
	innerCopy := inner
	return RolloutPolicy{Kind: RolloutMetaAggregated, Inner: &innerCopy, Repeats: n}, nil
}

// Simulate runs policy from state (mutating a clone, never the
// caller's state) and returns a scalar outcome in [-1, 1] (spec §4.4).
func Simulate[S any, M MoveLike](policy RolloutPolicy, game Game[S, M], state S, rng *rand.Rand) (float64, error) {
	switch policy.Kind {
	case RolloutRandom:
		q, _, err := randomRollout(game, state, rng, 0)
		return q, err
	case RolloutDecisive:
		q, _, err := decisiveRollout(game, state, rng, 0)
		return q, err
	case RolloutRandomQualityScaled:
		q, moves, err := randomRollout(game, state, rng, 0)
		return qualityScale(q, moves), err
	case RolloutDecisiveQualityScaled:
		q, moves, err := decisiveRollout(game, state, rng, 0)
		return qualityScale(q, moves), err
	case RolloutRandomCutoff:
		q, _, err := randomRollout(game, state, rng, policy.Cutoff)
		return q, err
	case RolloutDecisiveCutoff:
		q, _, err := decisiveRollout(game, state, rng, policy.Cutoff)
		return q, err
	case RolloutMetaAggregated:
		return metaAggregatedRollout(*policy.Inner, policy.Repeats, game, state, rng)
	default:
		return 0, arenaErrorf(ErrConfig, "unknown rollout kind %v", policy.Kind)
	}
}

// qualityScale weights a terminal outcome q by exp(-0.04*move_count),
// bounded by |q| <= 1 and monotonically decreasing in move_count for a
// fixed q != 0 (spec §4.4, §8 property 8).
func qualityScale(q float64, moveCount int) float64 {
	return q * math.Exp(-0.04*float64(moveCount))
}

// randomRollout plays uniformly random moves until terminal (or until
// cutoff moves have been played, if cutoff > 0), returning the
// resulting evaluation and the number of moves played. If state is
// already terminal on entry, it returns Evaluate(state) immediately
// without calling the game for moves (spec §4.4 edge case).
func randomRollout[S any, M MoveLike](game Game[S, M], state S, rng *rand.Rand, cutoff int) (float64, int, error) {
	if game.IsTerminal(state) {
		return float64(game.Evaluate(state)), 0, nil
	}

	moves := 0
	for !game.IsTerminal(state) {
		if cutoff > 0 && moves >= cutoff {
			return 0, moves, nil
		}
		if err := game.PushRandom(&state, rng); err != nil {
			return 0, moves, err
		}
		moves++
	}
	return float64(game.Evaluate(state)), moves, nil
}

// decisiveRollout plays a move into an immediate non-zero-evaluation
// terminal state as soon as one is available; otherwise it plays
// uniformly at random. Honors the same cutoff and already-terminal
// rules as randomRollout.
func decisiveRollout[S any, M MoveLike](game Game[S, M], state S, rng *rand.Rand, cutoff int) (float64, int, error) {
	if game.IsTerminal(state) {
		return float64(game.Evaluate(state)), 0, nil
	}

	moves := 0
	buf := DefaultMoveBuffer[M]()
	for !game.IsTerminal(state) {
		if cutoff > 0 && moves >= cutoff {
			return 0, moves, nil
		}

		buf.Reset()
		game.GenerateMoves(state, buf)
		if buf.IsEmpty() {
			return 0, moves, arenaErrorf(ErrIllegalState, "decisive rollout: no legal moves on a non-terminal state")
		}

		for _, move := range buf.Moves() {
			candidate := state
			game.Push(&candidate, move)
			if game.IsTerminal(candidate) {
				if q := game.Evaluate(candidate); q != 0 {
					return float64(q), moves + 1, nil
				}
			}
		}

		if err := game.PushRandom(&state, rng); err != nil {
			return 0, moves, err
		}
		moves++
	}
	return float64(game.Evaluate(state)), moves, nil
}

// metaAggregatedRollout runs inner n times from independent clones of
// state and returns the arithmetic mean outcome.
func metaAggregatedRollout[S any, M MoveLike](inner RolloutPolicy, n int, game Game[S, M], state S, rng *rand.Rand) (float64, error) {
	sum := 0.0
	for i := 0; i < n; i++ {
		q, err := Simulate(inner, game, state, rng)
		if err != nil {
			return 0, err
		}
		sum += q
	}
	return sum / float64(n), nil
}
