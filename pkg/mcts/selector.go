package mcts

import "math"

// Selector computes the next child to descend into from parentIdx,
// given parentState (the game state at parentIdx). It returns the
// index of the argmax child (spec §4.3).
type Selector[S any, M MoveLike] func(arena *Arena[S, M], game Game[S, M], parentIdx int32, parentState S) int32

// NewUCB1Selector returns the prior-free UCB1 rule:
//
//	value(child) = exploit + c*explore
//	exploit = child.value / child.visits
//	explore = sqrt(ln(parent_visits) / child.visits)
//
// Unvisited children score +Inf so they're picked first, in generation
// order (spec §4.3).
func NewUCB1Selector[S any, M MoveLike](explorationFactor float64) Selector[S, M] {
	return func(arena *Arena[S, M], _ Game[S, M], parentIdx int32, _ S) int32 {
		parent := arena.Get(parentIdx)
		lnParentVisits := math.Log(float64(parent.Visits))

		best := parent.FirstChild
		bestValue := math.Inf(-1)

		for i := int32(0); i < parent.NChildren; i++ {
			idx := parent.FirstChild + i
			child := arena.Get(idx)

			var value float64
			if child.Visits == 0 {
				value = math.Inf(1)
			} else {
				exploit := float64(child.Value) / float64(child.Visits)
				explore := math.Sqrt(lnParentVisits / float64(child.Visits))
				value = exploit + explorationFactor*explore
			}

			if value > bestValue {
				bestValue = value
				best = idx
			}
		}
		return best
	}
}

// NewPUCTSelector returns the prior-aware PUCT rule:
//
//	pb_c = ln((parent_visits + 1.8 + 1) / 1.8) * sqrt(parent_visits) / (child.visits + 1)
//	value(child) = pb_c * normalized_prior(child) + child.value / child.visits
//
// Priors come from game.Policy when game implements PriorGame,
// normalized to sum to 1 across parentIdx's children; otherwise every
// child gets a uniform prior. Unvisited children use the same +Inf
// convention as UCB1 for the exploitation term (spec §4.3).
func NewPUCTSelector[S any, M MoveLike]() Selector[S, M] {
	return func(arena *Arena[S, M], game Game[S, M], parentIdx int32, parentState S) int32 {
		parent := arena.Get(parentIdx)
		priors := normalizedPriors(arena, game, parentIdx, parentState)

		best := parent.FirstChild
		bestValue := math.Inf(-1)

		for i := int32(0); i < parent.NChildren; i++ {
			idx := parent.FirstChild + i
			child := arena.Get(idx)

			pbC := math.Log((float64(parent.Visits)+puctBaseConstant+1)/puctBaseConstant) *
				math.Sqrt(float64(parent.Visits)) / (float64(child.Visits) + 1)

			var exploit float64
			if child.Visits == 0 {
				exploit = math.Inf(1)
			} else {
				exploit = float64(child.Value) / float64(child.Visits)
			}

			value := pbC*priors[i] + exploit
			if value > bestValue {
				bestValue = value
				best = idx
			}
		}
		return best
	}
}

// normalizedPriors returns the normalized prior for every child of
// parentIdx, in generation order, summing to 1 within floating-point
// precision (spec §8 property 7).
func normalizedPriors[S any, M MoveLike](arena *Arena[S, M], game Game[S, M], parentIdx int32, parentState S) []float64 {
	parent := arena.Get(parentIdx)
	priors := make([]float64, parent.NChildren)

	priorGame, hasPriors := game.(PriorGame[S, M])

	sum := 0.0
	for i := int32(0); i < parent.NChildren; i++ {
		child := arena.Get(parent.FirstChild + i)
		var p float64
		if hasPriors {
			p = priorGame.Policy(parentState, child.InboundEdge)
		} else {
			p = 1.0
		}
		priors[i] = p
		sum += p
	}

	if sum <= 0 {
		// Degenerate priors (e.g. a buggy Policy returning all zeros):
		// fall back to uniform so the normalization invariant still
		// holds.
		uniform := 1.0 / float64(len(priors))
		for i := range priors {
			priors[i] = uniform
		}
		return priors
	}

	for i := range priors {
		priors[i] /= sum
	}
	return priors
}
