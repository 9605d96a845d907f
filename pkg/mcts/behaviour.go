package mcts

import "time"

// LimitKind tags which resource a Limit bounds (spec §4.5, §6).
type LimitKind int

const (
	LimitRollouts LimitKind = iota
	LimitTime
)

// Limit bounds how long a single Search call may run (spec §4.5).
// Exactly one of Rollouts/Duration is meaningful, selected by Kind.
type Limit struct {
	Kind     LimitKind
	Rollouts uint32
	Duration time.Duration
}

// Rollouts bounds a search to at most n simulations.
func Rollouts(n uint32) Limit {
	return Limit{Kind: LimitRollouts, Rollouts: n}
}

// Time bounds a search to at most d wall-clock time.
func Time(d time.Duration) Limit {
	return Limit{Kind: LimitTime, Duration: d}
}

// Behaviour bundles every tunable of a Search call (spec §6). The
// zero value is not valid; build one with NewBehaviour or
// ParseBehaviour.
type Behaviour struct {
	Limit             Limit
	RolloutPolicy     RolloutPolicy
	Selector          SelectorKind
	ExplorationFactor float64

	// TrainingMode switches the driver's move choice at the end of
	// Search from pure argmax-by-visits to the proportional sampling
	// used to generate self-play training data (spec §4.6).
	TrainingMode bool

	// RootParallelism is the number of independent arenas to search in
	// parallel and join (spec §4.6, "Concurrency model"). 1 disables
	// parallel search entirely.
	RootParallelism int

	// Verbosity enables periodic Readout emission during Search.
	Verbosity bool
}

// NewBehaviour returns a Behaviour with sane, spec-conformant
// defaults: UCB1 selection at DefaultExplorationFactor, a random
// rollout policy, a 1-second time limit, single-threaded search, and
// no training mode or verbosity. Callers override whichever fields
// their use case needs.
func NewBehaviour() Behaviour {
	return Behaviour{
		Limit:             Time(time.Second),
		RolloutPolicy:     RandomRollout(),
		Selector:          SelectorUCB1,
		ExplorationFactor: DefaultExplorationFactor,
		RootParallelism:   1,
	}
}

// Validate checks the invariants ParseBehaviour and NewEngine both
// rely on: a positive root parallelism, a positive rollout/time
// limit, and (transitively, since MetaAggregatedRollout already
// enforces its own shape at construction time) a well-formed rollout
// policy.
func (b Behaviour) Validate() error {
	if b.RootParallelism <= 0 {
		return arenaErrorf(ErrConfig, "root parallelism must be positive, got %d", b.RootParallelism)
	}
	switch b.Limit.Kind {
	case LimitRollouts:
		if b.Limit.Rollouts == 0 {
			return arenaErrorf(ErrConfig, "rollout limit must be positive")
		}
	case LimitTime:
		if b.Limit.Duration <= 0 {
			return arenaErrorf(ErrConfig, "time limit must be positive, got %s", b.Limit.Duration)
		}
	default:
		return arenaErrorf(ErrConfig, "unknown limit kind %v", b.Limit.Kind)
	}
	return nil
}
