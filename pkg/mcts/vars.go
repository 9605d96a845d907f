package mcts

import "time"

// Default exploration constant used by UCB1 when a Behaviour doesn't
// specify one. Theoretical optimum is sqrt(2); in practice it needs
// tuning per game.
const DefaultExplorationFactor float64 = 0.75

// PUCT's pb_c formula bakes in this constant (see selector.go); it is
// not exposed as a tunable, mirroring the reference formula in spec.
const puctBaseConstant float64 = 1.8

// SeedGeneratorFn produces the seed handed to each tree's random
// number generator. Overridable for reproducible tests; defaults to
// wall-clock time, same as the upstream library this package grew out
// of.
var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// SetSeedGeneratorFn installs a custom seed generator. Root-parallel
// trees each call it independently, so supplying a constant function
// makes every tree share the same seed; supplying a counter makes them
// diverge deterministically.
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
