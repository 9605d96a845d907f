package mcts

import "golang.org/x/exp/constraints"

// safeDiv divides a by b, returning zero instead of NaN when b is
// zero, for the averages reported by Node.AvgValue and
// Arena.AverageDepth.
func safeDiv[T constraints.Float](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}
