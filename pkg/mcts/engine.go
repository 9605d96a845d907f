package mcts

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// bytesPerNode approximates a Node[M]'s footprint for sizing an arena
// from a byte budget (spec §5 "Resource model"). It is intentionally
// conservative (slightly over actual struct size, to account for slice
// header overhead elsewhere in the arena) rather than exact.
const bytesPerNode = 32

// Engine owns one Arena and drives the select/expand/simulate/
// backpropagate loop against a single Game (spec §4's "Search driver").
// An Engine is not safe for concurrent use by multiple goroutines; for
// root-parallel search, see Parallel.
type Engine[S any, M MoveLike] struct {
	game      Game[S, M]
	behaviour Behaviour
	arena     *Arena[S, M]
	selector  Selector[S, M]
	rng       *rand.Rand
}

// NewEngine builds an Engine bounded to capacity nodes, sized from
// maxBytes if capacity is given as 0 (spec §5's memory-budget
// resource model: capacity = maxBytes / bytesPerNode).
func NewEngine[S any, M MoveLike](game Game[S, M], behaviour Behaviour, capacity int, maxBytes int64) (*Engine[S, M], error) {
	if err := behaviour.Validate(); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		if maxBytes <= 0 {
			return nil, arenaErrorf(ErrConfig, "either capacity or maxBytes must be positive")
		}
		capacity = int(maxBytes / bytesPerNode)
		if capacity < 1 {
			capacity = 1
		}
	}

	var selector Selector[S, M]
	switch behaviour.Selector {
	case SelectorUCB1:
		selector = NewUCB1Selector[S, M](behaviour.ExplorationFactor)
	case SelectorPUCT:
		selector = NewPUCTSelector[S, M]()
	default:
		return nil, arenaErrorf(ErrConfig, "unknown selector kind %v", behaviour.Selector)
	}

	return &Engine[S, M]{
		game:      game,
		behaviour: behaviour,
		arena:     NewArena[S, M](capacity),
		selector:  selector,
		rng:       rand.New(rand.NewSource(SeedGeneratorFn())),
	}, nil
}

// Arena exposes the engine's underlying node pool, mainly for tests
// and diagnostics.
func (e *Engine[S, M]) Arena() *Arena[S, M] { return e.arena }

// SearchResults is everything a caller needs from one Search call
// (spec §4's "Search driver" outputs).
type SearchResults[S any, M MoveLike] struct {
	Move              M
	NewState          S
	VisitDistribution []uint32
	ChildMoves        []M
	Rollouts          uint64
	WinRate           float64
	AverageDepth      float64
	PVLength          int
}

// ReadoutFunc is invoked periodically during Search when
// Behaviour.Verbosity is set (spec §7's supplemented reporting hooks).
type ReadoutFunc[S any, M MoveLike] func(engine *Engine[S, M], iteration uint64)

// Search runs the select/expand/simulate/backpropagate loop from
// rootState until Behaviour.Limit is exhausted or cancel is closed,
// then chooses a move: argmax-by-visits normally, or the proportional
// sample 0.7*visits/total + 0.3*uniform when Behaviour.TrainingMode is
// set (spec §4.6). cancel and onReadout may both be nil.
func (e *Engine[S, M]) Search(rootState S, cancel <-chan struct{}, onReadout ReadoutFunc[S, M]) (*SearchResults[S, M], error) {
	e.arena.Setup(e.game.Turn(rootState))

	deadline, hasDeadline := e.deadline()
	var iteration uint64

	for {
		if cancelled(cancel) {
			break
		}
		if hasDeadline && time.Now().After(deadline) {
			break
		}
		if e.behaviour.Limit.Kind == LimitRollouts && iteration >= uint64(e.behaviour.Limit.Rollouts) {
			break
		}

		if err := e.iterate(rootState); err != nil {
			return nil, errors.Wrapf(err, "iteration %d", iteration)
		}
		iteration++

		if onReadout != nil && e.behaviour.Verbosity && isPowerOfTwo(iteration) {
			onReadout(e, iteration)
		}
	}

	return e.chooseResult(rootState, iteration)
}

func (e *Engine[S, M]) deadline() (time.Time, bool) {
	if e.behaviour.Limit.Kind != LimitTime {
		return time.Time{}, false
	}
	return time.Now().Add(e.behaviour.Limit.Duration), true
}

func cancelled(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// iterate runs one select/expand/simulate/backpropagate cycle (spec
// §2's core loop), including the immediate-loss short-circuit of
// spec §4.5.
func (e *Engine[S, M]) iterate(rootState S) error {
	idx, state := e.selectLeaf(rootState)

	if !e.game.IsTerminal(state) {
		n, err := e.arena.Expand(idx, e.game, state)
		if err != nil {
			return err
		}
		if n > 0 {
			// The child to roll out from is picked uniformly at random,
			// not via the selector: the selector governs descent through
			// an already-established subtree (selectLeaf below), while a
			// freshly expanded node's children are all equally unvisited.
			node := e.arena.Get(idx)
			child := node.FirstChild + e.rng.Int31n(n)
			e.game.Push(&state, e.arena.Get(child).InboundEdge)
			idx = child
		}
	}

	q, err := Simulate(e.behaviour.RolloutPolicy, e.game, state, e.rng)
	if err != nil {
		return err
	}

	// Immediate-loss short-circuit: if the simulation's starting state
	// already evaluates as a loss for the side whose turn it was at
	// the root, poison the parent so the selector never walks back
	// into it (spec §4.5).
	if e.game.IsTerminal(state) && idx != 0 {
		rootSide := e.game.Turn(rootState)
		if e.game.Evaluate(state) == -rootSide {
			parent := e.arena.Get(e.arena.Get(idx).Parent)
			parent.Value = sentinelValue
		}
	}

	e.backpropagate(idx, q)
	return nil
}

// selectLeaf descends from the root via e.selector until it reaches a
// childless node, replaying moves into a local copy of rootState as it
// goes (spec §4.3's "Child selector").
func (e *Engine[S, M]) selectLeaf(rootState S) (int32, S) {
	idx := int32(0)
	state := rootState
	for e.arena.Get(idx).HasChildren() {
		next := e.selector(e.arena, e.game, idx, state)
		e.game.Push(&state, e.arena.Get(next).InboundEdge)
		idx = next
	}
	return idx, state
}

// backpropagate walks from idx to the root inclusive, incrementing
// visits and accumulating q scaled into each node's own perspective
// (spec §3's perspective-scaled accumulation: (q*perspective+1)/2).
func (e *Engine[S, M]) backpropagate(idx int32, q float64) {
	for idx != NoParent {
		node := e.arena.Get(idx)
		node.Visits++
		if node.Value != sentinelValue {
			node.Value += float32((q*float64(node.Perspective) + 1) / 2)
		}
		idx = node.Parent
	}
}

// chooseResult picks the root's best move: argmax-by-visits in normal
// mode, or proportional sampling in training mode (spec §4.6).
func (e *Engine[S, M]) chooseResult(rootState S, iterations uint64) (*SearchResults[S, M], error) {
	root := e.arena.Root()
	if root.NChildren == 0 && e.game.IsTerminal(rootState) {
		// A terminal root is never expanded: report the root's own
		// statistics, no move (zero-value Move), and rootState unchanged.
		return &SearchResults[S, M]{
			NewState:          rootState,
			VisitDistribution: []uint32{},
			ChildMoves:        []M{},
			Rollouts:          iterations,
			WinRate:           root.AvgValue(),
		}, nil
	}
	if root.NChildren == 0 {
		return nil, arenaErrorf(ErrIllegalState, "search produced no root children on a non-terminal root")
	}

	var chosen int32
	if e.behaviour.TrainingMode {
		chosen = e.sampleProportional()
	} else {
		chosen = e.arena.BestChildByVisits(0)
	}

	child := e.arena.Get(chosen)
	newState := rootState
	e.game.Push(&newState, child.InboundEdge)

	childMoves := make([]M, root.NChildren)
	for i := int32(0); i < root.NChildren; i++ {
		childMoves[i] = e.arena.Get(root.FirstChild + i).InboundEdge
	}

	return &SearchResults[S, M]{
		Move:              child.InboundEdge,
		NewState:          newState,
		VisitDistribution: e.arena.RootVisitDistribution(),
		ChildMoves:        childMoves,
		Rollouts:          iterations,
		WinRate:           root.AvgValue(),
		AverageDepth:      e.arena.AverageDepth(),
		PVLength:          e.arena.PVLength(),
	}, nil
}

// sampleProportional samples a root child with probability
// 0.7*visits/total + 0.3*uniform, the self-play exploration mix used
// in training mode (spec §4.6).
func (e *Engine[S, M]) sampleProportional() int32 {
	root := e.arena.Root()
	n := root.NChildren
	total := float64(0)
	for i := int32(0); i < n; i++ {
		total += float64(e.arena.Get(root.FirstChild + i).Visits)
	}

	weights := make([]float64, n)
	sum := 0.0
	uniform := 1.0 / float64(n)
	for i := int32(0); i < n; i++ {
		var visitShare float64
		if total > 0 {
			visitShare = float64(e.arena.Get(root.FirstChild+i).Visits) / total
		}
		weights[i] = 0.7*visitShare + 0.3*uniform
		sum += weights[i]
	}

	r := e.rng.Float64() * sum
	acc := 0.0
	for i := int32(0); i < n; i++ {
		acc += weights[i]
		if r <= acc {
			return root.FirstChild + i
		}
	}
	return root.FirstChild + n - 1
}
