package mcts

// Arena is the flat, index-addressed node pool backing a single
// search tree (spec §3, §4.2). Index 0 is always the root. Inserts
// only ever append; nothing is deleted within a single search, and a
// call to Setup clears the pool for the next one.
type Arena[S any, M MoveLike] struct {
	nodes []Node[M]
	buf   *MoveBuffer[M]
}

// NewArena reserves storage for up to capacity nodes. Expansion that
// would exceed capacity fails with ErrOutOfArena rather than growing
// the underlying slice, so callers can size capacity from a fixed
// memory budget (spec §5: "arena capacity is fixed at creation time").
func NewArena[S any, M MoveLike](capacity int) *Arena[S, M] {
	return &Arena[S, M]{
		nodes: make([]Node[M], 0, capacity),
		buf:   DefaultMoveBuffer[M](),
	}
}

// Cap returns the arena's fixed node capacity.
func (a *Arena[S, M]) Cap() int {
	return cap(a.nodes)
}

// Len returns the number of nodes currently stored.
func (a *Arena[S, M]) Len() int32 {
	return int32(len(a.nodes))
}

// Setup clears the arena and inserts a single root node with
// visits = 0, value = 0, perspective = -rootTurn, and an empty child
// range (spec §4.2).
func (a *Arena[S, M]) Setup(rootTurn int8) {
	a.nodes = a.nodes[:0]
	a.nodes = append(a.nodes, Node[M]{
		Parent:      NoParent,
		Perspective: -rootTurn,
	})
}

// Get returns a pointer into the arena's backing storage for idx.
// Expand only appends within the declared capacity and never
// reallocates, so the pointer stays valid across Expand calls; it is
// invalidated by Setup, which reuses the storage for a new tree.
func (a *Arena[S, M]) Get(idx int32) *Node[M] {
	return &a.nodes[idx]
}

// Root returns the root node.
func (a *Arena[S, M]) Root() *Node[M] {
	return &a.nodes[0]
}

// Expand generates idx's children by calling game.GenerateMoves on
// state (spec §4.2). Precondition: idx has no children yet. Returns
// the number of children created (zero if state is terminal, in which
// case the node stays childless).
func (a *Arena[S, M]) Expand(idx int32, game Game[S, M], state S) (int32, error) {
	node := a.Get(idx)
	if node.HasChildren() {
		return 0, arenaErrorf(ErrAlreadyExpanded, "node %d already expanded", idx)
	}

	a.buf.Reset()
	game.GenerateMoves(state, a.buf)
	if hinter, ok := game.(HintGame[S, M]); ok {
		hinter.GenerateProximates(state, a.buf)
		hinter.SortMoves(state, a.buf)
	}

	if a.buf.IsEmpty() {
		if !game.IsTerminal(state) {
			return 0, arenaErrorf(ErrIllegalState, "node %d: no legal moves on a non-terminal state", idx)
		}
		return 0, nil
	}

	// The perspective of a child is the side that just moved to reach
	// it, i.e. the side to move at the parent state (spec §4.2).
	childPerspective := game.Turn(state)

	start := int32(len(a.nodes))
	needed := int(start) + a.buf.Len()
	if needed > cap(a.nodes) {
		return 0, arenaErrorf(ErrOutOfArena, "expanding node %d needs %d nodes, capacity is %d", idx, needed, cap(a.nodes))
	}

	for _, move := range a.buf.Moves() {
		a.nodes = append(a.nodes, Node[M]{
			Parent:      idx,
			Perspective: childPerspective,
			InboundEdge: move,
		})
	}

	node = a.Get(idx)
	node.FirstChild = start
	node.NChildren = int32(a.buf.Len())
	return node.NChildren, nil
}

// RootVisitDistribution returns the root's children's visit counts,
// in child-range (i.e. generation) order.
func (a *Arena[S, M]) RootVisitDistribution() []uint32 {
	root := a.Root()
	out := make([]uint32, root.NChildren)
	for i := int32(0); i < root.NChildren; i++ {
		out[i] = a.Get(root.FirstChild + i).Visits
	}
	return out
}

// BestChildByVisits returns the index of idx's most-visited child,
// breaking ties by taking the earliest child in generation order.
// Returns NoParent if idx has no children.
func (a *Arena[S, M]) BestChildByVisits(idx int32) int32 {
	node := a.Get(idx)
	if node.NChildren == 0 {
		return NoParent
	}

	best := node.FirstChild
	bestVisits := a.Get(best).Visits
	for i := int32(1); i < node.NChildren; i++ {
		child := node.FirstChild + i
		if v := a.Get(child).Visits; v > bestVisits {
			bestVisits = v
			best = child
		}
	}
	return best
}

// PVMoves follows BestChildByVisits from the root until a childless
// node, collecting inbound edges (spec §4.2's pv_moves).
func (a *Arena[S, M]) PVMoves() []M {
	moves := make([]M, 0, 8)
	idx := int32(0)
	for {
		next := a.BestChildByVisits(idx)
		if next == NoParent {
			return moves
		}
		moves = append(moves, a.Get(next).InboundEdge)
		idx = next
	}
}

// PVLength returns len(a.PVMoves()) without allocating the slice.
func (a *Arena[S, M]) PVLength() int {
	length := 0
	idx := int32(0)
	for {
		next := a.BestChildByVisits(idx)
		if next == NoParent {
			return length
		}
		length++
		idx = next
	}
}

// AverageDepth returns the mean depth of every leaf reachable from
// the root, weighted by recursion (spec §4.2). This walks the whole
// expanded tree and is intended for reporting only, never for the hot
// search loop.
func (a *Arena[S, M]) AverageDepth() float64 {
	totalDepth, leaves := a.sumLeafDepths(0, 0)
	return safeDiv(float64(totalDepth), float64(leaves))
}

func (a *Arena[S, M]) sumLeafDepths(idx int32, depth int) (sum int64, leaves int64) {
	node := a.Get(idx)
	if node.NChildren == 0 {
		return int64(depth), 1
	}
	for i := int32(0); i < node.NChildren; i++ {
		childSum, childLeaves := a.sumLeafDepths(node.FirstChild+i, depth+1)
		sum += childSum
		leaves += childLeaves
	}
	return sum, leaves
}
