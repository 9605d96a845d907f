package mcts

// NoParent marks the root node's parent slot; it never refers to a
// real arena index.
const NoParent int32 = -1

// sentinelValue is written into a node's Value when the immediate-loss
// short-circuit (spec §4.5) fires against it. It deliberately breaks
// the usual 0 <= value <= visits bound so the node's exploitation term
// stays deeply negative no matter how many further visits accumulate
// on top of it.
const sentinelValue float32 = -1e9

// Node is one state-visit slot in the search tree (spec §3). Fields
// are plain (non-atomic): a single Arena is only ever touched by one
// goroutine during a search; root-parallel trees use independent
// Arenas and combine results only after every worker has joined.
type Node[M MoveLike] struct {
	// Parent is the index of this node's parent, or NoParent for the
	// root. Always refers to an earlier index: children are appended
	// strictly after their parent.
	Parent int32

	// FirstChild/NChildren describe the contiguous range of this
	// node's children in the arena. NChildren == 0 means the node is
	// either unexpanded or terminal.
	FirstChild int32
	NChildren  int32

	// Visits counts simulations that passed through this node.
	Visits uint32

	// Value accumulates scaled reward in this node's own perspective;
	// Value/Visits lies in [0, 1] for Visits > 0, except where the
	// immediate-loss short-circuit has written sentinelValue.
	Value float32

	// Perspective is the side that "chose" to enter this node: the
	// negation of the side to move at the root, or for non-root
	// nodes, the side to move at the parent state (i.e. the side that
	// just played InboundEdge).
	Perspective int8

	// InboundEdge is the move from the parent that leads to this
	// node. Undefined (zero value) for the root; never read there.
	InboundEdge M
}

// HasChildren reports whether this node has been expanded with at
// least one child.
func (n *Node[M]) HasChildren() bool {
	return n.NChildren > 0
}

// AvgValue returns Value/Visits, the node's win-rate from its own
// perspective. Returns 0 for an unvisited node.
func (n *Node[M]) AvgValue() float64 {
	return safeDiv(float64(n.Value), float64(n.Visits))
}
