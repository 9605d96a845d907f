package mcts

import (
	"math/rand"
	"testing"
)

type testMove int

type fixedGame struct {
	moves []testMove
}

func (fixedGame) Turn(s int8) int8       { return s }
func (fixedGame) IsTerminal(s int8) bool { return false }
func (fixedGame) Evaluate(s int8) int8   { return 0 }
func (g fixedGame) GenerateMoves(s int8, out *MoveBuffer[testMove]) {
	for _, m := range g.moves {
		out.Push(m)
	}
}
func (fixedGame) Push(s *int8, m testMove) { *s = -*s }
func (fixedGame) PushRandom(s *int8, _ *rand.Rand) error {
	return nil
}

func TestArenaSetupResetsToSingleRoot(t *testing.T) {
	a := NewArena[int8, testMove](16)
	a.Setup(1)

	if got := a.Len(); got != 1 {
		t.Fatalf("Len() after Setup = %d, want 1", got)
	}
	root := a.Root()
	if root.Parent != NoParent {
		t.Fatalf("root.Parent = %d, want NoParent", root.Parent)
	}
	if root.HasChildren() {
		t.Fatalf("fresh root should have no children")
	}
}

func TestArenaExpandAppendsContiguousChildren(t *testing.T) {
	a := NewArena[int8, testMove](16)
	a.Setup(1)

	game := fixedGame{moves: []testMove{0, 1, 2}}
	n, err := a.Expand(0, game, int8(1))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if n != 3 {
		t.Fatalf("Expand returned %d children, want 3", n)
	}

	root := a.Root()
	if root.NChildren != 3 {
		t.Fatalf("root.NChildren = %d, want 3", root.NChildren)
	}
	for i := int32(0); i < 3; i++ {
		child := a.Get(root.FirstChild + i)
		if child.Parent != 0 {
			t.Errorf("child %d.Parent = %d, want 0", i, child.Parent)
		}
		if child.InboundEdge != testMove(i) {
			t.Errorf("child %d.InboundEdge = %v, want %v", i, child.InboundEdge, testMove(i))
		}
	}
}

func TestArenaExpandTwiceFails(t *testing.T) {
	a := NewArena[int8, testMove](16)
	a.Setup(1)
	game := fixedGame{moves: []testMove{0, 1}}

	if _, err := a.Expand(0, game, int8(1)); err != nil {
		t.Fatalf("first Expand: %v", err)
	}
	if _, err := a.Expand(0, game, int8(1)); err == nil {
		t.Fatalf("second Expand on the same node should fail")
	}
}

func TestArenaExpandOutOfCapacity(t *testing.T) {
	a := NewArena[int8, testMove](2)
	a.Setup(1)
	game := fixedGame{moves: []testMove{0, 1, 2}}

	if _, err := a.Expand(0, game, int8(1)); err == nil {
		t.Fatalf("expected ErrOutOfArena, got nil")
	}
}

func TestArenaBestChildByVisitsTiesToEarliest(t *testing.T) {
	a := NewArena[int8, testMove](16)
	a.Setup(1)
	game := fixedGame{moves: []testMove{0, 1, 2}}
	if _, err := a.Expand(0, game, int8(1)); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	root := a.Root()
	a.Get(root.FirstChild).Visits = 5
	a.Get(root.FirstChild + 1).Visits = 5
	a.Get(root.FirstChild + 2).Visits = 3

	best := a.BestChildByVisits(0)
	if best != root.FirstChild {
		t.Fatalf("BestChildByVisits = %d, want earliest tied child %d", best, root.FirstChild)
	}
}
