package mcts

import (
	"math"
	"testing"
)

func setupThreeChildArena(t *testing.T) *Arena[int8, testMove] {
	t.Helper()
	a := NewArena[int8, testMove](16)
	a.Setup(1)
	game := fixedGame{moves: []testMove{0, 1, 2}}
	if _, err := a.Expand(0, game, int8(1)); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return a
}

func TestUCB1SelectorPrefersUnvisitedChild(t *testing.T) {
	a := setupThreeChildArena(t)
	root := a.Root()
	root.Visits = 1
	a.Get(root.FirstChild).Visits = 1
	a.Get(root.FirstChild).Value = 0.5
	// root.FirstChild+1 and +2 remain unvisited.

	sel := NewUCB1Selector[int8, testMove](1.0)
	chosen := sel(a, fixedGame{}, 0, int8(1))
	if chosen != root.FirstChild+1 {
		t.Fatalf("UCB1 selector chose %d, want earliest unvisited child %d", chosen, root.FirstChild+1)
	}
}

func TestUCB1SelectorPicksHigherExploitWhenAllVisited(t *testing.T) {
	a := setupThreeChildArena(t)
	root := a.Root()
	root.Visits = 30

	for i := int32(0); i < 3; i++ {
		a.Get(root.FirstChild + i).Visits = 10
		a.Get(root.FirstChild + i).Value = 5
	}
	a.Get(root.FirstChild + 1).Value = 9 // best exploitation

	sel := NewUCB1Selector[int8, testMove](0) // exploration off
	chosen := sel(a, fixedGame{}, 0, int8(1))
	if chosen != root.FirstChild+1 {
		t.Fatalf("UCB1 selector chose %d, want highest-exploit child %d", chosen, root.FirstChild+1)
	}
}

func TestNormalizedPriorsSumToOne(t *testing.T) {
	a := setupThreeChildArena(t)
	priors := normalizedPriors[int8, testMove](a, fixedGame{}, 0, int8(1))

	sum := 0.0
	for _, p := range priors {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("priors sum to %v, want 1", sum)
	}
}

func TestPUCTSelectorPrefersUnvisitedChild(t *testing.T) {
	a := setupThreeChildArena(t)
	root := a.Root()
	root.Visits = 1
	a.Get(root.FirstChild).Visits = 1

	sel := NewPUCTSelector[int8, testMove]()
	chosen := sel(a, fixedGame{}, 0, int8(1))
	if chosen != root.FirstChild+1 {
		t.Fatalf("PUCT selector chose %d, want earliest unvisited child %d", chosen, root.FirstChild+1)
	}
}
