package mcts

import (
	"testing"
	"time"
)

func TestParseBehaviourDefaults(t *testing.T) {
	b, err := ParseBehaviour("")
	if err != nil {
		t.Fatalf("ParseBehaviour(\"\"): %v", err)
	}
	if b.Selector != SelectorUCB1 {
		t.Fatalf("default selector = %v, want SelectorUCB1", b.Selector)
	}
}

func TestParseBehaviourLimitRollouts(t *testing.T) {
	b, err := ParseBehaviour("limit=rollouts:1000")
	if err != nil {
		t.Fatalf("ParseBehaviour: %v", err)
	}
	if b.Limit.Kind != LimitRollouts || b.Limit.Rollouts != 1000 {
		t.Fatalf("Limit = %+v, want rollouts:1000", b.Limit)
	}
}

func TestParseBehaviourLimitTime(t *testing.T) {
	b, err := ParseBehaviour("limit=time:500")
	if err != nil {
		t.Fatalf("ParseBehaviour: %v", err)
	}
	if b.Limit.Kind != LimitTime || b.Limit.Duration != 500*time.Millisecond {
		t.Fatalf("Limit = %+v, want time:500ms", b.Limit)
	}
}

func TestParseBehaviourRolloutPolicyCutoff(t *testing.T) {
	b, err := ParseBehaviour("rollout_policy=decisive_cutoff.50")
	if err != nil {
		t.Fatalf("ParseBehaviour: %v", err)
	}
	if b.RolloutPolicy.Kind != RolloutDecisiveCutoff || b.RolloutPolicy.Cutoff != 50 {
		t.Fatalf("RolloutPolicy = %+v, want decisive_cutoff.50", b.RolloutPolicy)
	}
}

func TestParseBehaviourRolloutPolicyMetaAggregated(t *testing.T) {
	b, err := ParseBehaviour("rollout_policy=meta_aggregated.random.8")
	if err != nil {
		t.Fatalf("ParseBehaviour: %v", err)
	}
	if b.RolloutPolicy.Kind != RolloutMetaAggregated || b.RolloutPolicy.Repeats != 8 {
		t.Fatalf("RolloutPolicy = %+v, want meta_aggregated.random.8", b.RolloutPolicy)
	}
	if b.RolloutPolicy.Inner == nil || b.RolloutPolicy.Inner.Kind != RolloutRandom {
		t.Fatalf("RolloutPolicy.Inner = %+v, want random", b.RolloutPolicy.Inner)
	}
}

func TestParseBehaviourRejectsNestedMetaAggregated(t *testing.T) {
	if _, err := ParseBehaviour("rollout_policy=meta_aggregated.meta_aggregated.random.3.4"); err == nil {
		t.Fatalf("expected an error for nested meta_aggregated")
	}
}

func TestParseBehaviourMultipleKeys(t *testing.T) {
	b, err := ParseBehaviour("limit=rollouts:200,selector=puct,training=true,verbosity=true")
	if err != nil {
		t.Fatalf("ParseBehaviour: %v", err)
	}
	if b.Limit.Rollouts != 200 || b.Selector != SelectorPUCT || !b.TrainingMode || !b.Verbosity {
		t.Fatalf("unexpected Behaviour: %+v", b)
	}
}

func TestParseBehaviourUnknownKeyFails(t *testing.T) {
	if _, err := ParseBehaviour("not_a_real_key=1"); err == nil {
		t.Fatalf("expected ErrConfig for an unknown key")
	}
}

func TestParseBehaviourMalformedTokenFails(t *testing.T) {
	if _, err := ParseBehaviour("limit"); err == nil {
		t.Fatalf("expected ErrConfig for a token with no '='")
	}
}
