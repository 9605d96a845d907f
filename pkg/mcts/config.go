package mcts

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ParseBehaviour parses the comma-separated key=value grammar from
// spec §6 into a Behaviour, starting from NewBehaviour's defaults and
// overriding whatever keys are present. Unknown keys or malformed
// values return ErrConfig, wrapped with the offending token (spec
// §4.5's "Error Handling Design").
//
// Recognized keys:
//
//	limit=rollouts:<u32>
//	limit=time:<ms>
//	rollout_policy=random | decisive | random_quality_scaled |
//	               decisive_quality_scaled | random_cutoff.<k> |
//	               decisive_cutoff.<k> | meta_aggregated.<inner>.<n>
//
// Ambient extensions beyond spec §6, in the same grammar:
//
//	selector=ucb1 | puct
//	exploration_factor=<float>
//	training=true | false
//	verbosity=true | false
//	root_parallelism=<int>
func ParseBehaviour(s string) (Behaviour, error) {
	b := NewBehaviour()
	if strings.TrimSpace(s) == "" {
		return b, nil
	}

	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return Behaviour{}, arenaErrorf(ErrConfig, "malformed token %q: expected key=value", token)
		}

		var err error
		switch key {
		case "limit":
			b.Limit, err = parseLimit(value)
		case "rollout_policy":
			b.RolloutPolicy, err = parseRolloutPolicy(value)
		case "selector":
			b.Selector, err = parseSelectorKind(value)
		case "exploration_factor":
			b.ExplorationFactor, err = strconv.ParseFloat(value, 64)
		case "training":
			b.TrainingMode, err = strconv.ParseBool(value)
		case "verbosity":
			b.Verbosity, err = strconv.ParseBool(value)
		case "root_parallelism":
			b.RootParallelism, err = strconv.Atoi(value)
		default:
			err = arenaErrorf(ErrConfig, "unknown configuration key %q", key)
		}
		if err != nil {
			return Behaviour{}, wrapConfigErr(err, key, value)
		}
	}

	if err := b.Validate(); err != nil {
		return Behaviour{}, err
	}
	return b, nil
}

func wrapConfigErr(err error, key, value string) error {
	if errors.Is(err, ErrConfig) {
		return err
	}
	return arenaErrorf(ErrConfig, "key %q: invalid value %q: %s", key, value, err)
}

func parseLimit(value string) (Limit, error) {
	kind, payload, ok := strings.Cut(value, ":")
	if !ok {
		return Limit{}, arenaErrorf(ErrConfig, "malformed limit %q: expected kind:value", value)
	}
	switch kind {
	case "rollouts":
		n, err := strconv.ParseUint(payload, 10, 32)
		if err != nil {
			return Limit{}, arenaErrorf(ErrConfig, "invalid rollout count %q: %s", payload, err)
		}
		return Rollouts(uint32(n)), nil
	case "time":
		ms, err := strconv.ParseUint(payload, 10, 64)
		if err != nil {
			return Limit{}, arenaErrorf(ErrConfig, "invalid time limit %q: %s", payload, err)
		}
		return Time(time.Duration(ms) * time.Millisecond), nil
	default:
		return Limit{}, arenaErrorf(ErrConfig, "unknown limit kind %q", kind)
	}
}

func parseSelectorKind(value string) (SelectorKind, error) {
	switch value {
	case "ucb1":
		return SelectorUCB1, nil
	case "puct":
		return SelectorPUCT, nil
	default:
		return 0, arenaErrorf(ErrConfig, "unknown selector %q", value)
	}
}

// parseRolloutPolicy parses a single rollout_policy value, recursing
// once for meta_aggregated.<inner>.<n> (inner may not itself be
// meta_aggregated — MetaAggregatedRollout enforces that).
func parseRolloutPolicy(value string) (RolloutPolicy, error) {
	parts := strings.Split(value, ".")
	switch parts[0] {
	case "random":
		return RandomRollout(), nil
	case "decisive":
		return DecisiveRollout(), nil
	case "random_quality_scaled":
		return RandomQualityScaledRollout(), nil
	case "decisive_quality_scaled":
		return DecisiveQualityScaledRollout(), nil
	case "random_cutoff":
		k, err := parseCutoffArg(parts)
		if err != nil {
			return RolloutPolicy{}, err
		}
		return RandomCutoffRollout(k), nil
	case "decisive_cutoff":
		k, err := parseCutoffArg(parts)
		if err != nil {
			return RolloutPolicy{}, err
		}
		return DecisiveCutoffRollout(k), nil
	case "meta_aggregated":
		if len(parts) != 3 {
			return RolloutPolicy{}, arenaErrorf(ErrConfig, "malformed meta_aggregated policy %q: expected meta_aggregated.<inner>.<n>", value)
		}
		inner, err := parseRolloutPolicy(parts[1])
		if err != nil {
			return RolloutPolicy{}, err
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return RolloutPolicy{}, arenaErrorf(ErrConfig, "invalid meta_aggregated repeat count %q: %s", parts[2], err)
		}
		return MetaAggregatedRollout(inner, n)
	default:
		return RolloutPolicy{}, arenaErrorf(ErrConfig, "unknown rollout policy %q", parts[0])
	}
}

func parseCutoffArg(parts []string) (int, error) {
	if len(parts) != 2 {
		return 0, arenaErrorf(ErrConfig, "malformed cutoff policy %q: expected name.<k>", strings.Join(parts, "."))
	}
	k, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, arenaErrorf(ErrConfig, "invalid cutoff %q: %s", parts[1], err)
	}
	return k, nil
}
