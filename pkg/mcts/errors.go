package mcts

import (
	"github.com/pkg/errors"
)

// Sentinel error kinds, see spec §7. Match these with errors.Is/As at
// call sites; callers should not match on message text.
var (
	// ErrOutOfArena: arena capacity exhausted during expansion. Fatal
	// for the current search.
	ErrOutOfArena = errors.New("mcts: arena capacity exhausted")

	// ErrAlreadyExpanded: expansion attempted on a node that already
	// has children. Programming error; fatal.
	ErrAlreadyExpanded = errors.New("mcts: node already expanded")

	// ErrIllegalState: the game reported no legal moves on a
	// non-terminal state, or a search on a non-terminal root ended
	// with no root children. Evaluate results are not range-checked;
	// a value outside {-1, 0, 1} is passed through unchanged.
	ErrIllegalState = errors.New("mcts: illegal game state")

	// ErrConfig: a Behaviour string failed to parse, or a rollout
	// policy configuration is invalid (e.g. nested meta-aggregation).
	ErrConfig = errors.New("mcts: invalid configuration")
)

// arenaErrorf wraps one of the sentinels above with the offending node
// index or iteration number, per spec §7 ("fatal errors are surfaced
// with the offending node index / iteration number for diagnostics").
func arenaErrorf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}
