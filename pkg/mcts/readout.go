package mcts

import (
	"fmt"
	"io"
	"time"
)

// Readout periodically prints search progress in a UCI-style info
// line, for driving programs (tournament managers, GUIs) that parse
// a fixed textual format rather than a Go API (spec §7's supplemented
// reporting hooks).
type Readout struct {
	w     io.Writer
	start time.Time
}

// NewReadout returns a Readout writing to w, timing nps against the
// moment it's constructed.
func NewReadout(w io.Writer) *Readout {
	return &Readout{w: w, start: time.Now()}
}

// Emit writes one info line from the given search statistics at the
// given iteration count:
//
//	info depth <avg> seldepth <pv_len> score wdl <winrate_permille> nodes <n> nps <n/s> pv <moves...>
func (r *Readout) Emit(pv []any, avgDepth float64, pvLength int, winRate float64, iterations uint64) {
	elapsed := time.Since(r.start)
	ms := elapsed.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	nps := int64(iterations) * 1000 / ms

	fmt.Fprintf(r.w, "info depth %.1f seldepth %d score wdl %.0f nodes %d nps %d pv %s\n",
		avgDepth, pvLength, winRate*1000, iterations, nps, formatPV(pv))
}

func formatPV(pv []any) string {
	out := ""
	for i, m := range pv {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprint(m)
	}
	return out
}

// ReadoutFor adapts a Readout into a ReadoutFunc bound to a specific
// Engine, so it can be passed directly to Engine.Search.
func ReadoutFor[S any, M MoveLike](r *Readout) ReadoutFunc[S, M] {
	return func(engine *Engine[S, M], iteration uint64) {
		pv := engine.Arena().PVMoves()
		anyPV := make([]any, len(pv))
		for i, m := range pv {
			anyPV[i] = m
		}
		r.Emit(anyPV, engine.Arena().AverageDepth(), engine.Arena().PVLength(), engine.Arena().Root().AvgValue(), iteration)
	}
}
