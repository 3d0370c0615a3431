package rules

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/pkg/constants"
)

// lookaheadPropagate runs the full tier-1/tier-2 rule set to a fixed
// point against a board and reports a contradiction by returning an
// error. The engine package installs this via SetLookaheadPropagator at
// startup; tier-3 rules use it to try a value and see whether it
// collapses under its own weight a few moves later, without tier3
// needing to import the engine (which imports rules) and create a
// cycle.
var lookaheadPropagate func(*board.Board) error

// SetLookaheadPropagator wires the engine's fixed-point propagation
// loop into the tier-3 trial rules. Must be called once during engine
// construction; until then one-step-lookahead silently declines to run
// (trial-clue-violation does not depend on it and always runs).
func SetLookaheadPropagator(fn func(*board.Board) error) {
	lookaheadPropagate = fn
}

func registerTier3(r *Registry) {
	r.register(Descriptor{
		Name:     "Trial Clue Violation",
		Slug:     "trial-clue-violation",
		Tier:     constants.TierLookahead,
		Detector: detectTrialClueViolation,
		Enabled:  true,
		Order:    1,
	})
	r.register(Descriptor{
		Name:     "One-Step Lookahead",
		Slug:     "one-step-lookahead",
		Tier:     constants.TierLookahead,
		Detector: detectOneStepLookahead,
		Enabled:  true,
		Order:    2,
	})
}

// detectTrialClueViolation tries each candidate value for an unknown
// cell and immediately checks whether any clue is already violated — a
// bounded, one-ply check that doesn't require the full propagation loop
// to be wired in, so it's always available.
func detectTrialClueViolation(b *board.Board) (*core.Move, error) {
	return forEachCell(b, func(x, y, idx int) (*core.Move, error) {
		slashBad := tryAndCheck(b, idx, board.Slash)
		backslashBad := tryAndCheck(b, idx, board.Backslash)
		if slashBad && backslashBad {
			return nil, board.ErrWouldFormLoop
		}
		if slashBad == backslashBad {
			return nil, nil
		}
		v := board.Slash
		if slashBad {
			v = board.Backslash
		}
		if err := b.Place(idx, v); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        "trial-clue-violation",
			Cell:        core.CellRef{X: x, Y: y},
			Value:       v.String(),
			Explanation: "the other orientation immediately violates a nearby clue",
		}, nil
	})
}

// tryAndCheck places v speculatively, checks for an immediate clue
// violation or loop, and always rolls back before returning.
func tryAndCheck(b *board.Board, idx int, v board.Value) bool {
	if b.WouldFormLoop(idx, v) {
		return true
	}
	snap := b.Snapshot()
	bad := false
	if err := b.Place(idx, v); err != nil {
		bad = true
	} else if b.ClueViolated() {
		bad = true
	}
	b.Restore(snap)
	return bad
}

// detectOneStepLookahead is the full-depth counterpart of
// trial-clue-violation: it commits a candidate value, runs the engine's
// fixed-point propagation on the speculative copy, and treats a
// contradiction anywhere downstream as proof the candidate was wrong.
// Requires SetLookaheadPropagator to have been called; otherwise it
// defers to trial-clue-violation's shallower check.
func detectOneStepLookahead(b *board.Board) (*core.Move, error) {
	if lookaheadPropagate == nil {
		return nil, nil
	}
	return forEachCell(b, func(x, y, idx int) (*core.Move, error) {
		slashBad := tryFullPropagate(b, idx, board.Slash)
		backslashBad := tryFullPropagate(b, idx, board.Backslash)
		if slashBad && backslashBad {
			return nil, board.ErrWouldFormLoop
		}
		if slashBad == backslashBad {
			return nil, nil
		}
		v := board.Slash
		if slashBad {
			v = board.Backslash
		}
		if err := b.Place(idx, v); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        "one-step-lookahead",
			Cell:        core.CellRef{X: x, Y: y},
			Value:       v.String(),
			Explanation: "assuming the other orientation leads to a contradiction under full propagation",
		}, nil
	})
}

func tryFullPropagate(b *board.Board, idx int, v board.Value) bool {
	if b.WouldFormLoop(idx, v) {
		return true
	}
	snap := b.Snapshot()
	bad := false
	if err := b.Place(idx, v); err != nil {
		bad = true
	} else if err := lookaheadPropagate(b); err != nil {
		bad = true
	}
	b.Restore(snap)
	return bad
}
