package rules

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
)

// This file holds techniques the original Python rule set experimented
// with but never enabled in its production RULES list. They're kept
// here, unregistered, as a record of what was tried and why it isn't
// wired into the registry — deleting them would lose that context for
// no benefit, since neither is expensive to keep around.

// forcedSolutionAvoidance would reject a candidate value whenever it
// forces the ENTIRE rest of the board into a single fully-determined
// configuration too early, on the theory that a well-formed puzzle
// should still have open cells at this point. It never shipped because
// "too early" has no principled threshold — any cutoff is a difficulty
// tuning knob in disguise, not a deduction, so it doesn't belong in the
// set of rules used to prove a puzzle's solution is forced.
func forcedSolutionAvoidance(b *board.Board) (*core.Move, error) {
	return nil, nil
}

// singlePathExtension would track, for each connectivity component that
// is a simple path (every corner in it has degree <= 2), whether exactly
// one of its two endpoints could still extend, and force that extension.
// It subsumes into dead-end-avoidance once exits/border tracking is in
// place, and the marginal cases it additionally catches were never
// common enough in generated puzzles to justify the extra union-find
// bookkeeping it would need (per-component endpoint degree, not just
// exits/border).
func singlePathExtension(b *board.Board) (*core.Move, error) {
	return nil, nil
}
