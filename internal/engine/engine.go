// Package engine drives the fixed-point propagation loop: apply the
// cheapest available deduction, and whenever one succeeds restart from
// the cheapest tier again, since an easy rule may now apply somewhere
// it couldn't before. Mirrors the teacher's SolveWithSteps loop
// (FindNextMove / ApplyMove / repeat) but moves cost accounting and the
// tier restart policy into the loop itself instead of a generation-state
// machine, since Slants rules mutate the board directly rather than
// building up a candidate set first.
package engine

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/rules"
	"slantcore/pkg/constants"
)

// Engine owns a rule registry and runs it to a fixed point against a
// board.
type Engine struct {
	registry *rules.Registry
}

// New builds an engine with the full rule registry and wires its own
// lower-tier propagation back into the tier-3 trial rules, so
// one-step-lookahead can simulate "place this, then propagate
// everything else" without importing the engine package itself.
func New() *Engine {
	e := &Engine{registry: rules.NewRegistry()}
	rules.SetLookaheadPropagator(e.propagateBelow(constants.TierLookahead))
	return e
}

// Registry exposes the underlying rule registry, e.g. so a caller can
// disable a rule by slug for technique-isolation testing.
func (e *Engine) Registry() *rules.Registry { return e.registry }

// Result is the outcome of running propagation to a fixed point.
type Result struct {
	Moves       []core.Move
	WorkScore   int
	MaxTierUsed int
}

// Propagate runs every enabled rule in ascending (tier, order) until no
// rule can make further progress or the board is fully assigned.
// Returns the accumulated trace and a non-nil error only when a rule
// reports a genuine contradiction.
func (e *Engine) Propagate(b *board.Board) (Result, error) {
	return e.PropagateUpToTier(b, constants.MaxDefinedTier)
}

// PropagateUpToTier behaves like Propagate but only runs rules whose tier
// is <= maxTier, the mechanism behind the solve operation's `max_tier`
// option and `for_generation` (which caps at constants.TierPattern so a
// generated puzzle's difficulty is judged without tier-3 lookahead).
func (e *Engine) PropagateUpToTier(b *board.Board, maxTier int) (Result, error) {
	tiers := filteredTiers(e.registry.Tiers(), maxTier)
	var res Result
	step := 0
	for iter := 0; iter < constants.MaxEngineIterations; iter++ {
		if b.IsComplete() {
			break
		}
		move, tier, err := e.tryTiers(b, tiers)
		if err != nil {
			return res, err
		}
		if move == nil {
			break // fixed point: no rule fired this pass
		}
		move.StepIndex = step
		move.Tier = tier
		res.Moves = append(res.Moves, *move)
		res.WorkScore += tier
		if tier > res.MaxTierUsed {
			res.MaxTierUsed = tier
		}
		step++
	}
	return res, nil
}

func filteredTiers(tiers []int, maxTier int) []int {
	out := make([]int, 0, len(tiers))
	for _, t := range tiers {
		if t <= maxTier {
			out = append(out, t)
		}
	}
	return out
}

// tryTiers runs each tier's rules in order and returns on the first
// move found anywhere, restarting from the cheapest tier is the caller's
// job (Propagate calls tryTiers fresh every outer iteration).
func (e *Engine) tryTiers(b *board.Board, tiers []int) (*core.Move, int, error) {
	for _, tier := range tiers {
		for _, d := range e.registry.GetByTier(tier) {
			move, err := d.Detector(b)
			if err != nil {
				return nil, 0, err
			}
			if move != nil {
				if move.Rule == "" {
					move.Rule = d.Slug
				}
				return move, tier, nil
			}
		}
	}
	return nil, 0, nil
}

// propagateBelow returns a closure that runs propagation using only
// rules strictly below maxTier, for the tier-3 trial rules to use as
// their "propagate the rest of the board" step without recursing into
// tier-3 itself.
func (e *Engine) propagateBelow(maxTier int) func(*board.Board) error {
	var belowTiers []int
	for _, t := range e.registry.Tiers() {
		if t < maxTier {
			belowTiers = append(belowTiers, t)
		}
	}
	return func(b *board.Board) error {
		for iter := 0; iter < constants.MaxEngineIterations; iter++ {
			if b.IsComplete() {
				return nil
			}
			move, _, err := e.tryTiers(b, belowTiers)
			if err != nil {
				return err
			}
			if move == nil {
				return nil
			}
		}
		return nil
	}
}
