// Package search provides the backtracking branch-and-bound driver used
// to solve puzzles the propagation engine alone can't finish, and to
// verify uniqueness. Grounded on the teacher's dp.CountSolutions: find
// an unknown cell, try each candidate, recurse, and count up to a small
// cap rather than enumerating every solution.
package search

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/engine"
	"slantcore/pkg/constants"
)

// Driver runs the propagation engine between branch points.
type Driver struct {
	eng     *engine.Engine
	maxTier int // 0 means unbounded, i.e. use every defined tier
}

// New builds a search driver around a fresh engine.
func New() *Driver {
	return &Driver{eng: engine.New()}
}

// NewWithEngine builds a search driver around a caller-supplied engine,
// e.g. one with specific rules disabled for technique isolation tests.
func NewWithEngine(eng *engine.Engine) *Driver {
	return &Driver{eng: eng}
}

// NewWithMaxTier builds a search driver that never propagates rules above
// maxTier, the mechanism behind the solve operation's `max_tier` option.
func NewWithMaxTier(maxTier int) *Driver {
	return &Driver{eng: engine.New(), maxTier: maxTier}
}

func (d *Driver) propagate(b *board.Board) (engine.Result, error) {
	if d.maxTier > 0 {
		return d.eng.PropagateUpToTier(b, d.maxTier)
	}
	return d.eng.Propagate(b)
}

// Outcome is the result of a full solve-or-determine-uniqueness pass.
type Outcome struct {
	Status      core.Status
	Moves       []core.Move
	WorkScore   int
	MaxTierUsed int
	Solution    *board.Board // set when Status is StatusSolved, or one of the solutions found when StatusMultiple
}

// Solve runs propagation to a fixed point, then falls back to
// backtracking search if cells remain unknown. It disables oracle
// checking before branching, since a wrong guess is expected to diverge
// from any configured oracle without that being a real contradiction.
func (d *Driver) Solve(b *board.Board) (Outcome, error) {
	res, err := d.propagate(b)
	if err != nil {
		return Outcome{Status: core.StatusUnsolved}, err
	}
	out := Outcome{Moves: res.Moves, WorkScore: res.WorkScore, MaxTierUsed: res.MaxTierUsed}

	if b.IsComplete() {
		if b.ClueViolated() {
			out.Status = core.StatusUnsolved
			return out, nil
		}
		out.Status = core.StatusSolved
		out.Solution = b
		return out, nil
	}

	b.DisableOracle()
	solutions := d.countSolutions(b, constants.SolutionCountLimit)
	switch len(solutions) {
	case 0:
		out.Status = core.StatusUnsolved
	case 1:
		out.Status = core.StatusSolved
		out.Solution = solutions[0]
	default:
		out.Status = core.StatusMultiple
		out.Solution = solutions[0]
	}
	return out, nil
}

// countSolutions explores branches depth-first, collecting up to
// maxCount distinct complete boards. Each branch runs propagation again
// after the trial placement, so a single guess plus deduction often
// finishes the whole board instead of guessing every remaining cell.
func (d *Driver) countSolutions(b *board.Board, maxCount int) []*board.Board {
	var found []*board.Board
	d.branch(b, maxCount, &found)
	return found
}

func (d *Driver) branch(b *board.Board, maxCount int, found *[]*board.Board) {
	if len(*found) >= maxCount {
		return
	}
	if b.IsComplete() {
		if !b.ClueViolated() {
			*found = append(*found, b.Clone())
		}
		return
	}

	idx := pickBranchCell(b)
	snap := b.Snapshot()

	for _, v := range []board.Value{board.Slash, board.Backslash} {
		if b.WouldFormLoop(idx, v) {
			continue
		}
		if err := b.Place(idx, v); err != nil {
			b.Restore(snap)
			continue
		}
		if _, err := d.propagate(b); err != nil {
			b.Restore(snap)
			continue
		}
		d.branch(b, maxCount, found)
		b.Restore(snap)
		if len(*found) >= maxCount {
			return
		}
	}
}

// pickBranchCell chooses the unknown cell with the highest sum of
// (clue+1) over its clued corners, a "most constrained first" heuristic:
// guessing there is more likely to either confirm quickly or contradict
// quickly. It does not look at how many touches each corner already has.
// Ties go to the first such cell in row-major order.
func pickBranchCell(b *board.Board) int {
	d := b.Dims
	best, bestScore := -1, -1
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx := d.CellIndex(x, y)
			if b.Value(idx) != board.Unknown {
				continue
			}
			score := cellSaturationScore(b, x, y)
			if score > bestScore {
				best, bestScore = idx, score
			}
		}
	}
	return best
}

func cellSaturationScore(b *board.Board, x, y int) int {
	d := b.Dims
	score := 0
	for _, corner := range [][2]int{{x, y}, {x + 1, y}, {x, y + 1}, {x + 1, y + 1}} {
		idx := d.CornerIndex(corner[0], corner[1])
		if clue, ok := b.Clue(idx); ok {
			score += clue + 1
		}
	}
	return score
}
