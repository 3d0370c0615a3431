// Package generator builds full diagonal assignments and carves them
// down to minimal clue sets, grounded on the teacher's dp.GenerateFullGrid
// / dp.CarveGivens pair: fill a complete valid grid with a backtracking
// randomized fill, then greedily remove clues while a uniqueness check
// still passes.
package generator

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/geometry"
	"slantcore/internal/search"
	"slantcore/pkg/constants"
)

// FullAssignment builds a complete, loop-free diagonal assignment for a
// WxH grid using a randomized backtracking fill, analogous to
// dp.fillGrid: try the two orientations in random order at the
// next open cell, recursing until the whole grid is assigned or every
// option at some cell dead-ends and the caller must back up.
func FullAssignment(dims geometry.Dims, seed int64) *board.Board {
	b := board.New(dims)
	r := newRNG(seed)
	if !fillCell(b, r, 0) {
		// A rectangular grid with no clues can always be completed: at
		// worst this indicates a bug in WouldFormLoop bookkeeping, not
		// an unsolvable instance, since placing either diagonal in an
		// empty cell can close a loop only if the rest of the grid
		// already connects its two corners some other way — and an
		// empty board has no existing edges at all for cell 0.
		panic("generator: full assignment failed to complete")
	}
	return b
}

func fillCell(b *board.Board, r *rng, idx int) bool {
	n := b.Dims.NumCells()
	if idx == n {
		return true
	}
	order := [2]board.Value{board.Slash, board.Backslash}
	if r.intn(2) == 1 {
		order[0], order[1] = order[1], order[0]
	}
	for _, v := range order {
		if b.WouldFormLoop(idx, v) {
			continue
		}
		snap := b.Snapshot()
		if err := b.Place(idx, v); err != nil {
			b.Restore(snap)
			continue
		}
		if fillCell(b, r, idx+1) {
			return true
		}
		b.Restore(snap)
	}
	return false
}

// ComputeClues sets every corner's clue to the number of diagonals
// touching it in the completed assignment, producing the "fully clued"
// starting point that ReduceClues then carves down.
func ComputeClues(b *board.Board) {
	d := b.Dims
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			touching := 0
			for _, adj := range d.AdjacentsOfCorner(cx, cy) {
				v := b.Value(d.CellIndex(adj.CellX, adj.CellY))
				if v == board.FromOrientation(adj.Touches) {
					touching++
				}
			}
			_ = b.SetClue(cx, cy, touching)
		}
	}
}

// Puzzle bundles a generated puzzle's clues with its unique solution.
type Puzzle struct {
	Dims     geometry.Dims
	Clued    *board.Board // clue-only board, cells unassigned
	Solution *board.Board // the full assignment the clues were derived from
	Result   search.Outcome
}

// ReduceClues removes as many clues as possible from a fully-clued
// board while a uniqueness check (propagation + bounded backtracking
// search) still confirms exactly one solution, running `passes` full
// sweeps in shuffled order since a clue that looked necessary in an
// earlier pass can become removable once other clues nearby are gone
// — matching the teacher's CarveGivens, generalized from a single pass
// to a multi-pass greedy reduction per REDESIGN considerations.
func ReduceClues(dims geometry.Dims, solution *board.Board, seed int64, passes int) *Puzzle {
	return ReduceCluesWithOptions(dims, solution, seed, passes, false)
}

// ReduceCluesWithOptions behaves like ReduceClues, additionally
// supporting the generate operation's `symmetry` option: when symmetric
// is true, a clue is only ever removed together with its point-symmetric
// mirror (cx,cy) -> (W-cx, H-cy), and both are restored together if
// removing the pair would break uniqueness, so the resulting clue
// pattern keeps the 180-degree rotational symmetry traditional Slants
// puzzles are set with.
func ReduceCluesWithOptions(dims geometry.Dims, solution *board.Board, seed int64, passes int, symmetric bool) *Puzzle {
	clued := board.New(dims)
	for cy := 0; cy <= dims.H; cy++ {
		for cx := 0; cx <= dims.W; cx++ {
			idx := dims.CornerIndex(cx, cy)
			clue, _ := solution.Clue(idx)
			_ = clued.SetClue(cx, cy, clue)
		}
	}

	r := newRNG(seed + 1)
	numCorners := dims.NumCorners()
	solutionValues := make([]board.Value, dims.NumCells())
	for i := range solutionValues {
		solutionValues[i] = solution.Value(i)
	}

	mirrorOf := func(cidx int) int {
		cx, cy := dims.CornerXY(cidx)
		return dims.CornerIndex(dims.W-cx, dims.H-cy)
	}

	for pass := 0; pass < passes; pass++ {
		order := make([]int, numCorners)
		for i := range order {
			order[i] = i
		}
		r.shuffleInts(order)

		visited := make([]bool, numCorners)
		for _, cidx := range order {
			if visited[cidx] {
				continue
			}
			visited[cidx] = true

			if !symmetric {
				tryRemoveOne(clued, dims, cidx, solutionValues)
				continue
			}

			mirror := mirrorOf(cidx)
			visited[mirror] = true
			if mirror == cidx {
				tryRemoveOne(clued, dims, cidx, solutionValues)
				continue
			}
			tryRemovePair(clued, dims, cidx, mirror, solutionValues)
		}
	}

	trial := cloneCluesOnly(clued)
	trial.EnableOracle(append([]board.Value(nil), solutionValues...))
	outcome, err := search.NewWithMaxTier(constants.TierPattern).Solve(trial)
	if err != nil {
		outcome.Status = core.StatusUnsolved
	}

	return &Puzzle{Dims: dims, Clued: clued, Solution: solution, Result: outcome}
}

func tryRemoveOne(clued *board.Board, dims geometry.Dims, cidx int, solutionValues []board.Value) {
	cx, cy := dims.CornerXY(cidx)
	clue, has := clued.Clue(cidx)
	if !has {
		return
	}
	if err := clued.SetClue(cx, cy, -1); err != nil {
		return
	}
	if !hasUniqueSolution(clued, solutionValues) {
		_ = clued.SetClue(cx, cy, clue)
	}
}

// tryRemovePair removes both a and b's clues together, restoring both if
// the pair's joint removal would break uniqueness. Removing only one side
// of a symmetric pair would leave the clue pattern asymmetric, so the two
// corners are treated as a single unit.
func tryRemovePair(clued *board.Board, dims geometry.Dims, a, b int, solutionValues []board.Value) {
	ax, ay := dims.CornerXY(a)
	bx, by := dims.CornerXY(b)
	aClue, aHas := clued.Clue(a)
	bClue, bHas := clued.Clue(b)
	if !aHas && !bHas {
		return
	}
	if aHas {
		if err := clued.SetClue(ax, ay, -1); err != nil {
			return
		}
	}
	if bHas {
		if err := clued.SetClue(bx, by, -1); err != nil {
			if aHas {
				_ = clued.SetClue(ax, ay, aClue)
			}
			return
		}
	}
	if !hasUniqueSolution(clued, solutionValues) {
		if aHas {
			_ = clued.SetClue(ax, ay, aClue)
		}
		if bHas {
			_ = clued.SetClue(bx, by, bClue)
		}
	}
}

// hasUniqueSolution re-solves clued from scratch, capped at tier 2 and
// with the known answer supplied as an oracle, matching the
// for_generation solving mode the generated puzzle must ultimately
// satisfy: a clue may only be dropped if the puzzle still solves
// without resorting to tier-3 trial-and-error.
func hasUniqueSolution(clued *board.Board, solutionValues []board.Value) bool {
	trial := cloneCluesOnly(clued)
	trial.EnableOracle(append([]board.Value(nil), solutionValues...))
	outcome, err := search.NewWithMaxTier(constants.TierPattern).Solve(trial)
	if err != nil {
		return false
	}
	return outcome.Status == core.StatusSolved
}

// cloneCluesOnly builds a fresh unassigned board carrying only clued's
// clues, since Solve mutates the board it's given.
func cloneCluesOnly(clued *board.Board) *board.Board {
	out := board.New(clued.Dims)
	d := clued.Dims
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			idx := d.CornerIndex(cx, cy)
			if clue, ok := clued.Clue(idx); ok {
				_ = out.SetClue(cx, cy, clue)
			}
		}
	}
	return out
}

// Generate produces a full puzzle: a random full assignment, its
// derived clue set, and a greedy clue reduction, in one call.
func Generate(dims geometry.Dims, seed int64) *Puzzle {
	return GenerateWithOptions(dims, seed, constants.DefaultReductionPasses, false)
}

// GenerateWithOptions behaves like Generate, additionally supporting the
// generate operation's `reduction_passes` and `symmetry` options.
func GenerateWithOptions(dims geometry.Dims, seed int64, passes int, symmetric bool) *Puzzle {
	full := FullAssignment(dims, seed)
	ComputeClues(full)
	return ReduceCluesWithOptions(dims, full, seed, passes, symmetric)
}
