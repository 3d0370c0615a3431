package rules

import (
	"fmt"

	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/geometry"
	"slantcore/pkg/constants"
)

func registerTier2(r *Registry) {
	r.register(Descriptor{
		Name:     "Equivalence Propagation",
		Slug:     "equivalence-propagation",
		Tier:     constants.TierPattern,
		Detector: detectEquivalencePropagation,
		Enabled:  true,
		Order:    1,
	})
	r.register(Descriptor{
		Name:     "V-Bitmap Propagation",
		Slug:     "v-bitmap-propagation",
		Tier:     constants.TierPattern,
		Detector: detectVBitmapPropagation,
		Enabled:  true,
		Order:    2,
	})
	r.register(Descriptor{
		Name:     "Dead-End Avoidance",
		Slug:     "dead-end-avoidance",
		Tier:     constants.TierPattern,
		Detector: detectDeadEndAvoidance,
		Enabled:  true,
		Order:    3,
	})
	r.register(Descriptor{
		Name:     "Adjacent Ones",
		Slug:     "adjacent-ones",
		Tier:     constants.TierPattern,
		Detector: detectAdjacentOnes,
		Enabled:  true,
		Order:    4,
	})
	r.register(Descriptor{
		Name:     "Adjacent Threes",
		Slug:     "adjacent-threes",
		Tier:     constants.TierPattern,
		Detector: detectAdjacentThrees,
		Enabled:  true,
		Order:    5,
	})
	r.register(Descriptor{
		Name:     "Diagonal Ones",
		Slug:     "diagonal-ones",
		Tier:     constants.TierPattern,
		Detector: detectDiagonalOnes,
		Enabled:  true,
		Order:    6,
	})
	r.register(Descriptor{
		Name:     "Border Two-V",
		Slug:     "border-two-v",
		Tier:     constants.TierPattern,
		Detector: detectBorderTwoV,
		Enabled:  true,
		Order:    7,
	})
	r.register(Descriptor{
		Name:     "V-Pattern and Three",
		Slug:     "v-pattern-and-three",
		Tier:     constants.TierPattern,
		Detector: detectVPatternAndThree,
		Enabled:  true,
		Order:    8,
	})
	r.register(Descriptor{
		Name:     "Loop Avoidance (validity check)",
		Slug:     "loop-avoidance-2",
		Tier:     constants.TierPattern,
		Detector: detectLoopAvoidance2,
		Enabled:  true,
		Order:    9,
	})
}

// detectEquivalencePropagation fires when a corner needs exactly one
// more touch and has exactly two unknown adjacent cells left: exactly
// one of the pair must touch, which pins their values relative to each
// other even though neither is individually forced yet. Only pairs that
// must carry the same value (edge-adjacent cells, whose touching
// orientations differ) are linked; a diagonal pair, which must carry
// opposite values, is left unlinked.
func detectEquivalencePropagation(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		clue, _ := b.Clue(idx)
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) != 2 || clue-inc.touching != 1 {
			return nil, nil
		}
		a, c := inc.unknown[0], inc.unknown[1]
		ai, ci := b.Dims.CellIndex(a.CellX, a.CellY), b.Dims.CellIndex(c.CellX, c.CellY)
		if b.EquivGroupsEqual(ai, ci) {
			return nil, nil // already linked, nothing new to report
		}
		same := a.Touches != c.Touches
		if !same {
			return nil, nil
		}
		if err := b.MarkEquivalent(ai, ci, same); err != nil {
			return nil, err
		}
		relation := "opposite"
		if same {
			relation = "matching"
		}
		return &core.Move{
			Rule: "equivalence-propagation",
			Cell: core.CellRef{X: a.CellX, Y: a.CellY},
			Explanation: fmt.Sprintf(
				"corner (%d,%d) needs exactly one of cells (%d,%d) and (%d,%d) to touch it, forcing %s orientations",
				cx, cy, a.CellX, a.CellY, c.CellX, c.CellY, relation),
		}, nil
	})
}

// detectVBitmapPropagation maintains the persistent per-cell V-bitmap,
// grounded on the original solver's rule_vbitmap_propagation: every
// known cell value clears the infeasible bit in its left and top
// neighbors (the neighbors that reference this cell's value), every
// 1/2/3 clue at an interior vertex prunes the V-shapes it forbids or
// mismatches across its three neighboring cells, and whenever both bits
// of a horizontal or vertical pairing are gone the two cells involved
// are forced into the same equivalence class. Runs to a local fixed
// point before returning, since a single clue-driven clear can unlock
// another clue's clear on the same pass.
func detectVBitmapPropagation(b *board.Board) (*core.Move, error) {
	maxIters := 4*b.Dims.NumCells() + 4
	for iter := 0; iter < maxIters; iter++ {
		changed := propagateVBitmapFromAssignments(b)
		if propagateVBitmapFromClues(b) {
			changed = true
		}

		move, err := mergeVBitmapEquivalences(b)
		if err != nil || move != nil {
			return move, err
		}
		if !changed {
			break
		}
	}
	return nil, nil
}

// propagateVBitmapFromAssignments clears, for every already-assigned
// cell, the bit in its left and top neighbor that required the value
// this cell did NOT take.
func propagateVBitmapFromAssignments(b *board.Board) bool {
	d := b.Dims
	changed := false
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx := d.CellIndex(x, y)
			v := b.Value(idx)
			if v == board.Unknown {
				continue
			}
			if v == board.Slash {
				if x > 0 && b.VBitmapClear(d.CellIndex(x-1, y), board.VBitRightSlashBackslash) {
					changed = true
				}
				if y > 0 && b.VBitmapClear(d.CellIndex(x, y-1), board.VBitBottomSlashBackslash) {
					changed = true
				}
			} else {
				if x > 0 && b.VBitmapClear(d.CellIndex(x-1, y), board.VBitRightBackslashSlash) {
					changed = true
				}
				if y > 0 && b.VBitmapClear(d.CellIndex(x, y-1), board.VBitBottomBackslashSlash) {
					changed = true
				}
			}
		}
	}
	return changed
}

// propagateVBitmapFromClues applies the 1/3/2-clue V-shape constraints
// at every interior vertex (border vertices have fewer than the three
// surrounding cells this deduction needs).
func propagateVBitmapFromClues(b *board.Board) bool {
	d := b.Dims
	changed := false
	for vy := 1; vy < d.H; vy++ {
		for vx := 1; vx < d.W; vx++ {
			clue, ok := b.Clue(d.CornerIndex(vx, vy))
			if !ok {
				continue
			}
			tl := d.CellIndex(vx-1, vy-1)
			bl := d.CellIndex(vx-1, vy)
			tr := d.CellIndex(vx, vy-1)

			switch clue {
			case 1:
				// No V-shape may point at this vertex.
				if b.VBitmapClear(tl, board.VBitRightBackslashSlash|board.VBitBottomBackslashSlash) {
					changed = true
				}
				if b.VBitmapClear(bl, board.VBitRightSlashBackslash) {
					changed = true
				}
				if b.VBitmapClear(tr, board.VBitBottomSlashBackslash) {
					changed = true
				}
			case 3:
				// No V-shape may point away from this vertex.
				if b.VBitmapClear(tl, board.VBitRightSlashBackslash|board.VBitBottomSlashBackslash) {
					changed = true
				}
				if b.VBitmapClear(bl, board.VBitRightBackslashSlash) {
					changed = true
				}
				if b.VBitmapClear(tr, board.VBitBottomBackslashSlash) {
					changed = true
				}
			case 2:
				top := b.VBitmap(tl) & board.VBitRightMask
				bot := b.VBitmap(bl) & board.VBitRightMask
				if b.VBitmapClear(tl, board.VBitRightMask&^bot) {
					changed = true
				}
				if b.VBitmapClear(bl, board.VBitRightMask&^top) {
					changed = true
				}

				left := b.VBitmap(tl) & board.VBitBottomMask
				right := b.VBitmap(tr) & board.VBitBottomMask
				if b.VBitmapClear(tl, board.VBitBottomMask&^right) {
					changed = true
				}
				if b.VBitmapClear(tr, board.VBitBottomMask&^left) {
					changed = true
				}
			}
		}
	}
	return changed
}

// mergeVBitmapEquivalences forces two adjacent cells into the same
// equivalence class once both bits describing an opposite-value V-shape
// between them have been cleared: the only remaining possibility is
// that they carry the same value.
func mergeVBitmapEquivalences(b *board.Board) (*core.Move, error) {
	d := b.Dims
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx := d.CellIndex(x, y)
			bits := b.VBitmap(idx)

			if x+1 < d.W && bits&board.VBitRightMask == 0 {
				rightIdx := d.CellIndex(x+1, y)
				if !b.EquivGroupsEqual(idx, rightIdx) {
					if err := b.MarkEquivalent(idx, rightIdx, true); err != nil {
						return nil, err
					}
					return &core.Move{
						Rule:        "v-bitmap-propagation",
						Cell:        core.CellRef{X: x, Y: y},
						Explanation: fmt.Sprintf("no V-shape survives between cell (%d,%d) and its right neighbor, so they must match", x, y),
					}, nil
				}
			}
			if y+1 < d.H && bits&board.VBitBottomMask == 0 {
				belowIdx := d.CellIndex(x, y+1)
				if !b.EquivGroupsEqual(idx, belowIdx) {
					if err := b.MarkEquivalent(idx, belowIdx, true); err != nil {
						return nil, err
					}
					return &core.Move{
						Rule:        "v-bitmap-propagation",
						Cell:        core.CellRef{X: x, Y: y},
						Explanation: fmt.Sprintf("no V-shape survives between cell (%d,%d) and the cell below it, so they must match", x, y),
					}, nil
				}
			}
		}
	}
	return nil, nil
}

// detectDeadEndAvoidance clears a candidate value whenever placing it
// would strand a connectivity component away from the grid border with
// no remaining exits, and forces the other value once only one survives.
func detectDeadEndAvoidance(b *board.Board) (*core.Move, error) {
	return forEachCell(b, func(x, y, idx int) (*core.Move, error) {
		slashDead := b.WouldDeadEnd(idx, board.Slash)
		backslashDead := b.WouldDeadEnd(idx, board.Backslash)
		if slashDead && backslashDead {
			return nil, board.ErrWouldFormLoop
		}
		if slashDead == backslashDead {
			return nil, nil
		}
		v := board.Slash
		if slashDead {
			v = board.Backslash
		}
		if err := b.Place(idx, v); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        "dead-end-avoidance",
			Cell:        core.CellRef{X: x, Y: y},
			Value:       v.String(),
			Explanation: "the other orientation would strand a component with no way to reach the border",
		}, nil
	})
}

// cornerPair describes two clued corners close enough for their
// adjacent-cell sets to overlap or interact.
type cornerPair struct {
	ax, ay, bx, by int
}

// nearbyCluedPairs returns every pair of clued corners at the given
// lattice offset (dx,dy) from each other.
func nearbyCluedPairs(b *board.Board, dx, dy int) []cornerPair {
	d := b.Dims
	var out []cornerPair
	for ay := 0; ay <= d.H; ay++ {
		for ax := 0; ax <= d.W; ax++ {
			bx, by := ax+dx, ay+dy
			if !d.ValidCorner(bx, by) {
				continue
			}
			if _, ok := b.Clue(d.CornerIndex(ax, ay)); !ok {
				continue
			}
			if _, ok := b.Clue(d.CornerIndex(bx, by)); !ok {
				continue
			}
			out = append(out, cornerPair{ax, ay, bx, by})
		}
	}
	return out
}

// detectTwoCornerPattern is the generic mechanism behind the classic
// named two-clue patterns (adjacent ones/threes, diagonal ones, the
// border V, the V-and-three corner): with at most two corners' worth of
// neighbors in play, brute-forcing every locally consistent assignment
// is cheap and exact, where hand-coding the geometric shortcut for each
// named pattern separately would only multiply the chance of a mistake.
func detectTwoCornerPattern(b *board.Board, dx, dy int, clueA, clueB int, slug string) (*core.Move, error) {
	for _, p := range nearbyCluedPairs(b, dx, dy) {
		idxA := b.Dims.CornerIndex(p.ax, p.ay)
		idxB := b.Dims.CornerIndex(p.bx, p.by)
		ca, _ := b.Clue(idxA)
		cb, _ := b.Clue(idxB)
		if (ca != clueA || cb != clueB) && (ca != clueB || cb != clueA) {
			continue
		}
		move, err := forceFromLocalConsistency(b, p.ax, p.ay, p.bx, p.by, slug)
		if err != nil {
			return nil, err
		}
		if move != nil {
			return move, nil
		}
	}
	return nil, nil
}

// forceFromLocalConsistency is the brute-force engine described above.
func forceFromLocalConsistency(b *board.Board, ax, ay, bx, by int, slug string) (*core.Move, error) {
	clueA, _ := b.Clue(b.Dims.CornerIndex(ax, ay))
	clueB, _ := b.Clue(b.Dims.CornerIndex(bx, by))
	incA := incidenceAt(b, ax, ay)
	incB := incidenceAt(b, bx, by)

	type cellRef struct {
		x, y int
		idx  int
	}
	seen := make(map[int]bool)
	var cells []cellRef
	touchesA := make(map[int]geometry.Orientation)
	touchesB := make(map[int]geometry.Orientation)
	for _, a := range incA.unknown {
		idx := b.Dims.CellIndex(a.CellX, a.CellY)
		if !seen[idx] {
			seen[idx] = true
			cells = append(cells, cellRef{a.CellX, a.CellY, idx})
		}
		touchesA[idx] = a.Touches
	}
	for _, a := range incB.unknown {
		idx := b.Dims.CellIndex(a.CellX, a.CellY)
		if !seen[idx] {
			seen[idx] = true
			cells = append(cells, cellRef{a.CellX, a.CellY, idx})
		}
		touchesB[idx] = a.Touches
	}
	if len(cells) == 0 || len(cells) > 8 {
		return nil, nil
	}

	needA := clueA - incA.touching
	needB := clueB - incB.touching

	var consistent [][]board.Value
	n := len(cells)
	for mask := 0; mask < (1 << n); mask++ {
		assign := make([]board.Value, n)
		countA, countB := 0, 0
		for i, c := range cells {
			v := board.Slash
			if mask&(1<<i) != 0 {
				v = board.Backslash
			}
			assign[i] = v
			if o, ok := touchesA[c.idx]; ok && v == board.FromOrientation(o) {
				countA++
			}
			if o, ok := touchesB[c.idx]; ok && v == board.FromOrientation(o) {
				countB++
			}
		}
		if countA == needA && countB == needB {
			consistent = append(consistent, assign)
		}
	}
	if len(consistent) == 0 {
		return nil, board.ErrWouldFormLoop
	}
	for i, c := range cells {
		first := consistent[0][i]
		forced := true
		for _, other := range consistent[1:] {
			if other[i] != first {
				forced = false
				break
			}
		}
		if !forced || b.Value(c.idx) != board.Unknown {
			continue
		}
		if err := b.Place(c.idx, first); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        slug,
			Cell:        core.CellRef{X: c.x, Y: c.y},
			Value:       first.String(),
			Explanation: fmt.Sprintf("every clue-consistent local assignment near (%d,%d) agrees on cell (%d,%d)", ax, ay, c.x, c.y),
		}, nil
	}
	return nil, nil
}

func detectAdjacentOnes(b *board.Board) (*core.Move, error) {
	if m, err := detectTwoCornerPattern(b, 1, 0, 1, 1, "adjacent-ones"); m != nil || err != nil {
		return m, err
	}
	return detectTwoCornerPattern(b, 0, 1, 1, 1, "adjacent-ones")
}

func detectAdjacentThrees(b *board.Board) (*core.Move, error) {
	if m, err := detectTwoCornerPattern(b, 1, 0, 3, 3, "adjacent-threes"); m != nil || err != nil {
		return m, err
	}
	return detectTwoCornerPattern(b, 0, 1, 3, 3, "adjacent-threes")
}

func detectDiagonalOnes(b *board.Board) (*core.Move, error) {
	if m, err := detectTwoCornerPattern(b, 1, 1, 1, 1, "diagonal-ones"); m != nil || err != nil {
		return m, err
	}
	return detectTwoCornerPattern(b, 1, -1, 1, 1, "diagonal-ones")
}

// detectBorderTwoV looks at a clue-2 corner on the border paired with
// an orthogonally adjacent interior corner, the classic setup for a
// forced "V" shape along the edge.
func detectBorderTwoV(b *board.Board) (*core.Move, error) {
	d := b.Dims
	for ay := 0; ay <= d.H; ay++ {
		for ax := 0; ax <= d.W; ax++ {
			if !d.IsBorderCorner(ax, ay) {
				continue
			}
			idx := d.CornerIndex(ax, ay)
			clue, ok := b.Clue(idx)
			if !ok || clue != 2 {
				continue
			}
			for _, off := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				bx, by := ax+off[0], ay+off[1]
				if !d.ValidCorner(bx, by) || d.IsBorderCorner(bx, by) {
					continue
				}
				if _, ok := b.Clue(d.CornerIndex(bx, by)); !ok {
					continue
				}
				move, err := forceFromLocalConsistency(b, ax, ay, bx, by, "border-two-v")
				if err != nil {
					return nil, err
				}
				if move != nil {
					return move, nil
				}
			}
		}
	}
	return nil, nil
}

func detectVPatternAndThree(b *board.Board) (*core.Move, error) {
	if m, err := detectTwoCornerPattern(b, 1, 0, 2, 3, "v-pattern-and-three"); m != nil || err != nil {
		return m, err
	}
	return detectTwoCornerPattern(b, 0, 1, 2, 3, "v-pattern-and-three")
}

// detectLoopAvoidance2 is registered for completeness but never fires a
// move: loop avoidance is enforced unconditionally inside board.Place,
// so by the time propagation reaches this rule no placed diagonal can
// ever have closed a cycle. It exists only as a named slot in the
// registry and performs no check of its own.
func detectLoopAvoidance2(b *board.Board) (*core.Move, error) {
	return nil, nil
}
