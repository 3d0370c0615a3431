package rules

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/pkg/constants"
)

func registerTier1(r *Registry) {
	r.register(Descriptor{
		Name:     "Corner Zero",
		Slug:     "corner-zero",
		Tier:     constants.TierLocal,
		Detector: detectCornerZero,
		Enabled:  true,
		Order:    1,
	})
	r.register(Descriptor{
		Name:     "Corner Four",
		Slug:     "corner-four",
		Tier:     constants.TierLocal,
		Detector: detectCornerFour,
		Enabled:  true,
		Order:    2,
	})
	r.register(Descriptor{
		Name:     "Edge Saturation",
		Slug:     "edge-saturation",
		Tier:     constants.TierLocal,
		Detector: detectEdgeSaturation,
		Enabled:  true,
		Order:    3,
	})
	r.register(Descriptor{
		Name:     "Clue Saturate: Meets",
		Slug:     "clue-saturate-meets",
		Tier:     constants.TierLocal,
		Detector: detectClueSaturateMeets,
		Enabled:  true,
		Order:    4,
	})
	r.register(Descriptor{
		Name:     "Clue Saturate: Avoiders",
		Slug:     "clue-saturate-avoiders",
		Tier:     constants.TierLocal,
		Detector: detectClueSaturateAvoiders,
		Enabled:  true,
		Order:    5,
	})
	r.register(Descriptor{
		Name:     "No Loop",
		Slug:     "no-loop",
		Tier:     constants.TierLocal,
		Detector: detectNoLoop,
		Enabled:  true,
		Order:    6,
	})
}

// detectCornerZero handles clue==0: every incident diagonal must avoid
// this corner. Registered separately from the general saturation rule
// since it fires the moment a zero-clue corner is seen, with no need to
// count touching diagonals first.
func detectCornerZero(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		clue, _ := b.Clue(idx)
		if clue != 0 {
			return nil, nil
		}
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) == 0 {
			return nil, nil
		}
		return applyCornerForce(b, cx, cy, inc.unknown, false, "corner-zero",
			"corner (%d,%d) is clued 0, so cell (%d,%d) must point away from it")
	})
}

// detectCornerFour handles clue==maxIncidence: every incident diagonal
// must touch this corner.
func detectCornerFour(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		clue, _ := b.Clue(idx)
		if clue != b.Dims.MaxIncidence(cx, cy) {
			return nil, nil
		}
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) == 0 {
			return nil, nil
		}
		return applyCornerForce(b, cx, cy, inc.unknown, true, "corner-four",
			"corner (%d,%d) clue requires every incident diagonal, so cell (%d,%d) must point at it")
	})
}

// detectEdgeSaturation is corner-zero/corner-four specialized to border
// corners, where max incidence is 1 or 2 rather than 4 — border corners
// saturate with far fewer placed diagonals, so checking them first turns
// up forced cells earlier than scanning interior corners.
func detectEdgeSaturation(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		if !b.Dims.IsBorderCorner(cx, cy) {
			return nil, nil
		}
		clue, _ := b.Clue(idx)
		max := b.Dims.MaxIncidence(cx, cy)
		if clue != 0 && clue != max {
			return nil, nil
		}
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) == 0 {
			return nil, nil
		}
		if clue == 0 {
			return applyCornerForce(b, cx, cy, inc.unknown, false, "edge-saturation",
				"border corner (%d,%d) is clued 0, so cell (%d,%d) must point away from it")
		}
		return applyCornerForce(b, cx, cy, inc.unknown, true, "edge-saturation",
			"border corner (%d,%d) requires every incident diagonal, so cell (%d,%d) must point at it")
	})
}

// detectClueSaturateMeets fires when the clue's quota of touching
// diagonals is already met: every remaining unknown adjacent cell must
// avoid this corner.
func detectClueSaturateMeets(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		clue, _ := b.Clue(idx)
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) == 0 || inc.touching != clue {
			return nil, nil
		}
		return applyCornerForce(b, cx, cy, inc.unknown, false, "clue-saturate-meets",
			"corner (%d,%d) already has its clued count of touches, so cell (%d,%d) must point away from it")
	})
}

// detectClueSaturateAvoiders fires when every remaining unknown adjacent
// cell MUST touch this corner to reach its clue: touching plus the
// number still unknown equals the clue exactly.
func detectClueSaturateAvoiders(b *board.Board) (*core.Move, error) {
	return forEachCorner(b, func(cx, cy, idx int) (*core.Move, error) {
		clue, _ := b.Clue(idx)
		inc := incidenceAt(b, cx, cy)
		if len(inc.unknown) == 0 || inc.touching+len(inc.unknown) != clue {
			return nil, nil
		}
		return applyCornerForce(b, cx, cy, inc.unknown, true, "clue-saturate-avoiders",
			"corner (%d,%d) needs every remaining diagonal to reach its clue, so cell (%d,%d) must point at it")
	})
}

// detectNoLoop forces the only non-loop-forming orientation whenever one
// of a cell's two possible diagonals would close a cycle in the corner
// connectivity graph.
func detectNoLoop(b *board.Board) (*core.Move, error) {
	return forEachCell(b, func(x, y, idx int) (*core.Move, error) {
		slashLoops := b.WouldFormLoop(idx, board.Slash)
		backslashLoops := b.WouldFormLoop(idx, board.Backslash)
		if slashLoops && backslashLoops {
			return nil, board.ErrWouldFormLoop
		}
		if slashLoops == backslashLoops {
			return nil, nil
		}
		v := board.Backslash
		if backslashLoops {
			v = board.Slash
		}
		if err := b.Place(idx, v); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        "no-loop",
			Cell:        core.CellRef{X: x, Y: y},
			Value:       v.String(),
			Explanation: "the opposite diagonal would close a loop",
		}, nil
	})
}
