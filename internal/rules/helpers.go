package rules

import (
	"fmt"

	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/geometry"
)

// cornerIncidence summarizes a corner's current state: how many of its
// incident diagonals are already placed touching it, and which adjacent
// cells remain unassigned (each tagged with the orientation that would
// make it touch this corner).
type cornerIncidence struct {
	touching  int
	unknown   []geometry.AdjacentCell
}

func incidenceAt(b *board.Board, cx, cy int) cornerIncidence {
	var inc cornerIncidence
	for _, adj := range b.Dims.AdjacentsOfCorner(cx, cy) {
		idx := b.Dims.CellIndex(adj.CellX, adj.CellY)
		v := b.Value(idx)
		switch {
		case v == board.Unknown:
			inc.unknown = append(inc.unknown, adj)
		case v == board.FromOrientation(adj.Touches):
			inc.touching++
		}
	}
	return inc
}

// applyCornerForce places the first still-unknown adjacent cell so that
// it touches corner (cx,cy) if wantTouch is true, or avoids touching it
// otherwise, and returns the resulting move. Only one cell is forced per
// call so that each detector invocation reports exactly one move.
func applyCornerForce(b *board.Board, cx, cy int, unknown []geometry.AdjacentCell, wantTouch bool, slug string, explain string) (*core.Move, error) {
	for _, adj := range unknown {
		idx := b.Dims.CellIndex(adj.CellX, adj.CellY)
		if b.Value(idx) != board.Unknown {
			continue
		}
		v := board.FromOrientation(adj.Touches)
		if !wantTouch {
			v = v.Opposite()
		}
		if err := b.Place(idx, v); err != nil {
			return nil, err
		}
		return &core.Move{
			Rule:        slug,
			Cell:        core.CellRef{X: adj.CellX, Y: adj.CellY},
			Value:       v.String(),
			Explanation: fmt.Sprintf(explain, cx, cy, adj.CellX, adj.CellY),
		}, nil
	}
	return nil, nil
}

func forEachCorner(b *board.Board, fn func(cx, cy, idx int) (*core.Move, error)) (*core.Move, error) {
	d := b.Dims
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			idx := d.CornerIndex(cx, cy)
			if _, has := b.Clue(idx); !has {
				continue
			}
			move, err := fn(cx, cy, idx)
			if err != nil {
				return nil, err
			}
			if move != nil {
				return move, nil
			}
		}
	}
	return nil, nil
}

func forEachCell(b *board.Board, fn func(x, y, idx int) (*core.Move, error)) (*core.Move, error) {
	d := b.Dims
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx := d.CellIndex(x, y)
			if b.Value(idx) != board.Unknown {
				continue
			}
			move, err := fn(x, y, idx)
			if err != nil {
				return nil, err
			}
			if move != nil {
				return move, nil
			}
		}
	}
	return nil, nil
}
