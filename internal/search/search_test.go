package search

import (
	"testing"

	"slantcore/internal/board"
	"slantcore/internal/core"
	"slantcore/internal/geometry"
	"slantcore/pkg/constants"
)

func TestSolveResolvesByPropagationAlone(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	outcome, err := New().Solve(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != core.StatusSolved {
		t.Fatalf("expected StatusSolved, got %v", outcome.Status)
	}
	if outcome.Solution == nil {
		t.Fatal("expected a solution board")
	}
}

func TestSolveReportsMultipleForAnUncluedSingleCell(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	outcome, err := New().Solve(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != core.StatusMultiple {
		t.Fatalf("expected StatusMultiple for an unconstrained single cell, got %v", outcome.Status)
	}
}

// Two corners sharing both cells of a 2x1 grid, each demanding both
// cells touch it with incompatible orientations, is unsatisfiable. The
// propagation engine happens to complete the board before it ever
// inspects the second corner, so Solve's post-completion clue check is
// what must catch this, not a rule detector mid-propagation.
func TestSolveDetectsContradictionAfterPropagationCompletes(t *testing.T) {
	b := board.New(geometry.Dims{W: 2, H: 1})
	if err := b.SetClue(1, 0, 2); err != nil {
		t.Fatal(err)
	}
	if err := b.SetClue(1, 1, 2); err != nil {
		t.Fatal(err)
	}

	outcome, err := New().Solve(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != core.StatusUnsolved {
		t.Fatalf("expected StatusUnsolved for a contradictory clue pair, got %v", outcome.Status)
	}
}

func TestNewWithMaxTierCapsPropagationDuringBranching(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	outcome, err := NewWithMaxTier(constants.TierLocal).Solve(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != core.StatusSolved {
		t.Fatalf("expected StatusSolved, got %v", outcome.Status)
	}
	if outcome.MaxTierUsed > constants.TierLocal {
		t.Fatalf("expected max tier used to stay within the cap, got %d", outcome.MaxTierUsed)
	}
}

func TestPickBranchCellReturnsAnUnknownCell(t *testing.T) {
	b := board.New(geometry.Dims{W: 2, H: 1})
	if err := b.SetClue(1, 0, 2); err != nil {
		t.Fatal(err)
	}
	idx := pickBranchCell(b)
	x, y := b.Dims.CellXY(idx)
	// Both cells touch corner (1,0); either is a defensible pick, but the
	// function must return a valid unknown cell index.
	if b.Value(idx) != board.Unknown {
		t.Fatalf("pickBranchCell returned an already-assigned cell (%d,%d)", x, y)
	}
}
