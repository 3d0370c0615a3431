package engine

import (
	"testing"

	"slantcore/internal/board"
	"slantcore/internal/geometry"
	"slantcore/pkg/constants"
)

func TestPropagateSolvesByLocalClosure(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}

	e := New()
	res, err := e.Propagate(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsComplete() {
		t.Fatal("expected the single-cell board to be fully assigned")
	}
	if len(res.Moves) != 1 {
		t.Fatalf("expected exactly one move, got %d", len(res.Moves))
	}
	if res.Moves[0].Rule != "corner-four" {
		t.Fatalf("expected corner-four to fire, got %q", res.Moves[0].Rule)
	}
	if res.MaxTierUsed != constants.TierLocal {
		t.Fatalf("expected max tier used to be TierLocal, got %d", res.MaxTierUsed)
	}
}

func TestPropagateNoOpOnAlreadyComplete(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.Place(b.Dims.CellIndex(0, 0), board.Slash); err != nil {
		t.Fatal(err)
	}

	e := New()
	res, err := e.Propagate(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Moves) != 0 {
		t.Fatalf("expected no moves against an already-complete board, got %d", len(res.Moves))
	}
}

func TestPropagateUpToTierStillSolvesWithinCap(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}

	e := New()
	res, err := e.PropagateUpToTier(b, constants.TierLocal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsComplete() {
		t.Fatal("expected corner-four (tier 1) to still solve a single-cell board when capped at TierLocal")
	}
	if res.MaxTierUsed != constants.TierLocal {
		t.Fatalf("expected max tier used to be TierLocal, got %d", res.MaxTierUsed)
	}
}

func TestPropagateUpToTierZeroRunsNoRules(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}

	e := New()
	res, err := e.PropagateUpToTier(b, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Moves) != 0 {
		t.Fatalf("expected no moves when every tier is excluded, got %d", len(res.Moves))
	}
	if b.IsComplete() {
		t.Fatal("expected the board to remain unsolved with all tiers excluded")
	}
}

func TestFilteredTiersExcludesAboveMax(t *testing.T) {
	tiers := []int{constants.TierLocal, constants.TierPattern, constants.TierLookahead}
	got := filteredTiers(tiers, constants.TierPattern)
	if len(got) != 2 || got[0] != constants.TierLocal || got[1] != constants.TierPattern {
		t.Fatalf("expected tiers capped at TierPattern, got %v", got)
	}
}

func TestRegistryAccessor(t *testing.T) {
	e := New()
	if e.Registry() == nil {
		t.Fatal("expected a non-nil registry")
	}
	if e.Registry().GetBySlug("trial-clue-violation") == nil {
		t.Fatal("expected tier-3 rules to be registered")
	}
}
