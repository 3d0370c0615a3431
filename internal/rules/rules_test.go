package rules

import (
	"testing"

	"slantcore/internal/board"
	"slantcore/internal/geometry"
	"slantcore/pkg/constants"
)

func TestRegistryTiersAscending(t *testing.T) {
	r := NewRegistry()
	tiers := r.Tiers()
	if len(tiers) == 0 {
		t.Fatal("expected at least one tier registered")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i] <= tiers[i-1] {
			t.Fatalf("tiers not strictly ascending: %v", tiers)
		}
	}
	if tiers[0] != constants.TierLocal {
		t.Fatalf("expected lowest tier to be TierLocal, got %d", tiers[0])
	}
}

func TestRegistryGetBySlugAndSetEnabled(t *testing.T) {
	r := NewRegistry()
	d := r.GetBySlug("corner-zero")
	if d == nil {
		t.Fatal("expected corner-zero to be registered")
	}
	if !d.Enabled {
		t.Fatal("expected corner-zero enabled by default")
	}
	if r.GetBySlug("not-a-real-slug") != nil {
		t.Fatal("expected unknown slug to return nil")
	}

	if !r.SetEnabled("corner-zero", false) {
		t.Fatal("expected SetEnabled to report known slug")
	}
	found := false
	for _, rule := range r.GetByTier(constants.TierLocal) {
		if rule.Slug == "corner-zero" {
			found = true
		}
	}
	if found {
		t.Fatal("disabled rule should not appear in GetByTier")
	}
	if r.SetEnabled("not-a-real-slug", true) {
		t.Fatal("expected SetEnabled to report false for unknown slug")
	}
}

func TestDetectCornerZeroForcesAvoid(t *testing.T) {
	b := board.New(geometry.Dims{W: 2, H: 2})
	if err := b.SetClue(1, 1, 0); err != nil {
		t.Fatal(err)
	}
	move, err := detectCornerZero(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move == nil {
		t.Fatal("expected a move")
	}
	idx := b.Dims.CellIndex(move.Cell.X, move.Cell.Y)
	if b.Value(idx) == board.Unknown {
		t.Fatal("expected the forced cell to be assigned")
	}
}

func TestDetectCornerFourForcesTouch(t *testing.T) {
	b := board.New(geometry.Dims{W: 1, H: 1})
	if err := b.SetClue(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	move, err := detectCornerFour(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move == nil {
		t.Fatal("expected a move")
	}
	idx := b.Dims.CellIndex(0, 0)
	if b.Value(idx) != board.Backslash {
		t.Fatalf("expected cell (0,0) to be forced to Backslash, got %v", b.Value(idx))
	}
}

func TestDetectEquivalencePropagationForcesMatchingValues(t *testing.T) {
	b := board.New(geometry.Dims{W: 2, H: 1})
	if err := b.SetClue(1, 0, 1); err != nil {
		t.Fatal(err)
	}
	move, err := detectEquivalencePropagation(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move == nil {
		t.Fatal("expected a move")
	}

	left := b.Dims.CellIndex(0, 0)
	right := b.Dims.CellIndex(1, 0)
	if !b.EquivGroupsEqual(left, right) {
		t.Fatal("expected the two cells to be linked into one equivalence class")
	}
	if err := b.Place(left, board.Slash); err != nil {
		t.Fatalf("place: %v", err)
	}
	if v := b.Value(right); v != board.Slash {
		t.Fatalf("expected right cell forced to Slash by equivalence, got %v", v)
	}
}

func TestDetectNoLoopForcesNonLoopingOrientation(t *testing.T) {
	b := board.New(geometry.Dims{W: 2, H: 2})
	d := b.Dims
	if err := b.Place(d.CellIndex(1, 0), board.Backslash); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(d.CellIndex(1, 1), board.Slash); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(d.CellIndex(0, 1), board.Backslash); err != nil {
		t.Fatal(err)
	}

	move, err := detectNoLoop(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move == nil {
		t.Fatal("expected no-loop to force the remaining cell")
	}
	idx := d.CellIndex(0, 0)
	if b.Value(idx) != board.Backslash {
		t.Fatalf("expected cell (0,0) forced away from the loop-closing Slash, got %v", b.Value(idx))
	}
}
