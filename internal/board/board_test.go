package board

import (
	"testing"

	"slantcore/internal/geometry"
)

func dims2x2() geometry.Dims { return geometry.Dims{W: 2, H: 2} }

func TestPlaceBasicAndIdempotent(t *testing.T) {
	b := New(dims2x2())
	idx := b.Dims.CellIndex(0, 0)

	if err := b.Place(idx, Slash); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := b.Value(idx); v != Slash {
		t.Fatalf("expected Slash, got %v", v)
	}
	// Re-placing the same value is a no-op.
	if err := b.Place(idx, Slash); err != nil {
		t.Fatalf("idempotent re-place should not error: %v", err)
	}
	// Placing a different value on an assigned cell is an error.
	if err := b.Place(idx, Backslash); err != ErrAlreadyAssigned {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestWouldFormLoopAndPlaceRejectsLoop(t *testing.T) {
	b := New(dims2x2())
	d := b.Dims

	// Build the path A(1,0)-B(2,1)-C(1,2)-D(0,1) via three cells, then
	// verify the fourth cell (0,0) closing D-A is detected as a loop.
	if err := b.Place(d.CellIndex(1, 0), Backslash); err != nil {
		t.Fatalf("place 1: %v", err)
	}
	if err := b.Place(d.CellIndex(1, 1), Slash); err != nil {
		t.Fatalf("place 2: %v", err)
	}
	if err := b.Place(d.CellIndex(0, 1), Backslash); err != nil {
		t.Fatalf("place 3: %v", err)
	}

	closingIdx := d.CellIndex(0, 0)
	if !b.WouldFormLoop(closingIdx, Slash) {
		t.Fatal("expected closing diagonal to be detected as a loop")
	}
	if err := b.Place(closingIdx, Slash); err != ErrWouldFormLoop {
		t.Fatalf("expected ErrWouldFormLoop, got %v", err)
	}
	// The board must still report 1 unknown cell: Place must not have
	// partially mutated state on rejection.
	if got := b.NumUnknown(); got != 1 {
		t.Fatalf("expected 1 unknown cell remaining, got %d", got)
	}
}

func TestMarkEquivalentSameAndOpposite(t *testing.T) {
	b := New(dims2x2())
	d := b.Dims
	i := d.CellIndex(0, 0)
	j := d.CellIndex(1, 1)

	if err := b.MarkEquivalent(i, j, true); err != nil {
		t.Fatalf("mark same: %v", err)
	}
	if err := b.Place(i, Slash); err != nil {
		t.Fatalf("place i: %v", err)
	}
	if v := b.Value(j); v != Slash {
		t.Fatalf("expected j to be forced to Slash by same-equivalence, got %v", v)
	}

	k := d.CellIndex(0, 1)
	if err := b.MarkEquivalent(k, i, false); err != nil {
		t.Fatalf("mark opposite: %v", err)
	}
	if v := b.Value(k); v != Backslash {
		t.Fatalf("expected k to be forced to Backslash by opposite-equivalence, got %v", v)
	}
}

func TestMarkEquivalentRejectsConflict(t *testing.T) {
	b := New(dims2x2())
	d := b.Dims
	i := d.CellIndex(0, 0)
	j := d.CellIndex(1, 0)

	if err := b.Place(i, Slash); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(j, Slash); err != nil {
		t.Fatal(err)
	}
	if err := b.MarkEquivalent(i, j, false); err != ErrIncompatibleEquivalence {
		t.Fatalf("expected ErrIncompatibleEquivalence, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	b := New(dims2x2())
	d := b.Dims
	idx := d.CellIndex(0, 0)

	snap := b.Snapshot()
	if err := b.Place(idx, Slash); err != nil {
		t.Fatal(err)
	}
	if b.NumUnknown() != 3 {
		t.Fatalf("expected 3 unknown after placement, got %d", b.NumUnknown())
	}
	b.Restore(snap)
	if b.NumUnknown() != 4 {
		t.Fatalf("expected 4 unknown after restore, got %d", b.NumUnknown())
	}
	if v := b.Value(idx); v != Unknown {
		t.Fatalf("expected cell to revert to Unknown, got %v", v)
	}
}

func TestSetClueValidation(t *testing.T) {
	b := New(dims2x2())
	if err := b.SetClue(0, 0, 5); err != ErrClueOutOfRange {
		t.Fatalf("expected ErrClueOutOfRange, got %v", err)
	}
	if err := b.SetClue(0, 0, 3); err != ErrClueExceedsIncidence {
		t.Fatalf("corner (0,0) has max incidence 1, expected ErrClueExceedsIncidence, got %v", err)
	}
	if err := b.SetClue(1, 1, 4); err != nil {
		t.Fatalf("interior corner clue of 4 should be valid: %v", err)
	}
}

func TestSetClueUpdatesExits(t *testing.T) {
	b := New(geometry.Dims{W: 3, H: 3})
	idx := b.Dims.CornerIndex(1, 1)
	if got := b.GroupExits(idx); got != 4 {
		t.Fatalf("expected default exits of 4, got %d", got)
	}
	if err := b.SetClue(1, 1, 2); err != nil {
		t.Fatal(err)
	}
	if got := b.GroupExits(idx); got != 2 {
		t.Fatalf("expected exits pinned to the clue value 2, got %d", got)
	}
	if err := b.SetClue(1, 1, -1); err != nil {
		t.Fatal(err)
	}
	if got := b.GroupExits(idx); got != 4 {
		t.Fatalf("expected exits to reset to 4 once the clue is cleared, got %d", got)
	}
}

func TestDecrementExitsSkipsCluedCorner(t *testing.T) {
	b := New(dims2x2())
	d := b.Dims
	clued := d.CornerIndex(0, 1)
	unclued := d.CornerIndex(1, 0)

	if err := b.SetClue(0, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(d.CellIndex(0, 0), Backslash); err != nil {
		t.Fatal(err)
	}
	if got := b.GroupExits(clued); got != 2 {
		t.Fatalf("expected clued corner's exits to stay pinned at 2, got %d", got)
	}
	if got := b.GroupExits(unclued); got != 3 {
		t.Fatalf("expected unclued corner's exits to decrement to 3, got %d", got)
	}
}

func TestWouldDeadEndTrueWhenBothInteriorEndpointsAreLowOnExits(t *testing.T) {
	b := New(geometry.Dims{W: 3, H: 3})
	if err := b.SetClue(1, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.SetClue(2, 1, 1); err != nil {
		t.Fatal(err)
	}
	idx := b.Dims.CellIndex(1, 1)
	if !b.WouldDeadEnd(idx, Slash) {
		t.Fatal("expected both interior endpoints down to one exit each to signal a dead end")
	}
}

func TestWouldDeadEndFalseWhenAnEndpointIsOnTheBorder(t *testing.T) {
	b := New(geometry.Dims{W: 3, H: 3})
	if err := b.SetClue(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	// SlashEndpoints(0,1) = corner(0,2) [border] and corner(1,1) [interior, exits=1].
	idx := b.Dims.CellIndex(0, 1)
	if b.WouldDeadEnd(idx, Slash) {
		t.Fatal("expected a border endpoint to rule out a dead end regardless of the other endpoint's exits")
	}
}

func TestWouldDeadEndFalseWhenExitsStillAvailable(t *testing.T) {
	b := New(geometry.Dims{W: 3, H: 3})
	idx := b.Dims.CellIndex(1, 1)
	if b.WouldDeadEnd(idx, Slash) {
		t.Fatal("expected a fresh board with full exits to never signal a dead end")
	}
}

func TestOracleMismatchDetected(t *testing.T) {
	b := New(dims2x2())
	solution := make([]Value, b.Dims.NumCells())
	for i := range solution {
		solution[i] = Slash
	}
	b.EnableOracle(solution)

	idx := b.Dims.CellIndex(0, 0)
	if err := b.Place(idx, Backslash); err != ErrOracleMismatch {
		t.Fatalf("expected ErrOracleMismatch, got %v", err)
	}
}
