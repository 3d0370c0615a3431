// Package board owns the mutable puzzle state: cell assignments, clues,
// and the two union-find structures (corner connectivity and cell
// equivalence) that back the deduction rules and the solver engine.
// Nothing in this package knows which rule fired or why; it only knows
// how to apply an assignment and report whether doing so is consistent.
package board

import (
	"strings"

	"slantcore/internal/geometry"
	"slantcore/pkg/constants"
)

// V-bitmap bit layout, grounded on the original solver's
// rule_vbitmap_propagation: each bit names the (this cell, neighbor
// cell) value pair that would produce a particular V-shape, and stays
// set only while that pairing remains feasible.
const (
	VBitRightBackslashSlash  uint8 = 1 << 0 // this=Backslash, right=Slash: "\/"
	VBitRightSlashBackslash  uint8 = 1 << 1 // this=Slash, right=Backslash: "/\"
	VBitBottomBackslashSlash uint8 = 1 << 2 // this=Backslash, bottom=Slash: ">"
	VBitBottomSlashBackslash uint8 = 1 << 3 // this=Slash, bottom=Backslash: "<"
	VBitRightMask            uint8 = VBitRightBackslashSlash | VBitRightSlashBackslash
	VBitBottomMask           uint8 = VBitBottomBackslashSlash | VBitBottomSlashBackslash
	vbitAllSet               uint8 = VBitRightMask | VBitBottomMask
)

// Board is the full mutable state of one Slants puzzle in progress.
type Board struct {
	Dims geometry.Dims

	cells []Value
	clue  []int8 // -1 means no clue at that corner

	conn  unionFind // over corner indices, loop detection
	equiv unionFind // over cell indices, forced-equivalence classes

	// equivValue[slot] holds the known slash-vs-opposite relationship
	// value for the equivalence class rooted at slot, or Unknown if the
	// class hasn't been pinned yet. Only meaningful when read at
	// equiv.find(i), since roots move under union.
	equivValue []Value

	// exits[slot] and border[slot] are meaningful only at conn.find(i):
	// exits counts remaining diagonal slots that could still extend the
	// component rooted at slot without closing a loop; border marks
	// whether the component touches the grid perimeter (a component
	// that is both interior and out of exits can never close into the
	// spanning forest and signals a contradiction).
	exits  []int
	border []bool

	vbitmap []uint8

	numUnknown int

	oracle        []Value
	oracleEnabled bool
}

// New constructs an empty board of the given dimensions with no clues.
func New(dims geometry.Dims) *Board {
	nc := dims.NumCells()
	nk := dims.NumCorners()

	b := &Board{
		Dims:       dims,
		cells:      make([]Value, nc),
		clue:       make([]int8, nk),
		conn:       newUnionFind(nk),
		equiv:      newUnionFind(nc),
		equivValue: make([]Value, nc),
		exits:      make([]int, nk),
		border:     make([]bool, nk),
		vbitmap:    make([]uint8, nc),
		numUnknown: nc,
	}
	for i := range b.clue {
		b.clue[i] = -1
	}
	for i := range b.vbitmap {
		b.vbitmap[i] = vbitAllSet
	}
	for idx := 0; idx < nk; idx++ {
		cx, cy := dims.CornerXY(idx)
		b.exits[idx] = constants.MaxClue
		b.border[idx] = dims.IsBorderCorner(cx, cy)
	}
	return b
}

// SetClue assigns a clue to corner (cx,cy). Pass -1 to clear it. Clues
// must be set before any diagonal touching that corner is placed, since
// exits is reseeded from the clue (or back to 4 when cleared) assuming
// the corner is still its own connectivity root.
func (b *Board) SetClue(cx, cy, clue int) error {
	idx := b.Dims.CornerIndex(cx, cy)
	if clue < 0 {
		b.clue[idx] = -1
		b.exits[b.conn.find(idx)] = constants.MaxClue
		return nil
	}
	if clue < constants.MinClue || clue > constants.MaxClue {
		return ErrClueOutOfRange
	}
	if clue > b.Dims.MaxIncidence(cx, cy) {
		return ErrClueExceedsIncidence
	}
	b.clue[idx] = int8(clue)
	b.exits[b.conn.find(idx)] = clue
	return nil
}

// Clue returns the clue at corner index idx and whether one is present.
func (b *Board) Clue(idx int) (int, bool) {
	c := b.clue[idx]
	if c < 0 {
		return 0, false
	}
	return int(c), true
}

// EnableOracle turns on debug-mode assignment checking against a known
// solution. Must be disabled before any speculative branching, since a
// branch that turns out wrong is expected to diverge from the oracle.
func (b *Board) EnableOracle(solution []Value) {
	b.oracle = solution
	b.oracleEnabled = true
}

// DisableOracle turns off oracle checking, e.g. before the search driver
// starts speculative branching.
func (b *Board) DisableOracle() {
	b.oracleEnabled = false
}

// Value returns the current assignment of cell index idx.
func (b *Board) Value(idx int) Value { return b.cells[idx] }

// NumUnknown returns how many cells remain unassigned.
func (b *Board) NumUnknown() int { return b.numUnknown }

// IsComplete reports whether every cell has been assigned.
func (b *Board) IsComplete() bool { return b.numUnknown == 0 }

// WouldFormLoop reports whether placing value v in cell idx would join
// two corners already connected by existing diagonals.
func (b *Board) WouldFormLoop(idx int, v Value) bool {
	x, y := b.Dims.CellXY(idx)
	c1, c2 := b.Dims.Endpoints(x, y, v.Orientation())
	return b.conn.connected(c1, c2)
}

// Place assigns v to cell idx, updating connectivity, exits, and
// border bookkeeping. Returns ErrWouldFormLoop if the assignment closes
// a cycle, ErrAlreadyAssigned if the cell already holds a different
// value, and ErrOracleMismatch if oracle checking is enabled and v
// disagrees with the known solution. Idempotent re-placement of the
// same value is a no-op that returns nil.
func (b *Board) Place(idx int, v Value) error {
	if cur := b.cells[idx]; cur != Unknown {
		if cur == v {
			return nil
		}
		return ErrAlreadyAssigned
	}
	if b.oracleEnabled && b.oracle[idx] != Unknown && b.oracle[idx] != v {
		return ErrOracleMismatch
	}

	x, y := b.Dims.CellXY(idx)
	o := v.Orientation()
	c1, c2 := b.Dims.Endpoints(x, y, o)

	if b.conn.connected(c1, c2) {
		return ErrWouldFormLoop
	}

	e1, e2 := b.exitsOf(c1), b.exitsOf(c2)
	bd1, bd2 := b.borderOf(c1), b.borderOf(c2)

	root, merged := b.conn.union(c1, c2)
	if !merged {
		// unreachable: connected() already checked above.
		return ErrWouldFormLoop
	}
	b.exits[root] = e1 + e2 - 2
	b.border[root] = bd1 || bd2

	// The two corners NOT touched by this diagonal each lose one
	// potential exit, since this cell can no longer offer them a path.
	n1, n2 := b.Dims.NonEndpointCorners(x, y, o)
	b.decrementExits(n1)
	b.decrementExits(n2)

	b.cells[idx] = v
	b.numUnknown--
	b.clearVBitmapOnAssign(idx, v)

	if err := b.propagateEquivalence(idx, v); err != nil {
		return err
	}
	return nil
}

func (b *Board) exitsOf(cornerIdx int) int  { return b.exits[b.conn.find(cornerIdx)] }
func (b *Board) borderOf(cornerIdx int) bool { return b.border[b.conn.find(cornerIdx)] }

// decrementExits reduces the exits count for cornerIdx's connectivity
// component, unless cornerIdx itself carries a clue: a clued corner's
// exits count is pinned to its clue value and never drifts from it,
// since the clue is already an exact statement of how many diagonals
// may touch that corner.
func (b *Board) decrementExits(cornerIdx int) {
	if _, has := b.Clue(cornerIdx); has {
		return
	}
	root := b.conn.find(cornerIdx)
	if b.exits[root] > 0 {
		b.exits[root]--
	}
}

// WouldDeadEnd reports whether placing v at idx would connect two
// corners that are each, individually, down to their last exit and
// nowhere near the grid border — matching rule_dead_end_avoidance's
// per-endpoint check rather than the hypothetical merged component,
// since a corner low on exits but sitting on the border can still reach
// the spanning forest through the perimeter. Does not mutate the board;
// callers use it to prune a candidate value before committing to Place.
func (b *Board) WouldDeadEnd(idx int, v Value) bool {
	x, y := b.Dims.CellXY(idx)
	c1, c2 := b.Dims.Endpoints(x, y, v.Orientation())
	if b.conn.connected(c1, c2) {
		return false // loop, not a dead end; caller handles loops separately
	}
	e1, e2 := b.exitsOf(c1), b.exitsOf(c2)
	bd1, bd2 := b.borderOf(c1), b.borderOf(c2)
	return !bd1 && !bd2 && e1 <= 1 && e2 <= 1
}

// GroupExits returns the remaining-exits count for the connectivity
// component containing corner idx.
func (b *Board) GroupExits(cornerIdx int) int { return b.exitsOf(cornerIdx) }

// GroupBorder reports whether the connectivity component containing
// corner idx touches the grid perimeter.
func (b *Board) GroupBorder(cornerIdx int) bool { return b.borderOf(cornerIdx) }

// ConnGroupsEqual reports whether two corners belong to the same
// connectivity component.
func (b *Board) ConnGroupsEqual(c1, c2 int) bool { return b.conn.connected(c1, c2) }

// MarkEquivalent forces cells i and j into the same equivalence class.
// If same is true they are forced to equal values; if false, opposite
// values. Returns ErrIncompatibleEquivalence if the cells already carry
// conflicting known values under the claimed relation.
func (b *Board) MarkEquivalent(i, j int, same bool) error {
	vi, vj := b.cells[i], b.cells[j]
	if vi != Unknown && vj != Unknown {
		agrees := vi == vj
		if agrees != same {
			return ErrIncompatibleEquivalence
		}
	}

	ri, rj := b.equiv.find(i), b.equiv.find(j)
	if ri == rj {
		return nil
	}

	// equivValue stores "value of the class's canonical representative
	// i", so merging classes whose relation is "opposite" requires
	// flipping one side's stored value before the union.
	valI, valJ := b.equivValue[ri], b.equivValue[rj]
	if !same {
		valJ = valJ.Opposite()
	}

	var merged Value
	switch {
	case valI != Unknown:
		merged = valI
	case valJ != Unknown:
		merged = valJ
	default:
		merged = Unknown
	}
	if valI != Unknown && valJ != Unknown && valI != valJ {
		return ErrIncompatibleEquivalence
	}

	root, _ := b.equiv.union(i, j)
	b.equivValue[root] = merged

	// If the class is now pinned and one side already had a concrete
	// cell value, propagate it to the newly joined side.
	if merged != Unknown {
		if vi == Unknown {
			if err := b.applyEquivalenceValue(i, merged); err != nil {
				return err
			}
		}
		if vj == Unknown {
			want := merged
			if !same {
				want = merged.Opposite()
			}
			if err := b.applyEquivalenceValue(j, want); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Board) applyEquivalenceValue(idx int, v Value) error {
	return b.Place(idx, v)
}

// EquivClassValue returns the known value of cell idx's equivalence
// class (Unknown if unpinned), expressed relative to idx itself.
func (b *Board) EquivClassValue(idx int) Value {
	return b.equivValue[b.equiv.find(idx)]
}

// EquivGroupsEqual reports whether two cells belong to the same forced
// equivalence class.
func (b *Board) EquivGroupsEqual(i, j int) bool { return b.equiv.connected(i, j) }

// propagateEquivalence pushes a freshly-assigned cell's value onto every
// other cell already in its equivalence class.
func (b *Board) propagateEquivalence(idx int, v Value) error {
	root := b.equiv.find(idx)
	if b.equivValue[root] == Unknown {
		b.equivValue[root] = v
	}
	for j := range b.cells {
		if j != idx && b.cells[j] == Unknown && b.equiv.find(j) == root {
			if err := b.Place(j, b.equivValue[root]); err != nil {
				return err
			}
		}
	}
	return nil
}

// VBitmap returns the raw feasibility bitmap for cell idx.
func (b *Board) VBitmap(idx int) uint8 { return b.vbitmap[idx] }

// VBitmapClear clears the given bits in cell idx's feasibility bitmap
// and reports whether any bit actually changed.
func (b *Board) VBitmapClear(idx int, bits uint8) bool {
	before := b.vbitmap[idx]
	after := before &^ bits
	if after == before {
		return false
	}
	b.vbitmap[idx] = after
	return true
}

// clearVBitmapOnAssign drops idx's own bits that required the value it
// did NOT receive: once a cell is known, only the bits consistent with
// its actual value can still describe a feasible V-shape.
func (b *Board) clearVBitmapOnAssign(idx int, v Value) {
	if v == Slash {
		b.vbitmap[idx] &^= VBitRightBackslashSlash | VBitBottomBackslashSlash
	} else {
		b.vbitmap[idx] &^= VBitRightSlashBackslash | VBitBottomSlashBackslash
	}
}

// Snapshot is an opaque copy of board state suitable for Restore, used
// by the search driver to try a branch and cheaply back out of it.
type Snapshot struct {
	cells      []Value
	conn       unionFind
	equiv      unionFind
	equivValue []Value
	exits      []int
	border     []bool
	vbitmap    []uint8
	numUnknown int
}

// Snapshot captures the current state.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		cells:      make([]Value, len(b.cells)),
		conn:       b.conn.clone(),
		equiv:      b.equiv.clone(),
		equivValue: make([]Value, len(b.equivValue)),
		exits:      make([]int, len(b.exits)),
		border:     make([]bool, len(b.border)),
		vbitmap:    make([]uint8, len(b.vbitmap)),
		numUnknown: b.numUnknown,
	}
	copy(s.cells, b.cells)
	copy(s.equivValue, b.equivValue)
	copy(s.exits, b.exits)
	copy(s.border, b.border)
	copy(s.vbitmap, b.vbitmap)
	return s
}

// Restore rewinds the board to a previously captured Snapshot.
func (b *Board) Restore(s Snapshot) {
	copy(b.cells, s.cells)
	b.conn = s.conn.clone()
	b.equiv = s.equiv.clone()
	copy(b.equivValue, s.equivValue)
	copy(b.exits, s.exits)
	copy(b.border, s.border)
	copy(b.vbitmap, s.vbitmap)
	b.numUnknown = s.numUnknown
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{
		Dims:       b.Dims,
		cells:      append([]Value(nil), b.cells...),
		clue:       append([]int8(nil), b.clue...),
		conn:       b.conn.clone(),
		equiv:      b.equiv.clone(),
		equivValue: append([]Value(nil), b.equivValue...),
		exits:      append([]int(nil), b.exits...),
		border:     append([]bool(nil), b.border...),
		vbitmap:    append([]uint8(nil), b.vbitmap...),
		numUnknown: b.numUnknown,
	}
	if b.oracleEnabled {
		out.oracle = append([]Value(nil), b.oracle...)
		out.oracleEnabled = true
	}
	return out
}

// ClueViolated reports whether any clued corner's already-touching count
// exceeds its clue, or its clue can no longer be reached given how many
// adjacent cells remain unknown. Cheap enough to call after every trial
// placement during lookahead without running the full rule set.
func (b *Board) ClueViolated() bool {
	d := b.Dims
	for cy := 0; cy <= d.H; cy++ {
		for cx := 0; cx <= d.W; cx++ {
			idx := d.CornerIndex(cx, cy)
			clue, ok := b.Clue(idx)
			if !ok {
				continue
			}
			touching, unknown := 0, 0
			for _, adj := range d.AdjacentsOfCorner(cx, cy) {
				v := b.Value(d.CellIndex(adj.CellX, adj.CellY))
				switch {
				case v == Unknown:
					unknown++
				case v == FromOrientation(adj.Touches):
					touching++
				}
			}
			if touching > clue || touching+unknown < clue {
				return true
			}
		}
	}
	return false
}

// String renders the board row-major, one character per cell, using
// '.' for unassigned cells — the same alphabet puzzlefile uses for the
// solution field of a puzzle line.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells))
	for _, v := range b.cells {
		sb.WriteString(v.String())
	}
	return sb.String()
}
