package board

import "errors"

// Sentinel errors, checked with errors.Is by callers, following the
// error taxonomy of lvlath's graph packages (gridgraph/matrix/builder
// errors.go): one var per failure mode, wrapped with context at the
// call site rather than embedding messages in a custom error type.
var (
	// ErrWouldFormLoop is returned by Place/WouldFormLoop when assigning
	// a diagonal would connect two corners already joined by a path of
	// other diagonals, closing a cycle.
	ErrWouldFormLoop = errors.New("board: assignment would close a loop")

	// ErrAlreadyAssigned is returned by Place when the target cell
	// already carries a value different from the one being placed.
	ErrAlreadyAssigned = errors.New("board: cell already assigned a different value")

	// ErrIncompatibleEquivalence is returned by MarkEquivalent when two
	// cells are forced equivalent but their already-known values
	// disagree under the claimed relation (same or opposite).
	ErrIncompatibleEquivalence = errors.New("board: equivalence conflicts with known values")

	// ErrOracleMismatch is returned by Place while oracle checking is
	// enabled (EnableOracle) and the value placed contradicts the
	// board's configured oracle solution. Boards without an oracle never
	// return it.
	ErrOracleMismatch = errors.New("board: rule assignment contradicts oracle solution")

	// ErrClueOutOfRange is returned by SetClue when the clue value falls
	// outside [constants.MinClue, constants.MaxClue].
	ErrClueOutOfRange = errors.New("board: clue value out of range")

	// ErrClueExceedsIncidence is returned when a clue exceeds the number
	// of diagonals that could ever touch its corner.
	ErrClueExceedsIncidence = errors.New("board: clue exceeds corner's maximum incidence")
)
