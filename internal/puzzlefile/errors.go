package puzzlefile

import "errors"

var (
	// ErrMalformedClueString is returned when a clue string contains a
	// byte outside '0'-'9' and 'a'-'z' (digits '5'-'9' are reported as
	// ErrClueExceedsMax instead).
	ErrMalformedClueString = errors.New("puzzlefile: malformed clue string")

	// ErrClueExceedsMax is returned when a decoded digit clue exceeds 4.
	ErrClueExceedsMax = errors.New("puzzlefile: clue digit exceeds maximum of 4")

	// ErrLineFieldCount is returned when a puzzle file line does not
	// have the expected tab-separated field count.
	ErrLineFieldCount = errors.New("puzzlefile: wrong number of tab-separated fields")

	// ErrMalformedBoardString is returned when a board string contains a
	// byte other than '/', '\\', or '.'.
	ErrMalformedBoardString = errors.New("puzzlefile: malformed board string")
)
