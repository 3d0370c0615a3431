// Package puzzlefile is the external boundary for Slants puzzles: the
// run-length clue string codec and the tab-separated puzzle file format.
// Nothing here touches union-find or propagation — it only converts
// between the wire/file representation and the plain clue and value
// slices the board package already understands.
package puzzlefile

import (
	"strings"

	"slantcore/pkg/constants"
)

// EncodeClues serializes clues (one entry per corner, row-major, -1 for
// no clue) into the RLE alphabet: a digit '0'-'4' for a clued corner, or
// a lowercase letter for a run of 1-26 consecutive no-clue corners
// ('a' == a run of 1, 'z' == a run of 26). Longer runs are split across
// multiple letters.
func EncodeClues(clues []int8) string {
	var sb strings.Builder
	run := 0
	flush := func() {
		for run > 0 {
			n := run
			if n > 26 {
				n = 26
			}
			sb.WriteByte(byte('a' + n - 1))
			run -= n
		}
	}
	for _, c := range clues {
		if c < 0 {
			run++
			continue
		}
		flush()
		sb.WriteByte(byte('0' + c))
	}
	flush()
	return sb.String()
}

// DecodeClues expands an RLE clue string back into a slice of length
// numCorners. A string that decodes shorter than numCorners is padded
// with no-clue; a string that decodes longer is truncated — the same
// lenient handling the teacher's loader applies to malformed puzzle
// data rather than rejecting the whole line outright.
func DecodeClues(s string, numCorners int) ([]int8, error) {
	out := make([]int8, 0, numCorners)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			d := int8(ch - '0')
			if d > constants.MaxClue {
				return nil, ErrClueExceedsMax
			}
			out = append(out, d)
		case ch >= 'a' && ch <= 'z':
			run := int(ch-'a') + 1
			for j := 0; j < run; j++ {
				out = append(out, -1)
			}
		default:
			return nil, ErrMalformedClueString
		}
	}
	if len(out) < numCorners {
		for len(out) < numCorners {
			out = append(out, -1)
		}
	} else if len(out) > numCorners {
		out = out[:numCorners]
	}
	return out, nil
}
