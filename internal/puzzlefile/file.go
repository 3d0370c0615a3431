package puzzlefile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"slantcore/internal/board"
	"slantcore/internal/geometry"
)

// Record is one puzzle line: name, dimensions, RLE clue string, and an
// optional known solution string (empty if the puzzle ships unsolved).
// Trailing "#comment" text on a line is discarded, mirroring how the
// teacher's CSV-ish fixtures tolerate trailing notes.
type Record struct {
	Name     string
	Dims     geometry.Dims
	Clues    string
	Solution string
}

// ParseLine parses one tab-separated puzzle file line:
//
//	name\tW\tH\tclues\tsolution
//
// solution may be empty. A "#" and everything after it is treated as a
// trailing comment and stripped before field splitting.
func ParseLine(line string) (Record, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Record{}, nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 4 && len(fields) != 5 {
		return Record{}, ErrLineFieldCount
	}
	w, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("puzzlefile: bad width: %w", err)
	}
	h, err := strconv.Atoi(fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("puzzlefile: bad height: %w", err)
	}
	rec := Record{
		Name:  fields[0],
		Dims:  geometry.Dims{W: w, H: h},
		Clues: fields[3],
	}
	if len(fields) == 5 {
		rec.Solution = fields[4]
	}
	return rec, nil
}

// FormatLine renders a Record back into a tab-separated puzzle line.
func FormatLine(rec Record) string {
	if rec.Solution == "" {
		return fmt.Sprintf("%s\t%d\t%d\t%s", rec.Name, rec.Dims.W, rec.Dims.H, rec.Clues)
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s\t%s", rec.Name, rec.Dims.W, rec.Dims.H, rec.Clues, rec.Solution)
}

// ToBoard decodes a Record into a board with clues set (and, if present,
// an oracle solution wired in for debug checking).
func ToBoard(rec Record) (*board.Board, error) {
	b := board.New(rec.Dims)
	clues, err := DecodeClues(rec.Clues, rec.Dims.NumCorners())
	if err != nil {
		return nil, err
	}
	for cy := 0; cy <= rec.Dims.H; cy++ {
		for cx := 0; cx <= rec.Dims.W; cx++ {
			idx := rec.Dims.CornerIndex(cx, cy)
			if err := b.SetClue(cx, cy, int(clues[idx])); err != nil {
				return nil, err
			}
		}
	}
	if rec.Solution != "" {
		values, err := DecodeBoard(rec.Solution, rec.Dims.NumCells())
		if err != nil {
			return nil, err
		}
		b.EnableOracle(values)
	}
	return b, nil
}

// ReadAll reads every non-blank, non-comment-only line from r as a
// Record.
func ReadAll(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		if rec.Name == "" {
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Loader holds an in-memory puzzle set loaded from a file. Grounded on
// the teacher's puzzles.Loader singleton pattern.
type Loader struct {
	mu      sync.RWMutex
	records []Record
}

var (
	globalLoader *Loader
	loadOnce     sync.Once
	loadErr      error
)

// NewLoader builds a loader directly from records, for tests.
func NewLoader(records []Record) *Loader {
	return &Loader{records: records}
}

// LoadFile reads puzzle records from path.
func LoadFile(path string, open func(string) (io.ReadCloser, error)) (*Loader, error) {
	f, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("puzzlefile: failed to open %s: %w", path, err)
	}
	defer f.Close()
	records, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("puzzlefile: failed to parse %s: %w", path, err)
	}
	return &Loader{records: records}, nil
}

// Global returns the process-wide loader set by LoadGlobal, or nil.
func Global() *Loader { return globalLoader }

// LoadGlobal loads path into the global loader exactly once.
func LoadGlobal(path string, open func(string) (io.ReadCloser, error)) error {
	loadOnce.Do(func() {
		globalLoader, loadErr = LoadFile(path, open)
	})
	return loadErr
}

// Count returns the number of loaded records.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// ByName returns the record with the given name, if loaded.
func (l *Loader) ByName(name string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
