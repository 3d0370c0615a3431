// Command solve reads a single puzzle (width, height, clue string and an
// optional solution) from its command-line arguments and prints its
// solution status and how many times each rule fired, grounded on the
// teacher's cmd/test_puzzle — a thin CLI wrapper around the same solving
// path the HTTP handler uses.
package main

import (
	"fmt"
	"os"

	"slantcore/internal/geometry"
	"slantcore/internal/puzzlefile"
	"slantcore/internal/search"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: solve <width> <height> <clues> [solution]")
		os.Exit(1)
	}

	var width, height int
	if _, err := fmt.Sscanf(os.Args[1], "%d", &width); err != nil {
		fmt.Printf("bad width: %v\n", err)
		os.Exit(1)
	}
	if _, err := fmt.Sscanf(os.Args[2], "%d", &height); err != nil {
		fmt.Printf("bad height: %v\n", err)
		os.Exit(1)
	}

	rec := puzzlefile.Record{
		Name:  "cli",
		Dims:  geometry.Dims{W: width, H: height},
		Clues: os.Args[3],
	}
	if len(os.Args) >= 5 {
		rec.Solution = os.Args[4]
	}

	b, err := puzzlefile.ToBoard(rec)
	if err != nil {
		fmt.Printf("malformed puzzle: %v\n", err)
		os.Exit(1)
	}

	outcome, err := search.New().Solve(b)
	if err != nil {
		fmt.Printf("contradiction: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("status: %s\n", outcome.Status)
	fmt.Printf("moves: %d (work score %d, max tier %d)\n", len(outcome.Moves), outcome.WorkScore, outcome.MaxTierUsed)
	if outcome.Solution != nil {
		fmt.Printf("board: %s\n", outcome.Solution.String())
	}

	counts := make(map[string]int)
	for _, m := range outcome.Moves {
		counts[m.Rule]++
	}
	for rule, n := range counts {
		fmt.Printf("  %-28s %d\n", rule, n)
	}
}
