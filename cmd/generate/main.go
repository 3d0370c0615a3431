// Command generate produces a batch of puzzles in parallel and writes
// them as puzzle-file lines, grounded on the teacher's cmd/generate
// worker-pool pattern: a fixed channel of work items, a pool of
// goroutines each owning its own board, and an atomic progress counter.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"slantcore/internal/generator"
	"slantcore/internal/geometry"
	"slantcore/internal/puzzlefile"
	"slantcore/pkg/constants"
)

func main() {
	count := flag.Int("n", 100, "number of puzzles to generate")
	width := flag.Int("w", 6, "grid width")
	height := flag.Int("h", 6, "grid height")
	output := flag.String("o", "puzzles.txt", "output file path")
	workers := flag.Int("workers", 0, "worker goroutines (default: num CPUs)")
	startSeed := flag.Int64("seed", 1, "starting seed value")
	passes := flag.Int("passes", constants.DefaultReductionPasses, "clue reduction passes")
	symmetric := flag.Bool("symmetry", false, "carve clues in point-symmetric pairs")
	flag.Parse()

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	dims := geometry.Dims{W: *width, H: *height}
	fmt.Printf("generating %d puzzles (%dx%d) with %d workers...\n", *count, dims.W, dims.H, *workers)
	start := time.Now()

	lines := make([]string, *count)
	var generated int64

	work := make(chan int, *count)
	for i := 0; i < *count; i++ {
		work <- i
	}
	close(work)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g := atomic.LoadInt64(&generated)
				fmt.Printf("  progress: %d/%d\n", g, *count)
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range work {
				seed := *startSeed + int64(idx)
				puzzle := generator.GenerateWithOptions(dims, seed, *passes, *symmetric)

				clues := make([]int8, dims.NumCorners())
				for cy := 0; cy <= dims.H; cy++ {
					for cx := 0; cx <= dims.W; cx++ {
						ci := dims.CornerIndex(cx, cy)
						if clue, ok := puzzle.Clued.Clue(ci); ok {
							clues[ci] = int8(clue)
						} else {
							clues[ci] = -1
						}
					}
				}

				rec := puzzlefile.Record{
					Name:     fmt.Sprintf("gen-%d", seed),
					Dims:     dims,
					Clues:    puzzlefile.EncodeClues(clues),
					Solution: puzzle.Solution.String(),
				}
				lines[idx] = puzzlefile.FormatLine(rec)
				atomic.AddInt64(&generated, 1)
			}
		}(w)
	}
	wg.Wait()
	close(done)

	f, err := os.Create(*output)
	if err != nil {
		fmt.Printf("failed to create output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	w.Flush()

	fmt.Printf("wrote %d puzzles to %s in %s\n", *count, *output, time.Since(start).Round(time.Millisecond))
}
