// Package http exposes the solver and generator over a small gin
// surface, grounded on the teacher's transport/http routes.go: one
// RegisterRoutes entry point, a package-level config pointer set once at
// startup, and handlers that translate request JSON into the internal
// packages and back.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slantcore/internal/core"
	"slantcore/internal/generator"
	"slantcore/internal/geometry"
	"slantcore/internal/puzzlefile"
	"slantcore/internal/search"
	"slantcore/pkg/config"
	"slantcore/pkg/constants"
)

var cfg *config.Config

// RegisterRoutes wires the Slants API onto r.
func RegisterRoutes(r *gin.Engine, c *config.Config) {
	cfg = c

	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/solve", solveHandler)
		api.POST("/generate", generateHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

type solveRequest struct {
	Width         int    `json:"width" binding:"required"`
	Height        int    `json:"height" binding:"required"`
	Clues         string `json:"clues" binding:"required"`
	KnownSolution string `json:"known_solution,omitempty"`
	ForGeneration bool   `json:"for_generation,omitempty"`
	MaxTier       int    `json:"max_tier,omitempty"`
}

func solveHandler(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "detail": err.Error()})
		return
	}
	if cfg != nil && (req.Width > cfg.MaxGridDimension || req.Height > cfg.MaxGridDimension) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grid_too_large"})
		return
	}

	dims := geometry.Dims{W: req.Width, H: req.Height}
	rec := puzzlefile.Record{Name: "request", Dims: dims, Clues: req.Clues}
	b, err := puzzlefile.ToBoard(rec)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_clues", "detail": err.Error()})
		return
	}

	if req.KnownSolution != "" {
		solutionValues, err := puzzlefile.DecodeBoard(req.KnownSolution, dims.NumCells())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_known_solution", "detail": err.Error()})
			return
		}
		b.EnableOracle(solutionValues)
	}

	maxTier := req.MaxTier
	if req.ForGeneration {
		maxTier = constants.TierPattern
	}
	if maxTier == 0 && cfg != nil {
		maxTier = cfg.DefaultMaxTier
	}

	driver := search.New()
	if maxTier > 0 {
		driver = search.NewWithMaxTier(maxTier)
	}
	outcome, err := driver.Solve(b)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "contradiction", "detail": err.Error()})
		return
	}

	result := core.SolveResult{
		Status:      outcome.Status,
		WorkScore:   outcome.WorkScore,
		MaxTierUsed: outcome.MaxTierUsed,
	}
	if outcome.Solution != nil {
		result.Board = outcome.Solution.String()
	}
	c.JSON(http.StatusOK, result)
}

type generateRequest struct {
	Width           int   `json:"width" binding:"required"`
	Height          int   `json:"height" binding:"required"`
	Seed            int64 `json:"seed"`
	ReductionPasses int   `json:"reduction_passes,omitempty"`
	Symmetry        bool  `json:"symmetry,omitempty"`
}

func generateHandler(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_request", "detail": err.Error()})
		return
	}
	if cfg != nil && (req.Width > cfg.MaxGridDimension || req.Height > cfg.MaxGridDimension) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grid_too_large"})
		return
	}

	passes := req.ReductionPasses
	if passes == 0 {
		if cfg != nil {
			passes = cfg.ReductionPasses
		} else {
			passes = constants.DefaultReductionPasses
		}
	}

	dims := geometry.Dims{W: req.Width, H: req.Height}
	puzzle := generator.GenerateWithOptions(dims, req.Seed, passes, req.Symmetry)

	clues := make([]int8, dims.NumCorners())
	for cy := 0; cy <= dims.H; cy++ {
		for cx := 0; cx <= dims.W; cx++ {
			idx := dims.CornerIndex(cx, cy)
			if clue, ok := puzzle.Clued.Clue(idx); ok {
				clues[idx] = int8(clue)
			} else {
				clues[idx] = -1
			}
		}
	}

	result := core.GenerateResult{
		Clues:       puzzlefile.EncodeClues(clues),
		Board:       puzzle.Solution.String(),
		WorkScore:   puzzle.Result.WorkScore,
		MaxTierUsed: puzzle.Result.MaxTierUsed,
	}
	for i := 0; i < dims.NumCorners(); i++ {
		if clues[i] >= 0 {
			result.NumClues++
		}
	}
	c.JSON(http.StatusOK, result)
}
