// Package rules implements the tiered deduction techniques that drive
// the propagation engine: each rule inspects the board and, if it finds
// a forced cell, applies it directly and reports what it did. Grounded
// on the technique-registry pattern in the teacher's human-solver
// package, generalized from Sudoku candidate elimination to Slants
// diagonal placement.
package rules

import (
	"slantcore/internal/board"
	"slantcore/internal/core"
)

// Detector inspects the board for one forced deduction, applies it, and
// returns the Move describing what changed. It returns (nil, nil) when
// no deduction of this kind is currently available, and a non-nil error
// only when the board package reports a genuine contradiction (a loop,
// an oracle mismatch, or an incompatible equivalence) — propagation
// treats that as "this branch is unsatisfiable", not a bug.
type Detector func(b *board.Board) (*core.Move, error)

// Descriptor holds metadata about one deduction technique.
type Descriptor struct {
	Name     string
	Slug     string
	Tier     int
	Detector Detector
	Enabled  bool
	Order    int
}

// Registry holds all available rules organized by tier.
type Registry struct {
	rules    map[string]*Descriptor
	tierSlugs map[int][]string
}

// NewRegistry builds a registry with every rule registered and enabled,
// in ascending (tier, order) pedagogical sequence: cheap local closure
// first, pattern deduction next, bounded lookahead last.
func NewRegistry() *Registry {
	r := &Registry{
		rules:     make(map[string]*Descriptor),
		tierSlugs: make(map[int][]string),
	}
	registerTier1(r)
	registerTier2(r)
	registerTier3(r)
	return r
}

func (r *Registry) register(d Descriptor) {
	cp := d
	r.rules[d.Slug] = &cp
	r.tierSlugs[d.Tier] = append(r.tierSlugs[d.Tier], d.Slug)
}

// GetByTier returns all enabled rules for a tier, in registration order.
func (r *Registry) GetByTier(tier int) []*Descriptor {
	var out []*Descriptor
	for _, slug := range r.tierSlugs[tier] {
		if d := r.rules[slug]; d != nil && d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

// GetBySlug returns a rule by slug, or nil if unknown.
func (r *Registry) GetBySlug(slug string) *Descriptor { return r.rules[slug] }

// SetEnabled enables or disables a rule by slug; reports whether the
// slug was known.
func (r *Registry) SetEnabled(slug string, enabled bool) bool {
	d := r.rules[slug]
	if d == nil {
		return false
	}
	d.Enabled = enabled
	return true
}

// Tiers returns the sorted list of tiers that have at least one
// registered rule, lowest (cheapest) first.
func (r *Registry) Tiers() []int {
	tiers := make([]int, 0, len(r.tierSlugs))
	for t := range r.tierSlugs {
		tiers = append(tiers, t)
	}
	for i := 1; i < len(tiers); i++ {
		for j := i; j > 0 && tiers[j-1] > tiers[j]; j-- {
			tiers[j-1], tiers[j] = tiers[j], tiers[j-1]
		}
	}
	return tiers
}
