// Package outcome implements weighted selection over conditional outcome
// tables. Tables are declarative lists of candidates; the resolver filters
// them by predicate and picks one proportionally to weight.
package outcome

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/state"
)

var (
	ErrNoFallback = errors.New("outcome table has no unconditional candidate")
	ErrBadWeight  = errors.New("outcome weight must be positive")
	ErrNoEffect   = errors.New("outcome candidate has no effect")
)

// Input is what predicates and effects see. Target is nil for tables that
// are not aimed at a specific artist.
type Input struct {
	State  *state.State
	Target *state.Artist
	Rand   entropy.Source
}

// Predicate gates a candidate. A nil predicate means always eligible.
type Predicate func(in Input) bool

// Effect builds the patch and message for a chosen candidate. Effects must
// not mutate in.State.
type Effect func(in Input) Result

// Result is the output of a resolved table.
type Result struct {
	ID      string
	Patch   state.Patch
	Message string
}

// Candidate is one weighted, possibly conditional, table entry.
type Candidate struct {
	ID     string
	When   Predicate
	Weight float64
	Effect Effect
}

// Table is a validated outcome table.
type Table struct {
	name       string
	candidates []Candidate
	fallback   int
}

// NewTable validates candidates and builds a table. Every table needs at
// least one candidate without a predicate to fall back on.
func NewTable(name string, candidates []Candidate) (*Table, error) {
	fallback := -1
	for i, c := range candidates {
		if c.Weight <= 0 {
			return nil, fmt.Errorf("%s/%s: %w", name, c.ID, ErrBadWeight)
		}
		if c.Effect == nil {
			return nil, fmt.Errorf("%s/%s: %w", name, c.ID, ErrNoEffect)
		}
		if c.When == nil && fallback < 0 {
			fallback = i
		}
	}
	if fallback < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoFallback)
	}
	return &Table{
		name:       name,
		candidates: append([]Candidate(nil), candidates...),
		fallback:   fallback,
	}, nil
}

// MustTable is NewTable for package-level tables; it panics on invalid input.
func MustTable(name string, candidates []Candidate) *Table {
	t, err := NewTable(name, candidates)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Candidates returns a copy of the table entries in declaration order.
func (t *Table) Candidates() []Candidate {
	return append([]Candidate(nil), t.candidates...)
}

// Reweight returns a copy of the table with weights replaced by ID. IDs not
// present in weights keep their declared weight.
func (t *Table) Reweight(weights map[string]float64) (*Table, error) {
	out := make([]Candidate, len(t.candidates))
	for i, c := range t.candidates {
		if w, ok := weights[c.ID]; ok {
			c.Weight = w
		}
		out[i] = c
	}
	return NewTable(t.name, out)
}

// Select picks a candidate. Exactly one draw is consumed from in.Rand.
//
// Eligible candidates are walked in declaration order and the first whose
// cumulative weight is strictly greater than the draw wins. With nothing
// eligible the fallback is returned.
func (t *Table) Select(in Input) Candidate {
	eligible := make([]Candidate, 0, len(t.candidates))
	total := 0.0
	for _, c := range t.candidates {
		if c.When == nil || c.When(in) {
			eligible = append(eligible, c)
			total += c.Weight
		}
	}

	r := in.Rand.Float() * total
	cum := 0.0
	for _, c := range eligible {
		cum += c.Weight
		if cum > r {
			return c
		}
	}
	return t.candidates[t.fallback]
}

// Resolve selects a candidate and runs its effect.
func (t *Table) Resolve(in Input) Result {
	c := t.Select(in)
	res := c.Effect(in)
	res.ID = c.ID
	return res
}
