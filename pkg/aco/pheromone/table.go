// Package pheromone implements an assignment-keyed pheromone table.
//
// The table stores one trail per (minimal vertex, maximal vertex) decision
// plus one trail per minimal vertex for leaving it unmapped. Evaporation,
// deposit and clamping all happen inside [Table.Update], so the search loop
// only decides how much to reinforce.
package pheromone

import (
	"sync"

	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

// Options configure trail dynamics.
//
// Evaporation and Min are pointers because zero is a meaningful setting for
// both: no evaporation reproduces a pure deposit table, and a zero floor lets
// trails vanish. Nil takes the default. For Initial and Max zero means
// default.
type Options struct {
	// Initial is the starting value of every trail.
	Initial float64 `toml:"initial" json:"initial"`
	// Evaporation is the fraction removed from every trail per update, in [0, 1].
	Evaporation *float64 `toml:"evaporation" json:"evaporation"`
	// Min and Max bound every trail after an update (MAX-MIN ant system).
	Min *float64 `toml:"min" json:"min"`
	Max float64  `toml:"max" json:"max"`
}

// Float returns a pointer to v, for literal [Options].
func Float(v float64) *float64 { return &v }

// DefaultOptions returns the default trail dynamics.
func DefaultOptions() Options {
	return Options{
		Initial:     1.0,
		Evaporation: Float(0.1),
		Min:         Float(0.01),
		Max:         10.0,
	}
}

// WithDefaults fills unset fields from [DefaultOptions].
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Initial == 0 {
		o.Initial = d.Initial
	}
	if o.Evaporation == nil {
		o.Evaporation = d.Evaporation
	}
	if o.Min == nil {
		o.Min = d.Min
	}
	if o.Max == 0 {
		o.Max = d.Max
	}
	return o
}

// Validate checks the ranges of set fields.
func (o Options) Validate() error {
	if o.Evaporation != nil && (*o.Evaporation < 0 || *o.Evaporation > 1) {
		return errors.New(errors.ErrCodeInvalidParams, "evaporation must be in [0, 1], got %g", *o.Evaporation)
	}
	if o.Min != nil && *o.Min < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "min trail must not be negative, got %g", *o.Min)
	}
	if o.Max < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "max trail must not be negative, got %g", o.Max)
	}
	if o.Min != nil && o.Max > 0 && *o.Min > o.Max {
		return errors.New(errors.ErrCodeInvalidParams, "min trail %g exceeds max %g", *o.Min, o.Max)
	}
	return nil
}

// Table is a dense rows × (targets+1) trail matrix. The last column of each
// row is the unmapped trail.
//
// Reads take a shared lock and Update an exclusive one, so agents may read
// concurrently while no update is in progress.
type Table struct {
	mu     sync.RWMutex
	rows   int
	cols   int
	trails []float64
	opts   Options

	keep     float64
	min, max float64
}

// New creates a table for mapping rows minimal vertices onto targets maximal
// vertices. Unset option fields take their defaults.
func New(rows, targets int, opts Options) *Table {
	opts = opts.WithDefaults()
	t := &Table{
		rows:   rows,
		cols:   targets + 1,
		trails: make([]float64, rows*(targets+1)),
		opts:   opts,
		keep:   1 - *opts.Evaporation,
		min:    *opts.Min,
		max:    opts.Max,
	}
	initial := clamp(opts.Initial, t.min, t.max)
	for k := range t.trails {
		t.trails[k] = initial
	}
	return t
}

// Options returns the effective options.
func (t *Table) Options() Options { return t.opts }

// Trail returns the trail for mapping minimal vertex i to maximal vertex j.
func (t *Table) Trail(i, j int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trails[i*t.cols+j]
}

// UnmappedTrail returns the trail for leaving minimal vertex i unmapped.
func (t *Table) UnmappedTrail(i int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trails[i*t.cols+t.cols-1]
}

// Row copies the trails of minimal vertex i into dst and returns it. The
// last element is the unmapped trail. dst is grown as needed.
func (t *Table) Row(i int, dst []float64) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append(dst[:0], t.trails[i*t.cols:(i+1)*t.cols]...)
}

// Update evaporates every trail, deposits amount on each decision of m and
// clamps the result to [Min, Max]. Positions of m beyond the table's rows
// and targets outside its columns are ignored.
func (t *Table) Update(m mapping.Mapping, amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.keep != 1 {
		for k := range t.trails {
			t.trails[k] *= t.keep
		}
	}

	for i := range min(m.Len(), t.rows) {
		col := t.cols - 1
		if j, ok := m.Target(i); ok {
			if j >= t.cols-1 {
				continue
			}
			col = j
		}
		t.trails[i*t.cols+col] += amount
	}

	for k, v := range t.trails {
		t.trails[k] = clamp(v, t.min, t.max)
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
