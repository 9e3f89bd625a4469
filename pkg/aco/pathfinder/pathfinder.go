// Package pathfinder provides the default ant colony strategy: agents that
// build mappings vertex by vertex with roulette-wheel selection over
// pheromone trails and a degree/adjacency heuristic.
package pathfinder

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/graphdiff/pkg/aco"
	"github.com/matzehuels/graphdiff/pkg/aco/pheromone"
	"github.com/matzehuels/graphdiff/pkg/aco/stats"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

// Options tune candidate construction.
type Options struct {
	// Alpha weights pheromone trails.
	Alpha float64 `toml:"alpha" json:"alpha"`
	// Beta weights the heuristic desirability.
	Beta float64 `toml:"beta" json:"beta"`
	// Unmapped scales the desirability of leaving a vertex unmapped
	// relative to a candidate with heuristic 1. Nil uses the default; zero
	// leaves a vertex unmapped only when no candidate is available.
	Unmapped *float64 `toml:"unmapped" json:"unmapped"`
	// NonInjective allows several vertices to share one target.
	NonInjective bool `toml:"non_injective" json:"non_injective"`
}

// DefaultOptions returns the default construction options.
func DefaultOptions() Options {
	return Options{Alpha: 1, Beta: 2, Unmapped: pheromone.Float(0.05)}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Alpha == 0 {
		o.Alpha = d.Alpha
	}
	if o.Beta == 0 {
		o.Beta = d.Beta
	}
	if o.Unmapped == nil {
		o.Unmapped = d.Unmapped
	}
	return o
}

// Validate rejects negative weights.
func (o Options) Validate() error {
	if o.Alpha < 0 || o.Beta < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "alpha and beta must not be negative, got %g and %g", o.Alpha, o.Beta)
	}
	if o.Unmapped != nil && *o.Unmapped < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "unmapped weight must not be negative, got %g", *o.Unmapped)
	}
	return nil
}

// Trails is the pheromone view a Pathfinder reads from.
type Trails interface {
	aco.Pheromone
	Row(i int, dst []float64) []float64
}

// Pathfinder is an [aco.Agent]. Each call to FindPath visits the minimal
// graph in breadth-first order from a random start and picks a target for
// every vertex with probability proportional to
//
//	trail^Alpha × (heuristic × (1 + gain))^Beta
//
// where gain counts already mapped neighbors whose images stay adjacent.
//
// A Pathfinder is not safe for concurrent use; a colony gives every agent
// its own instance.
type Pathfinder struct {
	minimal *graph.Graph
	maximal *graph.Graph
	trails  Trails
	stat    *stats.GraphStat
	opts    Options
	rng     *rand.Rand

	unmapped float64

	used    []bool
	visited []bool
	queue   []int
	weights []float64
	row     []float64
}

// New creates a Pathfinder seeded with seed.
func New(minimal, maximal *graph.Graph, trails Trails, st *stats.GraphStat, seed uint64, opts Options) *Pathfinder {
	opts = opts.withDefaults()
	return &Pathfinder{
		minimal:  minimal,
		maximal:  maximal,
		trails:   trails,
		stat:     st,
		opts:     opts,
		rng:      rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		unmapped: *opts.Unmapped,
		used:     make([]bool, maximal.Size()),
		visited:  make([]bool, minimal.Size()),
		queue:    make([]int, 0, minimal.Size()),
	}
}

// FindPath constructs one candidate mapping.
func (p *Pathfinder) FindPath() mapping.Mapping {
	n := p.minimal.Size()
	m := mapping.New(n)
	if n == 0 {
		return m
	}
	clear(p.used)
	clear(p.visited)

	order := p.stat.Order()
	start := p.rng.IntN(n)
	p.visit(start, m)
	for _, v := range order {
		if !p.visited[v] {
			p.visit(v, m)
		}
	}
	return m
}

// visit maps every vertex reachable from root, breadth first.
func (p *Pathfinder) visit(root int, m mapping.Mapping) {
	p.queue = append(p.queue[:0], root)
	p.visited[root] = true
	for len(p.queue) > 0 {
		v := p.queue[0]
		p.queue = p.queue[1:]
		if j, ok := p.choose(v, m); ok {
			m.Assign(v, j)
			if !p.opts.NonInjective {
				p.used[j] = true
			}
		}
		for _, w := range p.minimal.Neighbors(v) {
			if !p.visited[w] {
				p.visited[w] = true
				p.queue = append(p.queue, w)
			}
		}
	}
}

// choose draws a target for minimal vertex i. ok is false when the vertex
// stays unmapped.
func (p *Pathfinder) choose(i int, m mapping.Mapping) (int, bool) {
	cands := p.stat.Candidates(i)
	if len(cands) == 0 {
		return 0, false
	}
	p.row = p.trails.Row(i, p.row)

	p.weights = p.weights[:0]
	total := 0.0
	for _, j := range cands {
		w := 0.0
		if !p.used[j] {
			eta := p.stat.Heuristic(i, j) * float64(1+p.gain(i, j, m))
			w = math.Pow(p.row[j], p.opts.Alpha) * math.Pow(eta, p.opts.Beta)
		}
		p.weights = append(p.weights, w)
		total += w
	}
	unmapped := math.Pow(p.row[len(p.row)-1], p.opts.Alpha) * p.unmapped
	total += unmapped

	if total <= 0 {
		return 0, false
	}
	r := p.rng.Float64() * total
	for k, w := range p.weights {
		if r < w {
			return cands[k], true
		}
		r -= w
	}
	return 0, false
}

// gain counts neighbors of i that are already mapped to a neighbor of j.
func (p *Pathfinder) gain(i, j int, m mapping.Mapping) int {
	g := 0
	for _, v := range p.minimal.Neighbors(i) {
		if t, ok := m.Target(v); ok && p.maximal.HasEdge(j, t) {
			g++
		}
	}
	return g
}

// =============================================================================
// Strategy
// =============================================================================

// Strategy pairs [pheromone.Table] with Pathfinder agents. It implements
// [aco.Strategy].
type Strategy struct {
	Pheromone pheromone.Options `toml:"pheromone" json:"pheromone"`
	Agent     Options           `toml:"agent" json:"agent"`
}

var _ aco.Strategy = Strategy{}

// NewStrategy returns a Strategy with default options.
func NewStrategy() Strategy {
	return Strategy{Pheromone: pheromone.DefaultOptions(), Agent: DefaultOptions()}
}

// WithDefaults fills unset options with defaults.
func (s Strategy) WithDefaults() Strategy {
	s.Pheromone = s.Pheromone.WithDefaults()
	s.Agent = s.Agent.withDefaults()
	return s
}

// Validate checks both option groups.
func (s Strategy) Validate() error {
	if err := s.Pheromone.Validate(); err != nil {
		return err
	}
	return s.Agent.Validate()
}

// NewPheromone creates a table sized for the graph pair.
func (s Strategy) NewPheromone(minimal, maximal *graph.Graph) aco.Pheromone {
	return pheromone.New(minimal.Size(), maximal.Size(), s.Pheromone)
}

// NewAgent creates a Pathfinder. table must have been created by NewPheromone
// or otherwise implement [Trails].
func (s Strategy) NewAgent(minimal, maximal *graph.Graph, table aco.Pheromone, st *stats.GraphStat, seed uint64) (aco.Agent, error) {
	trails, ok := table.(Trails)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidParams, "pathfinder: unsupported pheromone table %T", table)
	}
	return New(minimal, maximal, trails, st, seed, s.Agent), nil
}
