// Package anneal approximates graph matchings with simulated annealing.
//
// The search starts from a label-greedy mapping and repeatedly proposes a
// move for one vertex: re-target it to another vertex with the same label,
// swapping targets with whichever vertex held it. Moves that keep or raise
// the score are always taken; worse moves are taken with probability
// exp(Δ/T) where the temperature falls as T0/k in step k.
package anneal

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphdiff/pkg/aco/stats"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
	"github.com/matzehuels/graphdiff/pkg/match"
	"github.com/matzehuels/graphdiff/pkg/observability"
	"github.com/matzehuels/graphdiff/pkg/score"
)

// Name is the algorithm name reported by [Annealer.Name].
const Name = "anneal"

// Default schedule.
const (
	DefaultTemperature   = 100
	DefaultIterations    = 10000
	DefaultMaxStagnation = 200
)

// maxProposals bounds the attempts to find a non-trivial move per step.
const maxProposals = 10

// Params control the cooling schedule and stopping rules.
type Params struct {
	// T0 is the initial temperature. Step k runs at T0/k.
	T0 float64 `toml:"t0" json:"t0"`
	// Iterations is the hard step limit.
	Iterations int `toml:"iterations" json:"iterations"`
	// MaxStagnation stops the search after this many consecutive steps
	// without a new best score.
	MaxStagnation int `toml:"max_stagnation" json:"max_stagnation"`
}

// DefaultParams returns the default schedule.
func DefaultParams() Params {
	return Params{
		T0:            DefaultTemperature,
		Iterations:    DefaultIterations,
		MaxStagnation: DefaultMaxStagnation,
	}
}

// WithDefaults replaces zero fields with their defaults.
func (p Params) WithDefaults() Params {
	if p.T0 == 0 {
		p.T0 = DefaultTemperature
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}
	if p.MaxStagnation == 0 {
		p.MaxStagnation = DefaultMaxStagnation
	}
	return p
}

// Validate rejects non-positive parameters.
func (p Params) Validate() error {
	if p.T0 <= 0 || math.IsNaN(p.T0) || math.IsInf(p.T0, 0) {
		return errors.New(errors.ErrCodeInvalidParams, "t0 must be a positive number, got %v", p.T0)
	}
	if err := errors.ValidatePositive("iterations", p.Iterations); err != nil {
		return err
	}
	return errors.ValidatePositive("max stagnation", p.MaxStagnation)
}

// Temperature returns T0/k.
func (p Params) Temperature(k int) float64 { return p.T0 / float64(k) }

// Step reports one annealing step.
type Step struct {
	Index       int     `json:"index"`
	Energy      int     `json:"energy"`
	BestScore   int     `json:"best_score"`
	Temperature float64 `json:"temperature"`
	Accepted    bool    `json:"accepted"`
}

// Annealer implements [match.Matcher].
type Annealer struct {
	// Params control the schedule. Zero fields take their defaults.
	Params Params

	// Seed drives the random source. Zero picks a random seed.
	Seed uint64

	// Initial, if it has one entry per vertex of the smaller graph, replaces
	// the label-greedy starting mapping.
	Initial mapping.Mapping

	// Progress, if set, is called after every step.
	Progress func(Step)

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

var _ match.Matcher = (*Annealer)(nil)

// Name returns "anneal".
func (a *Annealer) Name() string { return Name }

// Match anneals a mapping from the smaller of g1 and g2 into the larger.
func (a *Annealer) Match(ctx context.Context, g1, g2 *graph.Graph) (res *match.Result, err error) {
	params := a.Params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := match.Validate(g1, g2); err != nil {
		return nil, err
	}
	minimal, maximal, swapped := match.Orient(g1, g2)

	start := time.Now()
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, Name, minimal.Size(), maximal.Size())
	defer func() {
		best, iterations := 0, 0
		if res != nil {
			best, iterations = res.Score, res.Iterations
		}
		hooks.OnSearchComplete(ctx, Name, best, iterations, time.Since(start), err)
	}()

	current, err := a.initial(minimal, maximal)
	if err != nil {
		return nil, err
	}

	seed := a.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	st := stats.New(minimal, maximal)

	energy := score.Score(minimal, maximal, current)
	best, bestScore := current.Clone(), energy
	stagnation := 0
	res = &match.Result{Swapped: swapped}

	for k := 1; k <= params.Iterations && minimal.Size() > 0; k++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSearchCanceled, err, "search canceled after %d steps", k-1)
		}
		res.Iterations = k

		temp := params.Temperature(k)
		accepted := false
		if x, ok := propose(current, st, rng); ok {
			xEnergy := score.Score(minimal, maximal, x)
			if accept(xEnergy-energy, temp, rng) {
				current, energy, accepted = x, xEnergy, true
			}
		}

		if energy > bestScore {
			best, bestScore = current.Clone(), energy
			stagnation = 0
			if a.Logger != nil {
				a.Logger.Debug("new best", "step", k, "score", bestScore, "temperature", temp)
			}
		} else {
			stagnation++
		}

		hooks.OnIteration(ctx, Name, k, bestScore, energy, 0)
		if a.Progress != nil {
			a.Progress(Step{Index: k, Energy: energy, BestScore: bestScore, Temperature: temp, Accepted: accepted})
		}

		if stagnation == params.MaxStagnation {
			res.Stagnated = true
			break
		}
	}

	res.Mapping = best
	res.Score = bestScore
	return res, nil
}

// initial returns Initial when it fits, otherwise the label-greedy mapping.
func (a *Annealer) initial(minimal, maximal *graph.Graph) (mapping.Mapping, error) {
	if a.Initial.Len() == 0 {
		return Greedy(minimal, maximal), nil
	}
	if a.Initial.Len() != minimal.Size() {
		return mapping.Mapping{}, errors.New(errors.ErrCodeInvalidMapping,
			"initial mapping has %d entries, smaller graph has %d vertices", a.Initial.Len(), minimal.Size())
	}
	if err := a.Initial.Validate(maximal.Size()); err != nil {
		return mapping.Mapping{}, errors.Wrap(errors.ErrCodeInvalidMapping, err, "initial mapping")
	}
	return a.Initial.Clone(), nil
}

// Greedy maps every minimal vertex, in index order, to the last unused
// maximal vertex with the same label. Vertices whose label class is
// exhausted stay unmapped.
func Greedy(minimal, maximal *graph.Graph) mapping.Mapping {
	free := make(map[string][]int)
	for j := range maximal.Size() {
		l := maximal.Label(j)
		free[l] = append(free[l], j)
	}
	m := mapping.New(minimal.Size())
	for i := range minimal.Size() {
		l := minimal.Label(i)
		if pool := free[l]; len(pool) > 0 {
			m.Assign(i, pool[len(pool)-1])
			free[l] = pool[:len(pool)-1]
		}
	}
	return m
}

// propose re-targets one random vertex to another label-compatible vertex.
// If the new target is held by another position the two swap targets.
// ok is false when no non-trivial move was found.
func propose(current mapping.Mapping, st *stats.GraphStat, rng *rand.Rand) (mapping.Mapping, bool) {
	n := current.Len()
	for range maxProposals {
		i := rng.IntN(n)
		cands := st.Candidates(i)
		if len(cands) == 0 {
			continue
		}
		t := cands[rng.IntN(len(cands))]
		if cur, ok := current.Target(i); ok && cur == t {
			continue
		}

		x := current.Clone()
		if holder := holderOf(x, t); holder >= 0 {
			x.Swap(i, holder)
		} else {
			x.Assign(i, t)
		}
		return x, true
	}
	return current, false
}

func holderOf(m mapping.Mapping, t int) int {
	for p := range m.Len() {
		if j, ok := m.Target(p); ok && j == t {
			return p
		}
	}
	return -1
}

// accept is the Metropolis criterion for a score change delta at temp.
func accept(delta int, temp float64, rng *rand.Rand) bool {
	if delta >= 0 {
		return true
	}
	return rng.Float64() < math.Exp(float64(delta)/temp)
}
