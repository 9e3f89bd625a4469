package aco

import (
	"github.com/matzehuels/graphdiff/pkg/aco/stats"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

// Default search parameters.
const (
	DefaultAgents        = 20
	DefaultIterations    = 500
	DefaultMaxStagnation = 50
)

// Pheromone is the shared learning state of a colony.
//
// Update reinforces the decisions of m by amount, which the colony keeps in
// (0, 1]. Implementations own evaporation and bounds. Update is never called
// while agents are constructing candidates.
type Pheromone interface {
	Update(m mapping.Mapping, amount float64)
}

// Agent constructs one candidate mapping per call. The returned mapping must
// have one entry per vertex of the minimal graph and target only vertices of
// the maximal graph.
type Agent interface {
	FindPath() mapping.Mapping
}

// Strategy creates the pheromone table and agents for one search.
type Strategy interface {
	NewPheromone(minimal, maximal *graph.Graph) Pheromone
	NewAgent(minimal, maximal *graph.Graph, table Pheromone, st *stats.GraphStat, seed uint64) (Agent, error)
}

// Params bound the search.
type Params struct {
	// Agents is the number of candidates constructed per iteration.
	Agents int `toml:"agents" json:"agents"`
	// Iterations is the hard iteration limit.
	Iterations int `toml:"iterations" json:"iterations"`
	// MaxStagnation stops the search after this many consecutive
	// iterations without a new best score.
	MaxStagnation int `toml:"max_stagnation" json:"max_stagnation"`
}

// DefaultParams returns the default search parameters.
func DefaultParams() Params {
	return Params{
		Agents:        DefaultAgents,
		Iterations:    DefaultIterations,
		MaxStagnation: DefaultMaxStagnation,
	}
}

// WithDefaults replaces zero fields with their defaults. Negative values are
// kept so that Validate reports them.
func (p Params) WithDefaults() Params {
	if p.Agents == 0 {
		p.Agents = DefaultAgents
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
	if err := errors.ValidatePositive("agents", p.Agents); err != nil {
		return err
	}
	if err := errors.ValidatePositive("iterations", p.Iterations); err != nil {
		return err
	}
	return errors.ValidatePositive("max stagnation", p.MaxStagnation)
}

// Reward is the reinforcement for an iteration-best candidate given the
// global best score: 1 / (1 + best - iterationBest).
//
// The colony calls it after updating the global best, so best >= iterationBest
// and the result lies in (0, 1].
func Reward(best, iterationBest int) float64 {
	return 1 / float64(1+best-iterationBest)
}

// Iteration is the progress report for one completed iteration.
type Iteration struct {
	Index          int     `json:"index"`
	BestScore      int     `json:"best_score"`
	IterationScore int     `json:"iteration_score"`
	Reward         float64 `json:"reward"`
	Stagnation     int     `json:"stagnation"`
}
