package aco

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphdiff/pkg/aco/stats"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
	"github.com/matzehuels/graphdiff/pkg/match"
	"github.com/matzehuels/graphdiff/pkg/observability"
	"github.com/matzehuels/graphdiff/pkg/score"
)

// Name is the algorithm name reported by [Colony.Name].
const Name = "aco"

// Colony runs the ant colony search. It implements [match.Matcher].
//
// A Colony may be reused for several searches but must not run two searches
// concurrently when Progress is not safe for concurrent use.
type Colony struct {
	// Strategy creates the pheromone table and agents. Required.
	Strategy Strategy

	// Params bound the search. Zero fields take their defaults.
	Params Params

	// Seed drives every agent's random source. Zero picks a random seed.
	Seed uint64

	// Parallel runs the agents of one iteration concurrently.
	Parallel bool

	// Progress, if set, is called after every iteration.
	Progress func(Iteration)

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

var _ match.Matcher = (*Colony)(nil)

// Name returns "aco".
func (c *Colony) Name() string { return Name }

// Match searches for a mapping from the smaller of g1 and g2 into the
// larger. Both graphs are validated first; unsorted adjacency lists fail
// with code UNSORTED_ADJACENCY.
//
// Cancellation is checked between iterations. A canceled search returns an
// error with code SEARCH_CANCELED and no result. An empty smaller graph
// yields an empty mapping without building agents or running iterations.
func (c *Colony) Match(ctx context.Context, g1, g2 *graph.Graph) (res *match.Result, err error) {
	if c.Strategy == nil {
		return nil, errors.New(errors.ErrCodeInvalidParams, "colony has no strategy")
	}
	params := c.Params.WithDefaults()
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

	if minimal.Size() == 0 {
		return &match.Result{Mapping: mapping.New(0), Swapped: swapped}, nil
	}

	s, err := c.newSearch(minimal, maximal, params)
	if err != nil {
		return nil, err
	}
	res, err = s.run(ctx)
	if err != nil {
		return nil, err
	}
	res.Swapped = swapped
	return res, nil
}

// =============================================================================
// Search State
// =============================================================================

type search struct {
	colony  *Colony
	params  Params
	minimal *graph.Graph
	maximal *graph.Graph
	table   Pheromone
	agents  []Agent

	candidates []mapping.Mapping
	scores     []int
}

func (c *Colony) newSearch(minimal, maximal *graph.Graph, params Params) (*search, error) {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	st := stats.New(minimal, maximal)
	table := c.Strategy.NewPheromone(minimal, maximal)
	agents := make([]Agent, params.Agents)
	for i := range agents {
		a, err := c.Strategy.NewAgent(minimal, maximal, table, st, AgentSeed(seed, i))
		if err != nil {
			return nil, err
		}
		agents[i] = a
	}

	return &search{
		colony:     c,
		params:     params,
		minimal:    minimal,
		maximal:    maximal,
		table:      table,
		agents:     agents,
		candidates: make([]mapping.Mapping, params.Agents),
		scores:     make([]int, params.Agents),
	}, nil
}

// AgentSeed derives the seed of agent i from a colony seed.
func AgentSeed(seed uint64, i int) uint64 {
	return seed ^ (uint64(i+1) * 0x9e3779b97f4a7c15)
}

func (s *search) run(ctx context.Context) (*match.Result, error) {
	logger := s.colony.Logger
	hooks := observability.Search()

	best := mapping.New(s.minimal.Size())
	bestScore := -1
	stagnation := 0
	res := &match.Result{}

	for it := range s.params.Iterations {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSearchCanceled, err, "search canceled after %d iterations", it)
		}

		if err := s.explore(); err != nil {
			return nil, err
		}
		iterBest, iterScore := s.selectBest()
		res.Iterations = it + 1

		if iterScore > bestScore {
			bestScore = iterScore
			best = iterBest.Clone()
			stagnation = 0
			if logger != nil {
				logger.Debug("new best", "iteration", it, "score", bestScore)
			}
		} else {
			stagnation++
		}

		reward := Reward(bestScore, iterScore)
		s.table.Update(iterBest, reward)

		hooks.OnIteration(ctx, Name, it, bestScore, iterScore, reward)
		if s.colony.Progress != nil {
			s.colony.Progress(Iteration{
				Index:          it,
				BestScore:      bestScore,
				IterationScore: iterScore,
				Reward:         reward,
				Stagnation:     stagnation,
			})
		}

		if stagnation == s.params.MaxStagnation {
			res.Stagnated = true
			if logger != nil {
				logger.Debug("stagnated", "iteration", it, "score", bestScore)
			}
			break
		}
	}

	res.Mapping = best
	res.Score = max(bestScore, 0)
	return res, nil
}

// explore fills candidates and scores, one slot per agent.
func (s *search) explore() error {
	if !s.colony.Parallel {
		for i, a := range s.agents {
			if err := s.evaluate(i, a); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range s.agents {
		g.Go(func() error { return s.evaluate(i, a) })
	}
	return g.Wait()
}

func (s *search) evaluate(i int, a Agent) error {
	m := a.FindPath()
	if m.Len() != s.minimal.Size() {
		return errors.New(errors.ErrCodeInvalidAgent,
			"agent %d returned %d entries for %d vertices", i, m.Len(), s.minimal.Size())
	}
	if err := m.Validate(s.maximal.Size()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAgent, err, "agent %d", i)
	}
	s.candidates[i] = m
	s.scores[i] = score.Score(s.minimal, s.maximal, m)
	return nil
}

// selectBest returns the first candidate with the highest score.
func (s *search) selectBest() (mapping.Mapping, int) {
	bestIdx, bestScore := 0, -1
	for i, sc := range s.scores {
		if sc > bestScore {
			bestIdx, bestScore = i, sc
		}
	}
	return s.candidates[bestIdx], bestScore
}
