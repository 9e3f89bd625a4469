// Package exact finds an optimal mapping by exhaustive branch-and-bound
// search. It is exponential in the size of the smaller graph and meant for
// small inputs and for checking the heuristic matchers.
package exact

import (
	"context"
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

// Name is the algorithm name reported by [Searcher.Name].
const Name = "exact"

// DefaultMaxVertices is the default size limit for the smaller graph.
const DefaultMaxVertices = 12

// cancelCheckInterval is the number of search nodes between context checks.
const cancelCheckInterval = 4096

// Searcher implements [match.Matcher] with an exhaustive search over
// injective, label-compatible mappings.
type Searcher struct {
	// MaxVertices rejects inputs whose smaller graph is larger. Zero uses
	// DefaultMaxVertices.
	MaxVertices int

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

var _ match.Matcher = (*Searcher)(nil)

// Name returns "exact".
func (s *Searcher) Name() string { return Name }

// Match returns a mapping with the maximum edge score. Ties go to the
// mapping that assigns more vertices, then to the first one found; vertices
// are tried in descending degree order, targets ascending, and leaving a
// vertex unmapped last.
//
// Result.Iterations holds the number of search nodes visited.
func (s *Searcher) Match(ctx context.Context, g1, g2 *graph.Graph) (res *match.Result, err error) {
	if err := match.Validate(g1, g2); err != nil {
		return nil, err
	}
	minimal, maximal, swapped := match.Orient(g1, g2)

	limit := s.MaxVertices
	if limit <= 0 {
		limit = DefaultMaxVertices
	}
	if minimal.Size() > limit {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"exact search supports at most %d vertices in the smaller graph, got %d", limit, minimal.Size())
	}

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

	st := newState(ctx, minimal, maximal)
	if st.err = ctx.Err(); st.err == nil {
		st.dfs(0, 0, 0)
	}
	if st.err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchCanceled, st.err, "search canceled after %d nodes", st.nodes)
	}
	if s.Logger != nil {
		s.Logger.Debug("exact search done", "nodes", st.nodes, "score", st.bestFit.Edges, "mapped", st.bestFit.Nodes)
	}

	return &match.Result{
		Mapping:    st.best,
		Score:      st.bestFit.Edges,
		Swapped:    swapped,
		Iterations: st.nodes,
	}, nil
}

type state struct {
	ctx     context.Context
	minimal *graph.Graph
	maximal *graph.Graph
	stat    *stats.GraphStat

	order []int
	pos   []int
	in    [][]int // reverse adjacency of minimal
	tail  []int   // tail[k]: arcs with an endpoint at order position >= k

	cur     mapping.Mapping
	used    []bool
	best    mapping.Mapping
	bestFit score.Fitness
	found   bool
	nodes   int
	err     error
}

func newState(ctx context.Context, minimal, maximal *graph.Graph) *state {
	n := minimal.Size()
	st := &state{
		ctx:     ctx,
		minimal: minimal,
		maximal: maximal,
		stat:    stats.New(minimal, maximal),
		pos:     make([]int, n),
		in:      make([][]int, n),
		tail:    make([]int, n+1),
		cur:     mapping.New(n),
		used:    make([]bool, maximal.Size()),
		best:    mapping.New(n),
	}
	st.order = st.stat.Order()
	for k, v := range st.order {
		st.pos[v] = k
	}

	last := make([]int, n+1)
	for u, v := range minimal.Arcs() {
		st.in[v] = append(st.in[v], u)
		last[max(st.pos[u], st.pos[v])]++
	}
	for k := n - 1; k >= 0; k-- {
		st.tail[k] = st.tail[k+1] + last[k]
	}
	return st
}

// dfs decides order[k:] given edges gained and vertices mapped so far.
func (st *state) dfs(k, edges, mapped int) {
	if st.err != nil {
		return
	}
	st.nodes++
	if st.nodes%cancelCheckInterval == 0 {
		if err := st.ctx.Err(); err != nil {
			st.err = err
			return
		}
	}
	bound := score.Fitness{Edges: edges + st.tail[k], Nodes: mapped + len(st.order) - k}
	if st.found && !st.bestFit.Less(bound) {
		return
	}
	if k == len(st.order) {
		st.best, st.bestFit, st.found = st.cur.Clone(), bound, true
		return
	}

	i := st.order[k]
	for _, j := range st.stat.Candidates(i) {
		if st.used[j] {
			continue
		}
		st.cur.Assign(i, j)
		st.used[j] = true
		st.dfs(k+1, edges+st.gain(i, j), mapped+1)
		st.used[j] = false
		st.cur.Unassign(i)
	}
	st.dfs(k+1, edges, mapped)
}

// gain is the score contributed by arcs between i and already decided
// vertices once i maps to j.
func (st *state) gain(i, j int) int {
	g := 0
	for _, v := range st.minimal.Neighbors(i) {
		switch {
		case v == i:
			if st.maximal.HasEdge(j, j) {
				g++
			}
		case st.pos[v] < st.pos[i]:
			if t, ok := st.cur.Target(v); ok && st.maximal.HasEdge(j, t) {
				g++
			}
		}
	}
	for _, u := range st.in[i] {
		if u == i || st.pos[u] > st.pos[i] {
			continue
		}
		if t, ok := st.cur.Target(u); ok && st.maximal.HasEdge(t, j) {
			g++
		}
	}
	return g
}
