package exact

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphdiff/pkg/anneal"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
	"github.com/matzehuels/graphdiff/pkg/score"
)

func build(t *testing.T, directed bool, labels []string, edges [][2]int) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(directed)
	for i, l := range labels {
		_, err := b.AddNode(fmt.Sprintf("v%d", i), l)
		require.NoError(t, err)
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(fmt.Sprintf("v%d", e[0]), fmt.Sprintf("v%d", e[1])))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func unlabeled(n int) []string { return make([]string, n) }

func TestMatchKnownOptima(t *testing.T) {
	tests := []struct {
		name   string
		g1, g2 *graph.Graph
		want   int
	}{
		{
			name: "triangle",
			g1:   build(t, false, unlabeled(3), [][2]int{{0, 1}, {1, 2}, {0, 2}}),
			g2:   build(t, false, unlabeled(3), [][2]int{{0, 1}, {1, 2}, {0, 2}}),
			want: 6,
		},
		{
			name: "path in cycle",
			g1:   build(t, false, unlabeled(3), [][2]int{{0, 1}, {1, 2}}),
			g2:   build(t, false, unlabeled(5), [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}),
			want: 4,
		},
		{
			name: "triangle into path",
			g1:   build(t, false, unlabeled(3), [][2]int{{0, 1}, {1, 2}, {0, 2}}),
			g2:   build(t, false, unlabeled(4), [][2]int{{0, 1}, {1, 2}, {2, 3}}),
			want: 4,
		},
		{
			name: "directed reversed arc",
			g1:   build(t, true, unlabeled(2), [][2]int{{0, 1}}),
			g2:   build(t, true, unlabeled(2), [][2]int{{1, 0}}),
			want: 1,
		},
		{
			name: "self loop",
			g1:   build(t, true, unlabeled(2), [][2]int{{0, 0}, {0, 1}}),
			g2:   build(t, true, unlabeled(2), [][2]int{{1, 1}, {1, 0}}),
			want: 2,
		},
		{
			name: "labels block structure",
			g1:   build(t, false, []string{"x", "y"}, [][2]int{{0, 1}}),
			g2:   build(t, false, []string{"x", "x", "y"}, [][2]int{{0, 1}}),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := (&Searcher{}).Match(context.Background(), tt.g1, tt.g2)
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Score)
			minimal, maximal := tt.g1, tt.g2
			if res.Swapped {
				minimal, maximal = tt.g2, tt.g1
			}
			assert.Equal(t, res.Score, score.Score(minimal, maximal, res.Mapping))
			assert.True(t, res.Mapping.IsInjective())
		})
	}
}

func TestMatchRejectsLargeInput(t *testing.T) {
	g := build(t, false, unlabeled(5), nil)

	_, err := (&Searcher{MaxVertices: 4}).Match(context.Background(), g, g)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestMatchCanceled(t *testing.T) {
	g := build(t, false, unlabeled(9), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Searcher{}).Match(ctx, g, g)
	assert.True(t, errors.Is(err, errors.ErrCodeSearchCanceled))
}

// TestMatchDominatesAnnealing checks on random graphs that the exhaustive
// optimum is never beaten by the heuristic.
func TestMatchDominatesAnnealing(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 7))
	for trial := range 10 {
		g1 := randomGraph(t, rng, 5, 0.4)
		g2 := randomGraph(t, rng, 6, 0.4)

		opt, err := (&Searcher{}).Match(context.Background(), g1, g2)
		require.NoError(t, err)
		heur, err := (&anneal.Annealer{Seed: uint64(trial + 1)}).Match(context.Background(), g1, g2)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, opt.Score, heur.Score, "trial %d", trial)
	}
}

// TestMatchPrefersMoreVertices compares against brute force on labeled
// graphs, where edge-score ties between mappings of different sizes are
// common.
func TestMatchPrefersMoreVertices(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 3))
	labels := func(n int) []string {
		l := make([]string, n)
		for i := range l {
			l[i] = string(rune('a' + rng.IntN(2)))
		}
		return l
	}
	for trial := range 15 {
		g1 := randomLabeled(t, rng, labels(4), 0.3)
		g2 := randomLabeled(t, rng, labels(5), 0.3)

		res, err := (&Searcher{}).Match(context.Background(), g1, g2)
		require.NoError(t, err)
		require.False(t, res.Swapped)

		got := score.Evaluate(g1, g2, res.Mapping)
		want := bruteForce(g1, g2)
		assert.Equal(t, want, got, "trial %d", trial)
		assert.Equal(t, got.Edges, res.Score)
	}
}

// bruteForce enumerates every injective label-compatible partial mapping
// and returns the best fitness.
func bruteForce(minimal, maximal *graph.Graph) score.Fitness {
	m := mapping.New(minimal.Size())
	used := make([]bool, maximal.Size())
	var best score.Fitness
	var walk func(i int)
	walk = func(i int) {
		if i == minimal.Size() {
			if f := score.Evaluate(minimal, maximal, m); best.Less(f) {
				best = f
			}
			return
		}
		walk(i + 1)
		for j := range maximal.Size() {
			if used[j] || maximal.Label(j) != minimal.Label(i) {
				continue
			}
			m.Assign(i, j)
			used[j] = true
			walk(i + 1)
			used[j] = false
			m.Unassign(i)
		}
	}
	walk(0)
	return best
}

func randomGraph(t *testing.T, rng *rand.Rand, n int, p float64) *graph.Graph {
	t.Helper()
	return randomLabeled(t, rng, unlabeled(n), p)
}

func randomLabeled(t *testing.T, rng *rand.Rand, labels []string, p float64) *graph.Graph {
	t.Helper()
	n := len(labels)
	var edges [][2]int
	for u := range n {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return build(t, false, labels, edges)
}
