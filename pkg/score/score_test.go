package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

func triangle() *graph.Graph {
	return graph.New(nil, nil, [][]int{{1, 2}, {0, 2}, {0, 1}})
}

func TestScoreTriangleIdentity(t *testing.T) {
	g := triangle()
	assert.Equal(t, 6, Score(g, g, mapping.FromSlice([]int{0, 1, 2})))
}

func TestScoreAllUnmapped(t *testing.T) {
	g := triangle()
	assert.Equal(t, 0, Score(g, g, mapping.New(3)))
}

func TestScore(t *testing.T) {
	path := graph.New(nil, nil, [][]int{{1}, {0, 2}, {1}}) // 0-1-2
	star := graph.New(nil, nil, [][]int{{1, 2, 3}, {0}, {0}, {0}})

	tests := []struct {
		name   string
		g1, g2 *graph.Graph
		m      []int
		want   int
	}{
		{"path onto itself", path, path, []int{0, 1, 2}, 4},
		{"path reversed", path, path, []int{2, 1, 0}, 4},
		{"one endpoint unmapped", path, path, []int{0, 1, -1}, 2},
		{"center misplaced", path, path, []int{1, 0, 2}, 2},
		{"path into star", path, star, []int{1, 0, 2}, 4},
		{"non-injective collapse", path, star, []int{1, 0, 1}, 4},
		{"triangle into path", triangle(), path, []int{0, 1, 2}, 4},
		{"empty source", graph.New(nil, nil, nil), star, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.g1, tt.g2, mapping.FromSlice(tt.m)))
		})
	}
}

func TestScoreDirectedCountsOnce(t *testing.T) {
	b := graph.NewBuilder(true)
	_, _ = b.AddNode("a", "")
	_, _ = b.AddNode("b", "")
	require.NoError(t, b.AddEdge("a", "b"))
	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, Score(g, g, mapping.FromSlice([]int{0, 1})))
	assert.Equal(t, 0, Score(g, g, mapping.FromSlice([]int{1, 0})))
}

func TestScoreUnsortedNeverHigher(t *testing.T) {
	g1 := graph.New(nil, nil, [][]int{{1, 2, 3}, {0}, {0}, {0}})
	sorted := graph.New(nil, nil, [][]int{{1, 2, 3}, {0}, {0}, {0}})
	unsorted := graph.New(nil, nil, [][]int{{3, 2, 1}, {0}, {0}, {0}})
	m := mapping.FromSlice([]int{0, 1, 2, 3})

	require.Error(t, unsorted.Validate())
	want := Score(g1, sorted, m)
	assert.Equal(t, 6, want)
	assert.LessOrEqual(t, Score(g1, unsorted, m), want)
}

func TestEvaluate(t *testing.T) {
	g := triangle()
	f := Evaluate(g, g, mapping.FromSlice([]int{0, 1, -1}))
	assert.Equal(t, Fitness{Edges: 2, Nodes: 2}, f)

	assert.True(t, Fitness{Edges: 1, Nodes: 9}.Less(Fitness{Edges: 2}))
	assert.True(t, Fitness{Edges: 2, Nodes: 1}.Less(Fitness{Edges: 2, Nodes: 2}))
	assert.False(t, Fitness{Edges: 2, Nodes: 2}.Less(Fitness{Edges: 2, Nodes: 2}))
}
