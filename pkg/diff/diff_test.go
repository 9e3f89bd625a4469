package diff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
	"github.com/matzehuels/graphdiff/pkg/match"
)

func build(t *testing.T, directed bool, ids []string, edges [][2]string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(directed)
	for _, id := range ids {
		_, err := b.AddNode(id, "")
		require.NoError(t, err)
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

// pathABC is a-b-c, pathXYZW is x-y-z-w. Mapping a→x, b→y keeps one edge.
func pathPair(t *testing.T) (*graph.Graph, *graph.Graph, *match.Result) {
	g1 := build(t, false, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	g2 := build(t, false, []string{"x", "y", "z", "w"}, [][2]string{{"x", "y"}, {"y", "z"}, {"z", "w"}})
	res := &match.Result{Mapping: mapping.FromSlice([]int{0, 1, -1}), Score: 2}
	return g1, g2, res
}

func TestCompute(t *testing.T) {
	g1, g2, res := pathPair(t)
	d := Compute(g1, g2, res)

	assert.False(t, d.Directed)
	assert.Equal(t, 2, d.Score)
	assert.Equal(t, 4, d.MaxScore)
	assert.InDelta(t, 0.5, d.Similarity, 1e-9)

	assert.Equal(t, []NodePair{{From: "a", To: "x"}, {From: "b", To: "y"}}, d.Matched)
	assert.Equal(t, []string{"c"}, d.Removed)
	assert.Equal(t, []string{"z", "w"}, d.Added)

	assert.Equal(t, []graph.Edge{{From: "a", To: "b"}}, d.CommonEdges)
	assert.Equal(t, []graph.Edge{{From: "b", To: "c"}}, d.RemovedEdges)
	assert.Equal(t, []graph.Edge{{From: "y", To: "z"}, {From: "z", To: "w"}}, d.AddedEdges)
	assert.Equal(t, 4, d.Changes())
	assert.False(t, d.Identical())
}

func TestComputeSwapped(t *testing.T) {
	g1, g2, res := pathPair(t)
	res.Swapped = true

	// The matcher mapped g1 into g2, but the caller asked for g2 → g1.
	d := Compute(g2, g1, res)

	assert.Equal(t, []NodePair{{From: "x", To: "a"}, {From: "y", To: "b"}}, d.Matched)
	assert.Equal(t, []string{"z", "w"}, d.Removed)
	assert.Equal(t, []string{"c"}, d.Added)
	assert.Equal(t, []graph.Edge{{From: "x", To: "y"}}, d.CommonEdges)
	assert.Equal(t, []graph.Edge{{From: "y", To: "z"}, {From: "z", To: "w"}}, d.RemovedEdges)
	assert.Equal(t, []graph.Edge{{From: "b", To: "c"}}, d.AddedEdges)
}

// Triangle a-b-c folded onto edge x-y with c sharing x; z stays unused.
func TestComputeNonInjective(t *testing.T) {
	tri := build(t, false, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	edge := build(t, false, []string{"x", "y", "z"}, [][2]string{{"x", "y"}})
	folded := mapping.FromSlice([]int{0, 1, 0})

	t.Run("forward", func(t *testing.T) {
		d := Compute(tri, edge, &match.Result{Mapping: folded, Score: 4})

		assert.Equal(t, 6, d.MaxScore)
		assert.InDelta(t, 4.0/6.0, d.Similarity, 1e-9)
		assert.Equal(t, []NodePair{{From: "a", To: "x"}, {From: "b", To: "y"}, {From: "c", To: "x"}}, d.Matched)
		assert.Empty(t, d.Removed)
		assert.Equal(t, []string{"z"}, d.Added)
		assert.Equal(t, []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}, d.CommonEdges)
		assert.Equal(t, []graph.Edge{{From: "a", To: "c"}}, d.RemovedEdges)
		assert.Empty(t, d.AddedEdges)
	})

	t.Run("swapped", func(t *testing.T) {
		d := Compute(edge, tri, &match.Result{Mapping: folded, Score: 4, Swapped: true})

		assert.Equal(t, 6, d.MaxScore)
		assert.LessOrEqual(t, d.Similarity, 1.0)
		assert.Equal(t, []NodePair{{From: "x", To: "a"}, {From: "x", To: "c"}, {From: "y", To: "b"}}, d.Matched)
		assert.Equal(t, []string{"z"}, d.Removed)
		assert.Empty(t, d.Added)
		assert.Equal(t, []graph.Edge{{From: "x", To: "y"}}, d.CommonEdges)
		assert.Empty(t, d.RemovedEdges)
		assert.Equal(t, []graph.Edge{{From: "a", To: "c"}}, d.AddedEdges)
	})
}

func TestComputeIdentical(t *testing.T) {
	g := build(t, false, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	d := Compute(g, g, &match.Result{Mapping: mapping.FromSlice([]int{0, 1, 2}), Score: 6})

	assert.True(t, d.Identical())
	assert.Equal(t, 1.0, d.Similarity)
	assert.Len(t, d.CommonEdges, 3)
}

func TestComputeDirected(t *testing.T) {
	g1 := build(t, true, []string{"a", "b"}, [][2]string{{"a", "b"}})
	g2 := build(t, true, []string{"x", "y"}, [][2]string{{"y", "x"}})
	d := Compute(g1, g2, &match.Result{Mapping: mapping.FromSlice([]int{0, 1})})

	assert.True(t, d.Directed)
	assert.Equal(t, []graph.Edge{{From: "a", To: "b"}}, d.RemovedEdges)
	assert.Equal(t, []graph.Edge{{From: "y", To: "x"}}, d.AddedEdges)
	assert.Empty(t, d.CommonEdges)
}

func TestComputeEmpty(t *testing.T) {
	g := build(t, false, nil, nil)
	d := Compute(g, g, &match.Result{Mapping: mapping.New(0)})

	assert.Equal(t, 1.0, d.Similarity)
	assert.True(t, d.Identical())
	assert.NotNil(t, d.Matched)
}

func TestWriteText(t *testing.T) {
	g1, g2, res := pathPair(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Compute(g1, g2, res)))

	want := "# score 2/4 (similarity 0.500)\n" +
		"= a -> x\n" +
		"= b -> y\n" +
		"- c\n" +
		"+ z\n" +
		"+ w\n" +
		"- b -- c\n" +
		"+ y -- z\n" +
		"+ z -- w\n"
	assert.Equal(t, want, buf.String())
}

func TestToDOT(t *testing.T) {
	g1, g2, res := pathPair(t)
	dot := ToDOT(Compute(g1, g2, res))

	assert.Contains(t, dot, "graph G {")
	assert.NotContains(t, dot, "digraph")
	assert.Contains(t, dot, `"g1:a" [label="a → x", fillcolor="#fff3cd"]`)
	assert.Contains(t, dot, `"g1:c" [label="c", fillcolor="#f8d7da"`)
	assert.Contains(t, dot, `"g2:z" [label="z", fillcolor="#d4edda"]`)
	assert.Contains(t, dot, `"g1:a" -- "g1:b";`)
	assert.Contains(t, dot, `"g1:b" -- "g1:c" [color="#c0392b"`)
	// Added edges attach to the g1 node a g2 vertex was matched with.
	assert.Contains(t, dot, `"g1:b" -- "g2:z" [color="#27ae60"`)
	assert.Contains(t, dot, `"g2:z" -- "g2:w"`)
}

func TestToDOTNonInjective(t *testing.T) {
	edge := build(t, false, []string{"x", "y", "z"}, [][2]string{{"x", "y"}})
	tri := build(t, false, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	d := Compute(edge, tri, &match.Result{Mapping: mapping.FromSlice([]int{0, 1, 0}), Score: 4, Swapped: true})
	dot := ToDOT(d)

	assert.Equal(t, 1, strings.Count(dot, `"g1:x" [label=`))
	assert.Contains(t, dot, `"g1:x" [label="x → a, c", fillcolor="#fff3cd"]`)
	assert.Contains(t, dot, `"g1:x" -- "g1:x" [color="#27ae60"`)
}

func TestToDOTDirected(t *testing.T) {
	g := build(t, true, []string{"a", "b"}, [][2]string{{"a", "b"}})
	dot := ToDOT(Compute(g, g, &match.Result{Mapping: mapping.FromSlice([]int{0, 1}), Score: 1}))

	assert.Contains(t, dot, "digraph G {")
	assert.Contains(t, dot, `"g1:a" [label="a", fillcolor="white"]`)
	assert.Contains(t, dot, `"g1:a" -> "g1:b";`)
}
