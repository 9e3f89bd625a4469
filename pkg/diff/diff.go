// Package diff turns a matcher result into a structural diff between two
// graphs and renders it.
//
// # Overview
//
// A [Diff] always reads from the first graph to the second: matched
// vertices pair a g1 ID with a g2 ID, removed vertices exist only in g1,
// added vertices only in g2. Edges are classified the same way. Matchers
// map the smaller graph into the larger one, so [Compute] reads the
// mapping backwards when the matcher swapped its inputs.
//
// # Running
//
// [Runner] wires matcher selection, caching, run IDs, rendering and
// observability hooks together:
//
//	r := diff.NewRunner(c, nil, logger)
//	res, err := r.Run(ctx, g1, g2, diff.Options{Algorithm: "aco", Seed: 42})
//	fmt.Println(res.Diff.Similarity)
//
// # Output
//
// Diffs serialize to JSON directly, to plain text with [WriteText], and to
// Graphviz with [ToDOT], [RenderSVG] and [RenderPNG].
package diff

import (
	"slices"

	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/match"
)

// NodePair is a matched vertex: From in g1, To in g2.
type NodePair struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Diff is the structural difference between two graphs under one mapping.
//
// Non-injective mappings are reported as they are: several Matched pairs
// may share a To vertex, and a g2 vertex counts as Added only when no g1
// vertex maps onto it.
type Diff struct {
	Directed bool `json:"directed"`

	// Score is the matcher's edge score (stored arcs preserved).
	Score int `json:"score"`
	// MaxScore is the largest score any mapping of the same kind could
	// reach: the smaller of the two stored arc counts for injective
	// mappings, the mapped graph's arc count otherwise.
	MaxScore int `json:"max_score"`
	// Similarity is Score / MaxScore, or 1 when MaxScore is zero.
	Similarity float64 `json:"similarity"`

	Matched []NodePair `json:"matched"`
	Removed []string   `json:"removed"`
	Added   []string   `json:"added"`

	// CommonEdges and RemovedEdges use g1 IDs, AddedEdges g2 IDs.
	// Undirected edges appear once.
	CommonEdges  []graph.Edge `json:"common_edges"`
	RemovedEdges []graph.Edge `json:"removed_edges"`
	AddedEdges   []graph.Edge `json:"added_edges"`
}

// Compute builds the diff of g1 → g2 from a matcher result for the same
// pair of graphs. An edge of g1 is common when some matched pairs of its
// endpoints form an edge of g2; an edge of g2 is added when no common g1
// edge covers it.
func Compute(g1, g2 *graph.Graph, res *match.Result) *Diff {
	src, dst := g1, g2
	if res.Swapped {
		src, dst = g2, g1
	}

	maxScore := min(g1.EdgeCount(), g2.EdgeCount())
	if !res.Mapping.IsInjective() {
		maxScore = src.EdgeCount()
	}
	d := &Diff{
		Directed:     g1.Directed() || g2.Directed(),
		Score:        res.Score,
		MaxScore:     maxScore,
		Matched:      []NodePair{},
		Removed:      []string{},
		Added:        []string{},
		CommonEdges:  []graph.Edge{},
		RemovedEdges: []graph.Edge{},
		AddedEdges:   []graph.Edge{},
	}
	d.Similarity = similarity(d.Score, d.MaxScore)

	// fwd[v] lists the g2 partners of g1 vertex v, back[w] the g1 partners
	// of g2 vertex w.
	fwd := make([][]int, g1.Size())
	back := make([][]int, g2.Size())
	for s := range min(res.Mapping.Len(), src.Size()) {
		t, ok := res.Mapping.Target(s)
		if !ok || t >= dst.Size() {
			continue
		}
		v, w := s, t
		if res.Swapped {
			v, w = t, s
		}
		fwd[v] = append(fwd[v], w)
		back[w] = append(back[w], v)
	}
	for v := range fwd {
		slices.Sort(fwd[v])
	}

	for v := range g1.Size() {
		if len(fwd[v]) == 0 {
			d.Removed = append(d.Removed, g1.ID(v))
			continue
		}
		for _, w := range fwd[v] {
			d.Matched = append(d.Matched, NodePair{From: g1.ID(v), To: g2.ID(w), Label: g1.Label(v)})
		}
	}
	for w := range g2.Size() {
		if len(back[w]) == 0 {
			d.Added = append(d.Added, g2.ID(w))
		}
	}

	covered := make(map[[2]int]bool)
	for u, v := range g1.Arcs() {
		common := false
		for _, a := range fwd[u] {
			for _, b := range fwd[v] {
				if g2.HasEdge(a, b) {
					common = true
					covered[[2]int{a, b}] = true
				}
			}
		}
		if !g1.Directed() && v < u {
			continue
		}
		e := graph.Edge{From: g1.ID(u), To: g1.ID(v)}
		if common {
			d.CommonEdges = append(d.CommonEdges, e)
		} else {
			d.RemovedEdges = append(d.RemovedEdges, e)
		}
	}
	for x, y := range g2.Arcs() {
		if !g2.Directed() && y < x {
			continue
		}
		if covered[[2]int{x, y}] || (!g2.Directed() && covered[[2]int{y, x}]) {
			continue
		}
		d.AddedEdges = append(d.AddedEdges, graph.Edge{From: g2.ID(x), To: g2.ID(y)})
	}
	return d
}

func similarity(score, maxScore int) float64 {
	if maxScore == 0 {
		return 1
	}
	return float64(score) / float64(maxScore)
}

// Changes returns the number of vertex and edge additions and removals.
func (d *Diff) Changes() int {
	return len(d.Removed) + len(d.Added) + len(d.RemovedEdges) + len(d.AddedEdges)
}

// Identical reports whether the mapping explains both graphs completely.
func (d *Diff) Identical() bool { return d.Changes() == 0 }
