// Package score evaluates candidate mappings between two graphs.
//
// The edge score counts preserved adjacencies in the direction they are
// stored: for every assigned source vertex u, every neighbor v of u that is
// also assigned contributes one point when g2 has the arc
// mapping(u) → mapping(v). An undirected edge whose adjacency is stored both
// ways therefore contributes two points. Absolute scores stay comparable
// across runs only if this counting is kept.
package score

import (
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

// Score returns the number of g1 arcs preserved under m in g2.
//
// Unassigned vertices contribute nothing. Lookups in g2 use binary search,
// so g2's adjacency lists must be sorted; on unsorted input the result can
// only be lower than the true count, never higher. Callers that accept
// untrusted graphs should run [graph.Graph.Validate] first.
//
// Complexity is O(sum of degrees of assigned g1 vertices × log degree).
func Score(g1, g2 *graph.Graph, m mapping.Mapping) int {
	total := 0
	for first := range g1.Size() {
		second, ok := m.Target(first)
		if !ok {
			continue
		}
		for _, n := range g1.Neighbors(first) {
			mapped, ok := m.Target(n)
			if ok && g2.HasEdge(second, mapped) {
				total++
			}
		}
	}
	return total
}

// Nodes returns the number of assigned source vertices.
func Nodes(m mapping.Mapping) int { return m.Mapped() }

// Fitness pairs the edge score with the node count.
type Fitness struct {
	Edges int `json:"edges"`
	Nodes int `json:"nodes"`
}

// Evaluate computes both components of the fitness of m.
func Evaluate(g1, g2 *graph.Graph, m mapping.Mapping) Fitness {
	return Fitness{Edges: Score(g1, g2, m), Nodes: Nodes(m)}
}

// Less orders fitness values by edge score, then by node count.
func (f Fitness) Less(o Fitness) bool {
	if f.Edges != o.Edges {
		return f.Edges < o.Edges
	}
	return f.Nodes < o.Nodes
}
