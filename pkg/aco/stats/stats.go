// Package stats precomputes read-only facts about a graph pair that agents
// consult while constructing mappings.
package stats

import (
	"cmp"
	"slices"

	"github.com/matzehuels/graphdiff/pkg/graph"
)

// GraphStat holds degrees, label-compatible candidates and a construction
// order for a (minimal, maximal) graph pair. It is immutable after [New]
// and safe for concurrent use by all agents of a colony.
type GraphStat struct {
	minDeg     []int
	maxDeg     []int
	candidates [][]int
	order      []int
}

// New computes statistics for mapping minimal into maximal.
func New(minimal, maximal *graph.Graph) *GraphStat {
	s := &GraphStat{
		minDeg:     degrees(minimal),
		maxDeg:     degrees(maximal),
		candidates: make([][]int, minimal.Size()),
		order:      make([]int, minimal.Size()),
	}

	byLabel := make(map[string][]int)
	for j := range maximal.Size() {
		l := maximal.Label(j)
		byLabel[l] = append(byLabel[l], j)
	}
	for i := range minimal.Size() {
		s.candidates[i] = byLabel[minimal.Label(i)]
		s.order[i] = i
	}

	slices.SortStableFunc(s.order, func(a, b int) int {
		return cmp.Compare(s.minDeg[b], s.minDeg[a])
	})
	return s
}

func degrees(g *graph.Graph) []int {
	d := make([]int, g.Size())
	for v := range d {
		d[v] = g.Degree(v)
	}
	return d
}

// Candidates returns the maximal-graph vertices whose label equals the label
// of minimal vertex i, ascending. The slice must not be modified.
func (s *GraphStat) Candidates(i int) []int { return s.candidates[i] }

// Order returns minimal-graph vertices by descending degree; ties keep index
// order. The slice must not be modified.
func (s *GraphStat) Order() []int { return s.order }

// Heuristic is the a-priori desirability of mapping i to j:
// 1 / (1 + |deg(i) - deg(j)|). It lies in (0, 1] and equals 1 for equal degrees.
func (s *GraphStat) Heuristic(i, j int) float64 {
	d := s.minDeg[i] - s.maxDeg[j]
	if d < 0 {
		d = -d
	}
	return 1 / float64(1+d)
}
