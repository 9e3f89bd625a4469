package graph

import (
	"errors"
	"iter"
	"slices"
	"strconv"

	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
)

var (
	// ErrVertexOutOfRange is returned by [Graph.Validate] when an adjacency
	// list references a vertex index outside 0..Size()-1.
	ErrVertexOutOfRange = errors.New("neighbor index out of range")

	// ErrUnsortedAdjacency is returned by [Graph.Validate] when an adjacency
	// list is not in ascending order. Neighbor lookups use binary search, so
	// an unsorted list would silently lose matches during scoring.
	ErrUnsortedAdjacency = errors.New("adjacency list not sorted ascending")

	// ErrDuplicateNeighbor is returned by [Graph.Validate] when the same
	// neighbor appears twice in one adjacency list.
	ErrDuplicateNeighbor = errors.New("duplicate neighbor")

	// ErrDuplicateID is returned when two vertices share an ID.
	ErrDuplicateID = errors.New("duplicate vertex ID")

	// ErrUnknownVertex is returned by [Builder.AddEdge] when an endpoint
	// has not been added with [Builder.AddNode].
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrInvalidVertexID is returned by [Builder.AddNode] for empty IDs.
	ErrInvalidVertexID = errors.New("vertex ID must not be empty")
)

// Graph is an immutable graph over vertices 0..Size()-1.
//
// Each vertex carries a unique string ID and an optional label. Labels
// partition vertices into classes; matchers only pair vertices whose
// labels agree. Adjacency lists hold outgoing neighbor indices in ascending
// order. Undirected graphs store every edge in both directions.
//
// The zero value is an empty graph. Graph is safe for concurrent reads.
type Graph struct {
	ids      []string
	labels   []string
	adj      [][]int
	index    map[string]int
	directed bool
}

// New creates a graph from raw adjacency lists without validating them.
//
// ids and labels may be nil; missing IDs default to the decimal vertex index
// and missing labels to the empty string. The slices are retained, not copied.
// Call [Graph.Validate] before handing the result to a matcher.
func New(ids, labels []string, adj [][]int) *Graph {
	n := len(adj)
	if ids == nil {
		ids = make([]string, n)
		for i := range ids {
			ids[i] = strconv.Itoa(i)
		}
	}
	if labels == nil {
		labels = make([]string, n)
	}
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}
	return &Graph{ids: ids, labels: labels, adj: adj, index: index, directed: true}
}

// Size returns the number of vertices.
func (g *Graph) Size() int { return len(g.adj) }

// Directed reports whether edges were added in one direction only.
func (g *Graph) Directed() bool { return g.directed }

// Neighbors returns the sorted adjacency list of v. The slice must not be modified.
func (g *Graph) Neighbors(v int) []int { return g.adj[v] }

// Degree returns the number of stored neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// HasEdge reports whether w appears in v's adjacency list.
// It relies on the list being sorted; see [Graph.Validate].
func (g *Graph) HasEdge(v, w int) bool {
	_, found := slices.BinarySearch(g.adj[v], w)
	return found
}

// ID returns the string identifier of vertex v.
func (g *Graph) ID(v int) string { return g.ids[v] }

// Label returns the label of vertex v, or "" if unlabeled.
func (g *Graph) Label(v int) string { return g.labels[v] }

// Index returns the vertex index for id.
func (g *Graph) Index(id string) (int, bool) {
	v, ok := g.index[id]
	return v, ok
}

// EdgeCount returns the number of stored arcs. For undirected graphs each
// edge is counted once per direction.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, ns := range g.adj {
		total += len(ns)
	}
	return total
}

// Arcs iterates over every stored (from, to) pair in vertex order.
func (g *Graph) Arcs() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for v, ns := range g.adj {
			for _, w := range ns {
				if !yield(v, w) {
					return
				}
			}
		}
	}
}

// Validate checks the structural invariants matchers depend on: unique IDs,
// in-range neighbors, and strictly ascending adjacency lists.
//
// The returned error carries a [gderrors.Code] and wraps one of the package
// sentinel errors, so both errors.Is and gderrors.Is work.
func (g *Graph) Validate() error {
	if len(g.ids) != len(g.adj) || len(g.labels) != len(g.adj) {
		return gderrors.New(gderrors.ErrCodeInvalidGraph,
			"%d vertices but %d ids and %d labels", len(g.adj), len(g.ids), len(g.labels))
	}
	if len(g.index) != len(g.ids) {
		return gderrors.Wrap(gderrors.ErrCodeInvalidGraph, ErrDuplicateID, "%d ids, %d distinct", len(g.ids), len(g.index))
	}
	n := len(g.adj)
	for v, ns := range g.adj {
		for k, w := range ns {
			if w < 0 || w >= n {
				return gderrors.Wrap(gderrors.ErrCodeInvalidGraph, ErrVertexOutOfRange, "vertex %d: neighbor %d (size %d)", v, w, n)
			}
			if k == 0 {
				continue
			}
			switch prev := ns[k-1]; {
			case prev == w:
				return gderrors.Wrap(gderrors.ErrCodeInvalidGraph, ErrDuplicateNeighbor, "vertex %d: neighbor %d", v, w)
			case prev > w:
				return gderrors.Wrap(gderrors.ErrCodeUnsortedAdjacency, ErrUnsortedAdjacency, "vertex %d: %d before %d", v, prev, w)
			}
		}
	}
	return nil
}
