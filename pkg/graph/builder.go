package graph

import (
	"fmt"
	"slices"
)

// Builder accumulates vertices and edges and produces a validated [Graph].
//
// Vertices are indexed in insertion order. Edges between unknown vertices are
// rejected. Unless Directed is set, every edge is stored in both directions.
// Duplicate edges and self loops are kept once.
//
// The zero value is ready to use. Builder is not safe for concurrent use.
type Builder struct {
	// Directed disables the automatic reverse arc for every edge.
	Directed bool

	ids    []string
	labels []string
	index  map[string]int
	adj    [][]int
}

// NewBuilder returns a builder for a directed or undirected graph.
func NewBuilder(directed bool) *Builder {
	return &Builder{Directed: directed}
}

// AddNode adds a vertex with the given ID and label and returns its index.
func (b *Builder) AddNode(id, label string) (int, error) {
	if id == "" {
		return 0, ErrInvalidVertexID
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if _, ok := b.index[id]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	v := len(b.ids)
	b.ids = append(b.ids, id)
	b.labels = append(b.labels, label)
	b.adj = append(b.adj, nil)
	b.index[id] = v
	return v, nil
}

// AddEdge connects two previously added vertices by ID.
func (b *Builder) AddEdge(from, to string) error {
	u, ok := b.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, from)
	}
	v, ok := b.index[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, to)
	}
	b.adj[u] = append(b.adj[u], v)
	if !b.Directed && u != v {
		b.adj[v] = append(b.adj[v], u)
	}
	return nil
}

// Build sorts and deduplicates all adjacency lists and returns the graph.
// The builder may be reused afterwards; later additions do not affect the
// returned graph.
func (b *Builder) Build() (*Graph, error) {
	adj := make([][]int, len(b.adj))
	for v, ns := range b.adj {
		sorted := slices.Clone(ns)
		slices.Sort(sorted)
		adj[v] = slices.Compact(sorted)
	}
	g := New(slices.Clone(b.ids), slices.Clone(b.labels), adj)
	g.directed = b.Directed
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
