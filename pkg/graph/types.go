package graph

import (
	"fmt"
)

// =============================================================================
// Document - Graph Serialization
// =============================================================================

// Document is the canonical serialization format for input graphs.
// The same structure is used for JSON and YAML files.
//
// Node order in the document fixes vertex indices: the i-th node becomes
// vertex i. Edge order is irrelevant because adjacency lists are sorted on
// import.
type Document struct {
	Directed bool   `json:"directed,omitempty" yaml:"directed,omitempty"`
	Nodes    []Node `json:"nodes" yaml:"nodes"`
	Edges    []Edge `json:"edges" yaml:"edges"`
}

// Node is a serialized vertex.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"` // Matching class (empty matches only empty)
}

// Edge is a serialized edge. For undirected documents From and To are
// interchangeable.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// =============================================================================
// Document ↔ Graph Conversion
// =============================================================================

// FromDocument builds a validated Graph from its serialized form.
func FromDocument(doc Document) (*Graph, error) {
	b := NewBuilder(doc.Directed)
	for _, n := range doc.Nodes {
		if _, err := b.AddNode(n.ID, n.Label); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := b.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.From, e.To, err)
		}
	}
	return b.Build()
}

// ToDocument converts a Graph to its serialized form.
// Undirected graphs emit each edge once, from the lower to the higher index.
func ToDocument(g *Graph) Document {
	doc := Document{
		Directed: g.directed,
		Nodes:    make([]Node, g.Size()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
	}
	for v := range g.Size() {
		doc.Nodes[v] = Node{ID: g.ID(v), Label: g.Label(v)}
	}
	for v, w := range g.Arcs() {
		if !g.directed && w < v {
			continue
		}
		doc.Edges = append(doc.Edges, Edge{From: g.ID(v), To: g.ID(w)})
	}
	return doc
}
