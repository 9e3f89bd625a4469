// Package graph provides the immutable graph representation matched by
// graphdiff, together with its node-link serialization format.
//
// # Representation
//
// A [Graph] has vertices 0..Size()-1. Every vertex has a unique string ID,
// an optional label, and an adjacency list of neighbor indices stored in
// ascending order. The sorted order is load-bearing: [Graph.HasEdge] and the
// fitness evaluator use binary search, so an unsorted list silently loses
// matches. [Graph.Validate] rejects such input with
// [ErrUnsortedAdjacency] (code UNSORTED_ADJACENCY).
//
// Graphs are usually created with a [Builder], which sorts and deduplicates
// adjacency lists:
//
//	b := graph.NewBuilder(false) // undirected
//	b.AddNode("a", "task")
//	b.AddNode("b", "task")
//	b.AddEdge("a", "b")
//	g, err := b.Build()
//
// [New] wraps raw adjacency lists as given and is meant for callers that
// already hold canonical data (or for tests that need malformed input).
//
// # Serialization
//
// Graphs use a node-link document, in JSON or YAML:
//
//	{
//	  "directed": false,
//	  "nodes": [{"id": "a", "label": "task"}, {"id": "b", "label": "task"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("before.yaml")   // File → Graph (by extension)
//	graph.WriteFile(g, "after.json")        // Graph → File
//	data, _ := graph.Marshal(g)             // Graph → JSON bytes
//
// # Concurrency
//
// A built Graph is never mutated and is safe for concurrent reads.
package graph
