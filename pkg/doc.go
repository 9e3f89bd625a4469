// Package pkg provides the core libraries for graphdiff structural graph
// comparison.
//
// # Overview
//
// graphdiff aligns two labeled graphs by searching for a mapping from the
// smaller graph into the larger one that preserves as many edges as
// possible, then reports what changed. The pkg directory is organized into
// four areas:
//
//  1. Model: [graph], [mapping], [score]
//  2. Search: [match], [aco] and its strategy packages, [anneal], [exact]
//  3. Output: [diff]
//  4. Infrastructure: [cache], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	graph files (JSON/YAML)
//	         ↓
//	    [graph] package (validated, sorted adjacency)
//	         ↓
//	    [match.Matcher] (aco, anneal or exact)
//	         ↓
//	    [diff] package (matched/removed/added, rendering)
//	         ↓
//	    text/JSON/DOT/SVG/PNG output
//
// # Quick Start
//
//	g1, _ := graph.ReadFile("old.json")
//	g2, _ := graph.ReadFile("new.yaml")
//
//	colony := &aco.Colony{Strategy: pathfinder.NewStrategy(), Seed: 42}
//	res, _ := colony.Match(ctx, g1, g2)
//
//	d := diff.Compute(g1, g2, res)
//	diff.WriteText(os.Stdout, d)
//
// [diff.Runner] adds caching, run IDs and observability on top.
//
// # Main Packages
//
// [aco] - Ant colony orchestrator. Agents construct candidate mappings each
// iteration; the iteration best reinforces a shared pheromone table with a
// reward that shrinks as it falls behind the global best.
//
// [aco/pathfinder] - Default agents: roulette-wheel construction over
// pheromone trails and a degree/adjacency heuristic.
//
// [aco/pheromone] - Assignment-keyed trail table with evaporation and
// min/max bounds.
//
// [anneal] - Simulated annealing over label-preserving swaps.
//
// [exact] - Branch and bound for small graphs; the reference optimum in tests.
//
// [cache] - File, Redis and null caches for reproducible runs.
//
// [observability] - Hooks for searches, runs and cache access, with a
// Prometheus implementation in observability/prom.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/graph
// [mapping]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/mapping
// [score]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/score
// [match]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/match
// [match.Matcher]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/match#Matcher
// [aco]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/aco
// [aco/pathfinder]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/aco/pathfinder
// [aco/pheromone]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/aco/pheromone
// [anneal]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/anneal
// [exact]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/exact
// [diff]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/diff
// [diff.Runner]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/diff#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphdiff/pkg/buildinfo
package pkg
