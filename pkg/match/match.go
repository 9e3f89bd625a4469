// Package match defines the contract shared by all graph matchers.
//
// A matcher searches for a mapping from the smaller of two graphs into the
// larger one. [Orient] fixes that direction so scores and pheromone keys do
// not depend on argument order; [Result.Swapped] records whether the caller's
// first graph was the larger one.
package match

import (
	"context"

	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

// Matcher approximates a best structural alignment between two graphs.
type Matcher interface {
	// Name identifies the algorithm in logs, cache keys and metrics.
	Name() string
	// Match returns a mapping from the smaller graph into the larger one.
	// Implementations validate both graphs before searching.
	Match(ctx context.Context, g1, g2 *graph.Graph) (*Result, error)
}

// Result is the outcome of one matcher run.
type Result struct {
	// Mapping maps vertices of the smaller graph to the larger graph.
	// Its length equals the smaller graph's size.
	Mapping mapping.Mapping `json:"mapping"`

	// Score is the edge score of Mapping, see package score.
	Score int `json:"score"`

	// Swapped is true when g2 was strictly smaller than g1, so Mapping
	// runs from g2 to g1.
	Swapped bool `json:"swapped,omitempty"`

	// Iterations is the number of completed search iterations.
	Iterations int `json:"iterations"`

	// Stagnated is true when the search stopped early because the best
	// score did not improve for the configured number of iterations.
	Stagnated bool `json:"stagnated,omitempty"`
}

// Orient returns the graph with fewer-or-equal vertices first. swapped is
// true when g2 is strictly smaller than g1; on equal sizes g1 is minimal.
func Orient(g1, g2 *graph.Graph) (minimal, maximal *graph.Graph, swapped bool) {
	if g1.Size() <= g2.Size() {
		return g1, g2, false
	}
	return g2, g1, true
}

// Validate runs [graph.Graph.Validate] on both inputs.
func Validate(g1, g2 *graph.Graph) error {
	if err := g1.Validate(); err != nil {
		return err
	}
	return g2.Validate()
}
