package diff

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText writes d in a line-oriented format similar to unified diffs:
//
//	= a -> x
//	- b
//	+ y
//	- a -- b
//	+ x -- y
//
// Directed edges use "->" between endpoints, undirected edges "--".
func WriteText(w io.Writer, d *Diff) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# score %d/%d (similarity %.3f)\n", d.Score, d.MaxScore, d.Similarity)
	for _, p := range d.Matched {
		if p.From == p.To {
			fmt.Fprintf(bw, "= %s\n", p.From)
		} else {
			fmt.Fprintf(bw, "= %s -> %s\n", p.From, p.To)
		}
	}
	for _, id := range d.Removed {
		fmt.Fprintf(bw, "- %s\n", id)
	}
	for _, id := range d.Added {
		fmt.Fprintf(bw, "+ %s\n", id)
	}

	arrow := "--"
	if d.Directed {
		arrow = "->"
	}
	for _, e := range d.RemovedEdges {
		fmt.Fprintf(bw, "- %s %s %s\n", e.From, arrow, e.To)
	}
	for _, e := range d.AddedEdges {
		fmt.Fprintf(bw, "+ %s %s %s\n", e.From, arrow, e.To)
	}
	return bw.Flush()
}
