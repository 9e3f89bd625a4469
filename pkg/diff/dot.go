package diff

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Fill colors for diff nodes.
const (
	colorMatched = "white"
	colorRemoved = "#f8d7da"
	colorAdded   = "#d4edda"
	colorChanged = "#fff3cd"
)

// Edge colors.
const (
	edgeRemoved = "#c0392b"
	edgeAdded   = "#27ae60"
)

// ToDOT converts a diff to Graphviz DOT source showing both graphs overlaid.
// Matched vertices are drawn once (yellow when their IDs differ), removed
// vertices and edges in red, added ones in green.
func ToDOT(d *Diff) string {
	var buf bytes.Buffer
	kind, arrow := "graph", "--"
	if d.Directed {
		kind, arrow = "digraph", "->"
	}
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	// g2 IDs resolve to the first g1 node they were matched with. Pairs
	// sharing a g1 vertex are adjacent in d.Matched and drawn as one node.
	g2Node := make(map[string]string, len(d.Matched)+len(d.Added))
	for k := 0; k < len(d.Matched); {
		from := d.Matched[k].From
		var targets []string
		for ; k < len(d.Matched) && d.Matched[k].From == from; k++ {
			to := d.Matched[k].To
			if _, ok := g2Node[to]; !ok {
				g2Node[to] = "g1:" + from
			}
			targets = append(targets, to)
		}
		label, fill := from, colorMatched
		if len(targets) > 1 || targets[0] != from {
			label, fill = from+" → "+strings.Join(targets, ", "), colorChanged
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", "g1:"+from, label, fill)
	}
	for _, id := range d.Removed {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, style=\"rounded,filled,dashed\"];\n", "g1:"+id, id, colorRemoved)
	}
	for _, id := range d.Added {
		name := "g2:" + id
		g2Node[id] = name
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", name, id, colorAdded)
	}

	buf.WriteString("\n")
	for _, e := range d.CommonEdges {
		fmt.Fprintf(&buf, "  %q %s %q;\n", "g1:"+e.From, arrow, "g1:"+e.To)
	}
	for _, e := range d.RemovedEdges {
		fmt.Fprintf(&buf, "  %q %s %q [color=%q, style=dashed];\n", "g1:"+e.From, arrow, "g1:"+e.To, edgeRemoved)
	}
	for _, e := range d.AddedEdges {
		fmt.Fprintf(&buf, "  %q %s %q [color=%q, penwidth=2];\n", g2Node[e.From], arrow, g2Node[e.To], edgeAdded)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT source to PNG using the embedded Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
