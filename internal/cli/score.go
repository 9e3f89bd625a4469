package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/mapping"
	"github.com/matzehuels/graphdiff/pkg/score"
)

// scoreCommand creates the score command.
func (c *CLI) scoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <graph1> <graph2> <mapping.json>",
		Short: "Evaluate a mapping between two graphs",
		Long: `Evaluate a mapping from <graph1> into <graph2>.

The mapping file is either a JSON array with one entry per vertex of
<graph1> (the index of its target in <graph2>, or null), or a JSON object
mapping vertex IDs of <graph1> to vertex IDs of <graph2>.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g1, err := readGraph(args[0])
			if err != nil {
				return err
			}
			g2, err := readGraph(args[1])
			if err != nil {
				return err
			}
			m, err := readMapping(args[2], g1, g2)
			if err != nil {
				return err
			}

			f := score.Evaluate(g1, g2, m)
			maxScore := min(g1.EdgeCount(), g2.EdgeCount())
			printKeyValue("edges", fmt.Sprintf("%d/%d", f.Edges, maxScore))
			printKeyValue("nodes", fmt.Sprintf("%d/%d", f.Nodes, g1.Size()))
			printKeyValue("injective", strconv.FormatBool(m.IsInjective()))
			if !m.IsInjective() {
				printWarning("several vertices share a target; diffs assume one-to-one mappings")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f.Edges)
			return err
		},
	}
}

// readMapping loads a mapping file in index or ID form and checks it
// against both graphs.
func readMapping(path string, g1, g2 *graph.Graph) (mapping.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mapping.Mapping{}, gderrors.Wrap(gderrors.ErrCodeFileNotFound, err, "read mapping %s", path)
	}

	var m mapping.Mapping
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		m, err = mappingFromIDs(trimmed, g1, g2)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return mapping.Mapping{}, gderrors.Wrap(gderrors.ErrCodeInvalidMapping, err, "parse mapping %s", path)
	}

	if m.Len() != g1.Size() {
		return mapping.Mapping{}, gderrors.New(gderrors.ErrCodeInvalidMapping,
			"mapping %s has %d entries, the first graph has %d vertices", path, m.Len(), g1.Size())
	}
	if err := m.Validate(g2.Size()); err != nil {
		return mapping.Mapping{}, gderrors.Wrap(gderrors.ErrCodeInvalidMapping, err, "mapping %s", path)
	}
	return m, nil
}

func mappingFromIDs(data []byte, g1, g2 *graph.Graph) (mapping.Mapping, error) {
	var pairs map[string]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return mapping.Mapping{}, err
	}
	m := mapping.New(g1.Size())
	for from, to := range pairs {
		u, ok := g1.Index(from)
		if !ok {
			return mapping.Mapping{}, fmt.Errorf("%w: %s", graph.ErrUnknownVertex, from)
		}
		v, ok := g2.Index(to)
		if !ok {
			return mapping.Mapping{}, fmt.Errorf("%w: %s", graph.ErrUnknownVertex, to)
		}
		m.Assign(u, v)
	}
	return m, nil
}
