package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphdiff/pkg/aco"
	"github.com/matzehuels/graphdiff/pkg/diff"
	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/observability"
	"github.com/matzehuels/graphdiff/pkg/observability/prom"
)

// diffFlags holds the command-line flags of the diff command.
type diffFlags struct {
	algorithm   string
	agents      int
	iterations  int
	stagnation  int
	seed        uint64
	parallel    bool
	maxExact    int
	formats     string
	output      string
	noCache     bool
	refresh     bool
	redisURL    string
	metricsFile string
	watch       bool
}

// diffRun is a fully resolved diff invocation: config file values with
// flags applied on top.
type diffRun struct {
	opts        diff.Options
	cache       cacheOpts
	output      string
	metricsFile string
	watch       bool
}

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	var flags diffFlags

	cmd := &cobra.Command{
		Use:   "diff <graph1> <graph2>",
		Short: "Align two graphs and write their structural diff",
		Long: `Align two graphs and write their structural diff.

Both graphs are read from node-link JSON or YAML files. The matcher maps the
smaller graph into the larger one, maximizing the number of preserved edges,
and the diff lists matched, removed and added vertices and edges from the
point of view of <graph1>.

Runs with a fixed --seed (and all exact runs) are cached, so repeating the
same diff is instant. With --watch the diff is recomputed whenever either
input file changes, until interrupted.`,
		Example: `  graphdiff diff old.json new.json
  graphdiff diff old.json new.json --seed 42 --format svg -o diff.svg
  graphdiff diff a.yaml b.yaml --algorithm anneal --format json,dot -o out
  graphdiff diff old.json new.json --algorithm exact --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}
			run := resolveDiff(cmd, cfg, flags)
			return c.runDiff(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], run)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.algorithm, "algorithm", "a", diff.AlgorithmACO, "matcher: "+strings.Join(diff.Algorithms, ", "))
	f.IntVar(&flags.agents, "agents", aco.DefaultAgents, "ants per colony iteration")
	f.IntVar(&flags.iterations, "iterations", 0, "iteration limit (default depends on algorithm)")
	f.IntVar(&flags.stagnation, "stagnation", 0, "stop after this many iterations without improvement (default depends on algorithm)")
	f.Uint64Var(&flags.seed, "seed", 0, "random seed; 0 picks a random seed and disables caching")
	f.BoolVar(&flags.parallel, "parallel", false, "evaluate colony agents concurrently")
	f.IntVar(&flags.maxExact, "max-exact-vertices", 0, "largest graph the exact matcher accepts")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): "+strings.Join(diff.Formats, ", ")+" (comma-separated, default text)")
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached results but store new ones")
	f.StringVar(&flags.redisURL, "redis-url", "", "use a Redis cache instead of the local directory")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	f.BoolVarP(&flags.watch, "watch", "w", false, "recompute the diff whenever an input file changes")

	_ = cmd.RegisterFlagCompletionFunc("algorithm", cobra.FixedCompletions(diff.Algorithms, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(diff.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// resolveDiff merges config values with flags. A flag overrides the config
// only when it was given explicitly.
func resolveDiff(cmd *cobra.Command, cfg Config, flags diffFlags) diffRun {
	changed := cmd.Flags().Changed

	run := diffRun{
		opts: diff.Options{
			Algorithm:        cfg.Diff.Algorithm,
			ACO:              cfg.ACO,
			Strategy:         cfg.Pathfinder,
			Anneal:           cfg.Anneal,
			MaxExactVertices: cfg.Exact.MaxVertices,
			Seed:             cfg.Diff.Seed,
			Parallel:         cfg.Diff.Parallel,
			Formats:          cfg.Diff.Formats,
			TTL:              cfg.Cache.TTL,
		},
		cache:       cacheOpts{disabled: cfg.Cache.Disabled, redisURL: cfg.Cache.RedisURL, prefix: cfg.Cache.Prefix},
		output:      flags.output,
		metricsFile: cfg.Metrics.File,
		watch:       flags.watch,
	}
	o := &run.opts

	if changed("algorithm") || o.Algorithm == "" {
		o.Algorithm = flags.algorithm
	}
	if changed("agents") {
		o.ACO.Agents = flags.agents
	}
	if changed("iterations") {
		o.ACO.Iterations = flags.iterations
		o.Anneal.Iterations = flags.iterations
	}
	if changed("stagnation") {
		o.ACO.MaxStagnation = flags.stagnation
		o.Anneal.MaxStagnation = flags.stagnation
	}
	if changed("seed") {
		o.Seed = flags.seed
	}
	if changed("parallel") {
		o.Parallel = flags.parallel
	}
	if changed("max-exact-vertices") {
		o.MaxExactVertices = flags.maxExact
	}
	if changed("format") || len(o.Formats) == 0 {
		o.Formats = parseFormats(flags.formats)
	}
	o.Refresh = flags.refresh
	if changed("no-cache") {
		run.cache.disabled = flags.noCache
	}
	if changed("redis-url") {
		run.cache.redisURL = flags.redisURL
	}
	if changed("metrics-file") {
		run.metricsFile = flags.metricsFile
	}
	return run
}

// runDiff computes the diff once, or repeatedly in watch mode.
func (c *CLI) runDiff(ctx context.Context, stdout io.Writer, path1, path2 string, run diffRun) (err error) {
	if run.metricsFile != "" {
		m := prom.New()
		m.Install()
		defer func() {
			observability.Reset()
			if werr := m.WriteTextfile(run.metricsFile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	runner, err := c.newRunner(ctx, run.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	err = diffOnce(ctx, runner, stdout, path1, path2, run)
	if !run.watch {
		return err
	}
	if err != nil {
		printError("%v", err)
	}

	printInfo("Watching %s and %s for changes (Ctrl+C to stop)", path1, path2)
	return watchFiles(ctx, []string{path1, path2}, watchDebounce, func() {
		if err := diffOnce(ctx, runner, stdout, path1, path2, run); err != nil {
			printError("%v", err)
		}
	})
}

// diffOnce loads both graphs, runs the matcher and writes the artifacts.
func diffOnce(ctx context.Context, runner *diff.Runner, stdout io.Writer, path1, path2 string, run diffRun) error {
	logger := loggerFromContext(ctx)

	g1, err := readGraph(path1)
	if err != nil {
		return err
	}
	g2, err := readGraph(path2)
	if err != nil {
		return err
	}
	logger.Debug("loaded graphs",
		"g1", path1, "g1_nodes", g1.Size(), "g1_arcs", g1.EdgeCount(),
		"g2", path2, "g2_nodes", g2.Size(), "g2_arcs", g2.EdgeCount())

	opts := run.opts
	opts.Logger = logger
	spinner := newSpinner(ctx, fmt.Sprintf("Matching with %s...", opts.Algorithm))
	opts.Progress = func(it aco.Iteration) {
		spinner.Update(fmt.Sprintf("Matching with %s... iteration %d, best score %d", opts.Algorithm, it.Index+1, it.BestScore))
	}
	spinner.Start()

	prog := newProgress(logger)
	res, err := runner.Run(ctx, g1, g2, opts)
	if err != nil {
		spinner.StopWithError("Diff failed")
		return fmt.Errorf("diff: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Matched %d/%d vertices in %d iterations", len(res.Diff.Matched), min(g1.Size(), g2.Size()), res.Stats.Iterations))

	printDiffSummary(res.Diff, res.CacheHit)
	paths, err := writeArtifacts(stdout, res.Artifacts, opts.Formats, path1, path2, run.output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func readGraph(path string) (*graph.Graph, error) {
	if err := gderrors.ValidateGraphPath(path); err != nil {
		return nil, err
	}
	g, err := graph.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// =============================================================================
// Output
// =============================================================================

// extensions maps artifact formats to file extensions.
var extensions = map[string]string{
	diff.FormatText: "txt",
	diff.FormatJSON: "json",
	diff.FormatDOT:  "dot",
	diff.FormatSVG:  "svg",
	diff.FormatPNG:  "png",
}

// binaryFormat reports whether a format should never go to a terminal.
func binaryFormat(format string) bool { return format == diff.FormatPNG }

// writeArtifacts writes the rendered formats and returns the file paths it
// created. A single textual format without -o goes to stdout.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, path1, path2, output string) ([]string, error) {
	if len(formats) == 1 && output == "" && !binaryFormat(formats[0]) {
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	base := basePath(output, path1, path2)
	for _, format := range formats {
		path := base + "." + extensions[format]
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output path stem. Without -o it is
// "<graph1>_vs_<graph2>" next to the first graph; a known format extension
// on -o is stripped.
func basePath(output, path1, path2 string) string {
	if output == "" {
		stem := func(p string) string {
			return strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		return filepath.Join(filepath.Dir(path1), stem(path1)+"_vs_"+stem(path2))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, known := range extensions {
		if ext == known {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}
