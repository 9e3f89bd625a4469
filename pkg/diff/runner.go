package diff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphdiff/pkg/aco"
	"github.com/matzehuels/graphdiff/pkg/aco/pathfinder"
	"github.com/matzehuels/graphdiff/pkg/anneal"
	"github.com/matzehuels/graphdiff/pkg/cache"
	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/exact"
	"github.com/matzehuels/graphdiff/pkg/graph"
	"github.com/matzehuels/graphdiff/pkg/match"
	"github.com/matzehuels/graphdiff/pkg/observability"
)

// Algorithms accepted by [Options.Algorithm].
const (
	AlgorithmACO    = aco.Name
	AlgorithmAnneal = anneal.Name
	AlgorithmExact  = exact.Name
)

// Artifact formats accepted by [Options.Formats].
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// Algorithms lists the supported algorithm names.
var Algorithms = []string{AlgorithmACO, AlgorithmAnneal, AlgorithmExact}

// Formats lists the supported artifact formats.
var Formats = []string{FormatText, FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// DefaultTTL is how long cached diffs and artifacts live.
const DefaultTTL = 7 * 24 * time.Hour

// Options configure one diff run.
type Options struct {
	// Algorithm selects the matcher. Empty means "aco".
	Algorithm string

	ACO      aco.Params
	Strategy pathfinder.Strategy
	Anneal   anneal.Params

	// MaxExactVertices bounds the exact matcher. Zero uses its default.
	MaxExactVertices int

	// Seed pins the random source. Runs are cached only with a non-zero seed.
	Seed uint64

	// Parallel runs colony agents concurrently.
	Parallel bool

	// Formats lists the artifacts to render.
	Formats []string

	// Refresh skips cache reads but still writes results.
	Refresh bool

	// TTL overrides DefaultTTL.
	TTL time.Duration

	// Progress receives colony iterations; ignored by other algorithms.
	Progress func(aco.Iteration)

	Logger *log.Logger
}

// ValidateAndSetDefaults fills defaults and checks option values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmACO
	}
	if !slices.Contains(Algorithms, o.Algorithm) {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q (must be one of: %v)", o.Algorithm, Algorithms)
	}
	for _, f := range o.Formats {
		if err := errors.ValidateOutputFormat(f, Formats...); err != nil {
			return err
		}
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	o.ACO = o.ACO.WithDefaults()
	o.Strategy = o.Strategy.WithDefaults()
	o.Anneal = o.Anneal.WithDefaults()
	if err := o.ACO.Validate(); err != nil {
		return err
	}
	if err := o.Strategy.Validate(); err != nil {
		return err
	}
	return o.Anneal.Validate()
}

// keyParams returns the parameters that influence the selected algorithm.
func (o *Options) keyParams() any {
	switch o.Algorithm {
	case AlgorithmAnneal:
		return o.Anneal
	case AlgorithmExact:
		return nil
	default:
		return struct {
			Params   aco.Params          `json:"params"`
			Strategy pathfinder.Strategy `json:"strategy"`
		}{o.ACO, o.Strategy}
	}
}

// Stats records timings of a run.
type Stats struct {
	MatchTime  time.Duration `json:"match_time"`
	RenderTime time.Duration `json:"render_time"`
	Iterations int           `json:"iterations"`
}

// Result is the outcome of [Runner.Run].
type Result struct {
	RunID     string            `json:"run_id"`
	Algorithm string            `json:"algorithm"`
	Match     *match.Result     `json:"match"`
	Diff      *Diff             `json:"diff"`
	Artifacts map[string][]byte `json:"-"`
	Stats     Stats             `json:"stats"`
	CacheHit  bool              `json:"cache_hit"`
}

// Runner executes diff runs with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Matcher returns the matcher selected by opts.
func Matcher(opts Options) (match.Matcher, error) {
	switch opts.Algorithm {
	case AlgorithmACO, "":
		return &aco.Colony{
			Strategy: opts.Strategy,
			Params:   opts.ACO,
			Seed:     opts.Seed,
			Parallel: opts.Parallel,
			Progress: opts.Progress,
			Logger:   opts.Logger,
		}, nil
	case AlgorithmAnneal:
		return &anneal.Annealer{Params: opts.Anneal, Seed: opts.Seed, Logger: opts.Logger}, nil
	case AlgorithmExact:
		return &exact.Searcher{MaxVertices: opts.MaxExactVertices, Logger: opts.Logger}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q", opts.Algorithm)
}

// Run matches g1 against g2, computes the diff and renders the requested
// formats.
func (r *Runner) Run(ctx context.Context, g1, g2 *graph.Graph, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	runID := uuid.NewString()
	hit := false
	start := time.Now()
	hooks := observability.Run()
	hooks.OnRunStart(ctx, runID, opts.Algorithm)
	defer func() {
		hooks.OnRunComplete(ctx, runID, opts.Algorithm, hit, time.Since(start), err)
	}()

	key, cacheable, err := r.diffKey(g1, g2, opts)
	if err != nil {
		return nil, err
	}

	matchStart := time.Now()
	var m *match.Result
	m, hit = r.cachedMatch(ctx, key, cacheable && !opts.Refresh)
	if m == nil {
		matcher, err := Matcher(opts)
		if err != nil {
			return nil, err
		}
		m, err = matcher.Match(ctx, g1, g2)
		if err != nil {
			return nil, err
		}
		if cacheable {
			r.store(ctx, key, "diff", m, opts.TTL)
		}
	}
	res = &Result{RunID: runID, Algorithm: opts.Algorithm, Match: m, CacheHit: hit}
	res.Stats.MatchTime = time.Since(matchStart)
	res.Stats.Iterations = m.Iterations
	res.Diff = Compute(g1, g2, m)

	r.Logger.Info("matched graphs",
		"run", res.RunID,
		"algorithm", opts.Algorithm,
		"score", m.Score,
		"iterations", m.Iterations,
		"cached", hit,
		"duration", res.Stats.MatchTime)

	renderStart := time.Now()
	res.Artifacts, err = r.renderAll(ctx, res.Diff, opts, key, cacheable)
	if err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(renderStart)
	if len(opts.Formats) > 0 {
		r.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", res.Stats.RenderTime)
	}
	return res, nil
}

// diffKey hashes both graphs and the options. cacheable is false when the
// run is not reproducible.
func (r *Runner) diffKey(g1, g2 *graph.Graph, opts Options) (string, bool, error) {
	if opts.Seed == 0 && opts.Algorithm != AlgorithmExact {
		return "", false, nil
	}
	h1, err := cache.HashJSON(graph.ToDocument(g1))
	if err != nil {
		return "", false, fmt.Errorf("first graph: %w", err)
	}
	h2, err := cache.HashJSON(graph.ToDocument(g2))
	if err != nil {
		return "", false, fmt.Errorf("second graph: %w", err)
	}
	key := r.Keyer.DiffKey(h1, h2, cache.DiffKeyOpts{
		Algorithm: opts.Algorithm,
		Seed:      opts.Seed,
		Params:    opts.keyParams(),
	})
	return key, true, nil
}

func (r *Runner) cachedMatch(ctx context.Context, key string, read bool) (*match.Result, bool) {
	if !read {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "diff")
		return nil, false
	}
	var m match.Result
	if err := json.Unmarshal(data, &m); err != nil {
		r.Logger.Debug("discarding corrupt cache entry", "key", key, "error", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "diff")
	return &m, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	var data []byte
	switch b := v.(type) {
	case []byte:
		data = b
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			r.Logger.Warn("cache encode failed", "error", err)
			return
		}
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) renderAll(ctx context.Context, d *Diff, opts Options, key string, cacheable bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var artifactKey string
		if cacheable {
			artifactKey = r.Keyer.ArtifactKey(key, format)
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, artifactKey); err == nil && hit {
					observability.Cache().OnCacheHit(ctx, "artifact")
					artifacts[format] = data
					continue
				}
				observability.Cache().OnCacheMiss(ctx, "artifact")
			}
		}

		start := time.Now()
		data, err := Render(ctx, d, format)
		observability.Run().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "render %s", format)
		}
		artifacts[format] = data
		if cacheable {
			r.store(ctx, artifactKey, "artifact", data, opts.TTL)
		}
	}
	return artifacts, nil
}

// Render produces one artifact format for d.
func Render(ctx context.Context, d *Diff, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatText:
		var buf bytes.Buffer
		err := WriteText(&buf, d)
		return buf.Bytes(), err
	case FormatDOT:
		return []byte(ToDOT(d)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(d))
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(d))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
