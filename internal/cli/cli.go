package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphdiff/pkg/buildinfo"
	"github.com/matzehuels/graphdiff/pkg/cache"
	"github.com/matzehuels/graphdiff/pkg/diff"
	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphdiff"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

// Log levels accepted by [New] and [CLI.SetLogLevel].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags shared by all commands.
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "graphdiff aligns two graphs and reports what changed",
		Long:          `graphdiff approximates the best structural alignment between two labeled graphs with an ant colony search (or simulated annealing, or exact search for small graphs) and reports matched, removed and added vertices and edges.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphdiff/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.diffCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOpts selects the cache backend for a run.
type cacheOpts struct {
	disabled bool
	redisURL string
	prefix   string
}

// newRunner creates a diff runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOpts) (*diff.Runner, error) {
	cc, err := c.newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.prefix)
	}
	return diff.NewRunner(cc, keyer, c.Logger), nil
}

// newCache picks Redis when a URL is given, otherwise the local file cache.
// A missing home directory silently disables caching.
func (c *CLI) newCache(ctx context.Context, opts cacheOpts) (cache.Cache, error) {
	if opts.disabled {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		c.Logger.Debug("using redis cache", "url", redactURL(opts.redisURL))
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, gderrors.Wrap(gderrors.ErrCodeCacheBackend, err, "connect to %s", redactURL(opts.redisURL))
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("caching disabled", "reason", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphdiff/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/graphdiff/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{diff.FormatText}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
