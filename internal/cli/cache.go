package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphdiff/pkg/cache"
)

// cacheCommand groups the local cache maintenance commands. A Redis cache
// configured with redis_url is not touched; its entries expire by TTL.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local result cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show how many results are cached and their size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", strconv.Itoa(n))
				printKeyValue("Size", formatBytes(size))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all cached diffs and artifacts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				if n == 0 {
					printInfo("Cache is empty")
					return nil
				}
				printSuccess("Removed %d cached entries from %s", n, fc.Dir())
				return nil
			},
		},
	)
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache: %w", err)
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c.(*cache.FileCache), nil
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
