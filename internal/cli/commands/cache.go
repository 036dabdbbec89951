package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackbackhq/stackback/pkg/cachescan"
)

// CacheOptions holds options shared by the cache subcommands.
type CacheOptions struct {
	Dir string
}

// NewCacheCommand creates the cache command with its subcommands.
func NewCacheCommand() *cobra.Command {
	opts := &CacheOptions{}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage saved reports",
		Long: `Manage the report cache.

Results saved with 'normalize --save' land in a per-user cache
directory as timestamped JSON files. 'cache list' shows what is there
and how much space it takes; 'cache clear' removes everything.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "Cache directory (default: user cache dir)")

	cmd.AddCommand(newCacheListCommand(opts))
	cmd.AddCommand(newCacheClearCommand(opts))

	return cmd
}

func newCacheListCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runCacheList(ctx, opts)
		},
	}
}

func newCacheClearCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(opts)
		},
	}
}

func runCacheList(ctx context.Context, opts *CacheOptions) error {
	dir, err := cacheDir(opts)
	if err != nil {
		return err
	}

	stats, err := cachescan.Scan(ctx, dir)
	if err != nil {
		return fmt.Errorf("scanning cache: %w", err)
	}

	fmt.Printf("Report cache: %s\n", stats.Root)
	fmt.Println()

	if len(stats.Entries) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	fmt.Printf("%-44s %6s  %9s  %s\n", "NAME", "FILES", "SIZE", "MODIFIED")
	for _, e := range stats.Entries {
		fmt.Printf("%-44s %6d  %9s  %s\n",
			e.Name, e.Files, cachescan.HumanSize(e.Size), e.ModTime.Format("2006-01-02 15:04:05"))
	}

	fmt.Println()
	fmt.Printf("Total: %d entries, %d files, %s\n",
		len(stats.Entries), stats.TotalFiles, cachescan.HumanSize(stats.TotalSize))

	return nil
}

func runCacheClear(opts *CacheOptions) error {
	dir, err := cacheDir(opts)
	if err != nil {
		return err
	}

	removed, err := cachescan.Clear(dir)
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Printf("Removed %d entries from %s\n", removed, dir)
	return nil
}

func cacheDir(opts *CacheOptions) (string, error) {
	if opts.Dir != "" {
		return opts.Dir, nil
	}
	dir, err := cachescan.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("locating cache dir: %w", err)
	}
	return dir, nil
}
