// Package cachescan manages the on-disk cache where normalized reports
// are saved, and reports statistics about it.
package cachescan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Entry describes one top-level item in the cache directory.
type Entry struct {
	Name    string
	Path    string
	Files   int
	Size    int64
	ModTime time.Time
}

// Stats summarizes a cache directory.
type Stats struct {
	Root       string
	Entries    []Entry
	TotalFiles int
	TotalSize  int64
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "stackback"), nil
}

// Save writes one cache file under root, creating the directory first if
// needed, and returns the written path.
func Save(root, name string, data []byte) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}
	path := filepath.Join(root, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing cache entry: %w", err)
	}
	return path, nil
}

// Scan sizes every top-level cache entry, walking subdirectories in
// parallel. A missing root is an empty cache, not an error.
func Scan(ctx context.Context, root string) (*Stats, error) {
	stats := &Stats{Root: root}

	dirents, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache dir: %w", err)
	}
	if len(dirents) == 0 {
		return stats, nil
	}

	entries := make([]Entry, len(dirents))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, de := range dirents {
		i, de := i, de
		g.Go(func() error {
			entry, err := sizeEntry(ctx, filepath.Join(root, de.Name()), de)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	stats.Entries = entries
	for _, e := range entries {
		stats.TotalFiles += e.Files
		stats.TotalSize += e.Size
	}
	return stats, nil
}

func sizeEntry(ctx context.Context, path string, de fs.DirEntry) (Entry, error) {
	info, err := de.Info()
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	entry := Entry{Name: de.Name(), Path: path, ModTime: info.ModTime()}
	if !de.IsDir() {
		entry.Files = 1
		entry.Size = info.Size()
		return entry, nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		entry.Files++
		entry.Size += fi.Size()
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("walking %s: %w", path, err)
	}
	return entry, nil
}

// Clear removes every entry in the cache directory, keeping the
// directory itself, and returns how many entries were removed. A missing
// directory is already clear.
func Clear(root string) (int, error) {
	dirents, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cache dir: %w", err)
	}

	removed := 0
	for _, de := range dirents {
		if err := os.RemoveAll(filepath.Join(root, de.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", de.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// HumanSize formats a byte count for display.
func HumanSize(n int64) string {
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
