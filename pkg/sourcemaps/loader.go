package sourcemaps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSourceMap is returned by LoadFile for bundles that carry no
// sourceMappingURL directive. Callers typically warn and move on.
var ErrNoSourceMap = errors.New("no source map reference found")

// LoadFile reads a generated bundle from disk and registers its source
// map under fileURL. Inline data-URL maps are decoded directly; relative
// external references are read from the directory containing path.
// Absolute URL references cannot be fetched from disk and are rejected.
func LoadFile(store *Store, fileURL, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return fmt.Errorf("reading bundle %s: %w", path, err)
	}

	ref, ok := SourceMappingURL(string(data))
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoSourceMap)
	}

	mapData, inline, err := DecodeDataURL(ref)
	if err != nil {
		return fmt.Errorf("bundle %s: %w", path, err)
	}
	if inline {
		return store.AddMap(fileURL, mapData)
	}

	if strings.Contains(ref, "://") {
		return fmt.Errorf("bundle %s: external source map %s is not a local file", path, ref)
	}
	return LoadMapFile(store, fileURL, filepath.Join(filepath.Dir(path), ref))
}

// LoadMapFile reads a source-map file from disk and registers it under
// fileURL.
func LoadMapFile(store *Store, fileURL, mapPath string) error {
	data, err := os.ReadFile(mapPath) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return fmt.Errorf("reading source map %s: %w", mapPath, err)
	}
	return store.AddMap(fileURL, data)
}
