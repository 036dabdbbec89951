package sourcemaps

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-sourcemap/sourcemap"
)

// Store is an in-memory Resolver backed by parsed source-map consumers,
// keyed by the generated file URL exactly as it appears in stack frames.
type Store struct {
	mu        sync.RWMutex
	consumers map[string]*sourcemap.Consumer
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		consumers: make(map[string]*sourcemap.Consumer),
	}
}

// AddMap parses raw source-map JSON and registers it for fileURL. The map
// is parsed without a base URL, so sources stay exactly as listed (after
// any sourceRoot join) and match what frames should display.
func (s *Store) AddMap(fileURL string, mapData []byte) error {
	consumer, err := sourcemap.Parse("", mapData)
	if err != nil {
		return fmt.Errorf("parsing source map for %s: %w", fileURL, err)
	}

	s.mu.Lock()
	s.consumers[fileURL] = consumer
	s.mu.Unlock()
	return nil
}

// AddSource registers a generated file by extracting the source map
// embedded in its contents. Files whose sourceMappingURL points at an
// external map, or that carry no directive at all, are left unregistered;
// loading external maps is the caller's concern.
func (s *Store) AddSource(fileURL, contents string) error {
	ref, ok := SourceMappingURL(contents)
	if !ok {
		return nil
	}
	mapData, ok, err := DecodeDataURL(ref)
	if err != nil {
		return fmt.Errorf("decoding inline source map for %s: %w", fileURL, err)
	}
	if !ok {
		return nil
	}
	return s.AddMap(fileURL, mapData)
}

// Has reports whether a source map is registered for fileURL.
func (s *Store) Has(fileURL string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.consumers[fileURL]
	return ok
}

// Files returns the generated file URLs with registered maps, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.consumers))
	for f := range s.consumers {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// SourcePosition resolves a generated position to its original source
// position. A registered map with no mapping at or before the position,
// or a mapping without a source file, reports ok false.
func (s *Store) SourcePosition(file string, pos Position) (SourcePosition, bool) {
	s.mu.RLock()
	consumer := s.consumers[file]
	s.mu.RUnlock()
	if consumer == nil {
		return SourcePosition{}, false
	}

	source, _, line, col, ok := consumer.Source(pos.Line, pos.Column)
	if !ok || source == "" {
		return SourcePosition{}, false
	}
	return SourcePosition{File: source, Line: line, Column: col}, true
}

// SourceContents returns the embedded contents of sourceFile from the map
// registered for file.
func (s *Store) SourceContents(file, sourceFile string) (string, bool) {
	s.mu.RLock()
	consumer := s.consumers[file]
	s.mu.RUnlock()
	if consumer == nil {
		return "", false
	}

	content := consumer.SourceContent(sourceFile)
	if content == "" {
		return "", false
	}
	return content, true
}
