package sourcemaps

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
)

// specContent is the original-source text embedded in the test map.
const specContent = `const add = (a, b) => a + b

describe('math', () => {
  it('adds', () => {
    expect(add(1, 2)).to.equal(4)
  })
})
`

// testMapJSON builds a map with two segments: generated 10:3 points at
// spec.js 5:1 and generated 11:0 points at spec.js 6:0.
func testMapJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"version":        3,
		"file":           "bundle.js",
		"sources":        []string{"spec.js"},
		"sourcesContent": []string{specContent},
		"names":          []string{},
		"mappings":       ";;;;;;;;;GAIC;AACD",
	})
	if err != nil {
		t.Fatalf("marshaling test map: %v", err)
	}
	return data
}

// testBundle builds generated-file contents carrying the test map as an
// inline base64 data URL.
func testBundle(t *testing.T) string {
	t.Helper()
	encoded := base64.StdEncoding.EncodeToString(testMapJSON(t))
	return fmt.Sprintf("(function(){})();\n//# sourceMappingURL=data:application/json;charset=utf-8;base64,%s\n", encoded)
}

func TestStoreSourcePosition(t *testing.T) {
	store := NewStore()
	if err := store.AddMap("http://localhost:8888/bundle.js", testMapJSON(t)); err != nil {
		t.Fatalf("AddMap() error = %v", err)
	}

	tests := []struct {
		name   string
		file   string
		pos    Position
		want   SourcePosition
		wantOK bool
	}{
		{
			name:   "exact mapping",
			file:   "http://localhost:8888/bundle.js",
			pos:    Position{Line: 10, Column: 3},
			want:   SourcePosition{File: "spec.js", Line: 5, Column: 1},
			wantOK: true,
		},
		{
			name:   "floors to nearest earlier mapping on the line",
			file:   "http://localhost:8888/bundle.js",
			pos:    Position{Line: 10, Column: 27},
			want:   SourcePosition{File: "spec.js", Line: 5, Column: 1},
			wantOK: true,
		},
		{
			name:   "second segment",
			file:   "http://localhost:8888/bundle.js",
			pos:    Position{Line: 11, Column: 0},
			want:   SourcePosition{File: "spec.js", Line: 6, Column: 0},
			wantOK: true,
		},
		{
			name:   "position before any mapping",
			file:   "http://localhost:8888/bundle.js",
			pos:    Position{Line: 1, Column: 0},
			wantOK: false,
		},
		{
			name:   "unregistered file",
			file:   "http://localhost:8888/other.js",
			pos:    Position{Line: 10, Column: 3},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.SourcePosition(tt.file, tt.pos)
			if ok != tt.wantOK {
				t.Fatalf("SourcePosition() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SourcePosition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStoreSourceContents(t *testing.T) {
	store := NewStore()
	if err := store.AddMap("bundle.js", testMapJSON(t)); err != nil {
		t.Fatalf("AddMap() error = %v", err)
	}

	got, ok := store.SourceContents("bundle.js", "spec.js")
	if !ok {
		t.Fatal("SourceContents() ok = false, want true")
	}
	if got != specContent {
		t.Errorf("SourceContents() = %q, want %q", got, specContent)
	}

	if _, ok := store.SourceContents("bundle.js", "missing.js"); ok {
		t.Error("SourceContents() for unknown source = true, want false")
	}
	if _, ok := store.SourceContents("missing.js", "spec.js"); ok {
		t.Error("SourceContents() for unregistered file = true, want false")
	}
}

func TestStoreAddMapInvalid(t *testing.T) {
	store := NewStore()
	if err := store.AddMap("bundle.js", []byte("not json")); err == nil {
		t.Error("AddMap() with invalid JSON: expected error, got nil")
	}
	if store.Has("bundle.js") {
		t.Error("Has() after failed AddMap = true, want false")
	}
}

func TestStoreAddSource(t *testing.T) {
	store := NewStore()
	if err := store.AddSource("http://localhost:8888/bundle.js", testBundle(t)); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if !store.Has("http://localhost:8888/bundle.js") {
		t.Fatal("Has() = false after registering inline map")
	}

	pos, ok := store.SourcePosition("http://localhost:8888/bundle.js", Position{Line: 10, Column: 3})
	if !ok {
		t.Fatal("SourcePosition() ok = false, want true")
	}
	if pos.File != "spec.js" || pos.Line != 5 {
		t.Errorf("SourcePosition() = %+v, want spec.js line 5", pos)
	}
}

func TestStoreAddSourceWithoutDirective(t *testing.T) {
	store := NewStore()
	if err := store.AddSource("bundle.js", "(function(){})();\n"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if store.Has("bundle.js") {
		t.Error("Has() = true for a bundle without a directive")
	}
}

func TestStoreAddSourceExternalRef(t *testing.T) {
	store := NewStore()
	contents := "(function(){})();\n//# sourceMappingURL=bundle.js.map\n"
	if err := store.AddSource("bundle.js", contents); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if store.Has("bundle.js") {
		t.Error("Has() = true for an external reference")
	}
}
