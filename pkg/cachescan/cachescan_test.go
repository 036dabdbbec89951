package cachescan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScan(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "report-a.json"), []byte("aaaa"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "report-b.json"), []byte("bbbbbbbb"), 0o600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "run-42")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "one.json"), []byte("11"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "two.json"), []byte("2222"), 0o600); err != nil {
		t.Fatal(err)
	}

	stats, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(stats.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(stats.Entries))
	}
	names := []string{stats.Entries[0].Name, stats.Entries[1].Name, stats.Entries[2].Name}
	want := []string{"report-a.json", "report-b.json", "run-42"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Entries[%d].Name = %q, want %q", i, names[i], want[i])
		}
	}

	if stats.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", stats.TotalFiles)
	}
	if stats.TotalSize != 18 {
		t.Errorf("TotalSize = %d, want 18", stats.TotalSize)
	}

	dir := stats.Entries[2]
	if dir.Files != 2 || dir.Size != 6 {
		t.Errorf("directory entry = %d files / %d bytes, want 2 / 6", dir.Files, dir.Size)
	}
}

func TestScanMissingRoot(t *testing.T) {
	stats, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(stats.Entries) != 0 || stats.TotalFiles != 0 {
		t.Errorf("Scan() of missing root = %+v, want empty stats", stats)
	}
}

func TestSave(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")

	path, err := Save(root, "report-1.json", []byte(`{"name":"Error"}`))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved entry: %v", err)
	}
	if string(data) != `{"name":"Error"}` {
		t.Errorf("saved contents = %q", data)
	}

	stats, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", stats.TotalFiles)
	}
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "report-a.json"), []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "run-42"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := Clear(root)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Clear() removed = %d, want 2", removed)
	}

	left, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d entries left after Clear()", len(left))
	}
}

func TestClearMissingRoot(t *testing.T) {
	removed, err := Clear(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Clear() removed = %d, want 0", removed)
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := HumanSize(tt.n); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
