package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stackbackhq/stackback/pkg/cachescan"
	"github.com/stackbackhq/stackback/pkg/config"
	"github.com/stackbackhq/stackback/pkg/dialect"
	"github.com/stackbackhq/stackback/pkg/normalizer"
	"github.com/stackbackhq/stackback/pkg/output"
	"github.com/stackbackhq/stackback/pkg/sourcemaps"
	"github.com/stackbackhq/stackback/pkg/webhook"
)

// bundleURL is the generated-file URL the testdata fixtures use in their
// stack frames and bundle mappings.
const bundleURL = "http://localhost:8888/bundle.js"

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Config files use paths relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		// Get the directory containing this test file, then go up one level
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

// loadBundles registers every bundle the config names, dispatching on
// the path the way the normalize command does: .map files are loaded
// directly, anything else is read as a generated file carrying a
// sourceMappingURL directive.
func loadBundles(t *testing.T, cfg *config.Config) *sourcemaps.Store {
	t.Helper()
	store := sourcemaps.NewStore()
	for _, b := range cfg.Bundles {
		var err error
		if strings.HasSuffix(b.Path, ".map") {
			err = sourcemaps.LoadMapFile(store, b.URL, b.Path)
		} else {
			err = sourcemaps.LoadFile(store, b.URL, b.Path)
		}
		if err != nil {
			t.Fatalf("Failed to load bundle %s: %v", b.URL, err)
		}
	}
	return store
}

// loadReport reads a captured error report fixture.
func loadReport(t *testing.T, path string) *normalizer.Report {
	t.Helper()
	requireFile(t, path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	var rep normalizer.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}
	return &rep
}

// TestE2E_NormalizeReport tests the full normalization pipeline: config,
// bundle loading, source-map resolution and code-frame extraction.
func TestE2E_NormalizeReport(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("test", "testdata", "configs", "bundle.yaml")
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	store := loadBundles(t, cfg)
	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))

	n := normalizer.New(store, normalizer.WithCodeFrame(cfg.CodeFrameOptions()))
	n.Normalize(rep)

	// The raw stack keeps its text as received
	if !strings.HasPrefix(rep.Stack, "AssertionError: expected 3 to equal 4") {
		t.Errorf("Raw stack lost its header: %q", rep.Stack)
	}

	// The bundle frame resolves to the original source and the evaluated
	// test body is renamed
	if !strings.Contains(rep.MappedStack, "at Context.test (spec.js:5:2)") {
		t.Errorf("Mapped stack missing resolved frame:\n%s", rep.MappedStack)
	}

	// The runtime-internal frame stays at its generated position
	if !strings.Contains(rep.MappedStack, "at processImmediate (node:internal/timers:478:21)") {
		t.Errorf("Mapped stack lost the unresolved frame:\n%s", rep.MappedStack)
	}

	// A code frame is cut from the embedded source contents
	if rep.CodeFrame == nil {
		t.Fatal("Expected a code frame")
	}
	if rep.CodeFrame.RelativeFile != "spec.js" {
		t.Errorf("CodeFrame.RelativeFile = %q, want spec.js", rep.CodeFrame.RelativeFile)
	}
	if rep.CodeFrame.Line != 5 || rep.CodeFrame.Column != 2 {
		t.Errorf("CodeFrame position = %d:%d, want 5:2", rep.CodeFrame.Line, rep.CodeFrame.Column)
	}
	if !strings.Contains(rep.CodeFrame.Frame, "> 5 |     expect(add(1, 2)).to.equal(4)") {
		t.Errorf("Code frame missing marked line:\n%s", rep.CodeFrame.Frame)
	}

	t.Logf("Mapped stack:\n%s", rep.MappedStack)
}

// TestE2E_TextOutput tests text output formatting.
func TestE2E_TextOutput(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("test", "testdata", "configs", "bundle.yaml")
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	store := loadBundles(t, cfg)
	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))

	n := normalizer.New(store, normalizer.WithCodeFrame(cfg.CodeFrameOptions()))
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{Source: "assertion_error.json"}, cfg.StripSchemes)
	formatter := output.NewTextFormatter(output.FormatOptions{StripSchemes: cfg.StripSchemes})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, result, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()

	// Verify output contains expected sections
	checks := []string{
		"=== Stackback Report ===",
		"AssertionError: expected 3 to equal 4",
		"at Context.test (spec.js:5:2)",
		"Code frame: spec.js:5:2 (js)",
		"Summary: 2 frames, 1 resolved, 1 unresolved, 0 internal",
	}

	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q", check)
		}
	}
}

// TestE2E_JSONOutput tests JSON output formatting.
func TestE2E_JSONOutput(t *testing.T) {
	chdir(t)
	configFile := filepath.Join("test", "testdata", "configs", "bundle.yaml")
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	store := loadBundles(t, cfg)
	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))

	n := normalizer.New(store, normalizer.WithCodeFrame(cfg.CodeFrameOptions()))
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{Source: "assertion_error.json", Bundles: store.Files()}, cfg.StripSchemes)
	formatter := output.NewJSONFormatter(output.FormatOptions{})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, result, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	// Verify valid JSON
	var parsed output.Result
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	// Verify content
	if parsed.Summary.FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", parsed.Summary.FrameCount)
	}
	if parsed.Summary.ResolvedFrames != 1 {
		t.Errorf("ResolvedFrames = %d, want 1", parsed.Summary.ResolvedFrames)
	}
	if parsed.Report == nil {
		t.Fatal("Report missing from JSON output")
	}
	if parsed.Report.Name != "AssertionError" {
		t.Errorf("Report.Name = %q, want AssertionError", parsed.Report.Name)
	}
	if !strings.Contains(parsed.Report.MappedStack, "spec.js:5:2") {
		t.Error("sourceMappedStack missing resolved position")
	}
	if len(parsed.Metadata.Bundles) != 1 {
		t.Errorf("Metadata.Bundles count = %d, want 1", len(parsed.Metadata.Bundles))
	}
}

// TestE2E_FirefoxStack tests normalizing an @-form stack: the header is
// prepended, closure-wrapper markers are stripped and every frame is
// reconstructed in the canonical form.
func TestE2E_FirefoxStack(t *testing.T) {
	chdir(t)
	stackFile := filepath.Join("test", "testdata", "stacks", "firefox.txt")
	requireFile(t, stackFile)

	data, err := os.ReadFile(stackFile)
	if err != nil {
		t.Fatalf("Failed to read stack: %v", err)
	}

	rep := &normalizer.Report{
		Name:    "AssertionError",
		Message: "expected 3 to equal 4",
		Stack:   strings.TrimRight(string(data), "\n"),
	}

	store := sourcemaps.NewStore()
	if err := sourcemaps.LoadFile(store, bundleURL, filepath.Join("test", "testdata", "bundles", "bundle.js")); err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	n := normalizer.New(store)
	n.Normalize(rep)

	// The @-form stack carries no header, so normalization adds one
	if !strings.HasPrefix(rep.Stack, "AssertionError: expected 3 to equal 4\n") {
		t.Errorf("Stack missing prepended header:\n%s", rep.Stack)
	}

	checks := []string{
		"at add (spec.js:5:2)",
		"at tryCatcher (http://localhost:8888/bundle.js:188:12)",
		"at <unknown> (http://localhost:8888/bundle.js:200:1)",
	}
	for _, check := range checks {
		if !strings.Contains(rep.MappedStack, check) {
			t.Errorf("Mapped stack missing %q:\n%s", check, rep.MappedStack)
		}
	}
}

// TestE2E_ExternalMapFile tests loading a standalone .map file instead of
// a bundle with an inline map.
func TestE2E_ExternalMapFile(t *testing.T) {
	chdir(t)
	mapFile := filepath.Join("test", "testdata", "bundles", "bundle.js.map")
	requireFile(t, mapFile)

	store := sourcemaps.NewStore()
	if err := sourcemaps.LoadMapFile(store, bundleURL, mapFile); err != nil {
		t.Fatalf("Failed to load map file: %v", err)
	}

	pos, ok := store.SourcePosition(bundleURL, sourcemaps.Position{Line: 10, Column: 3})
	if !ok {
		t.Fatal("Expected position to resolve")
	}
	if pos.File != "spec.js" || pos.Line != 5 || pos.Column != 1 {
		t.Errorf("SourcePosition = %s:%d:%d, want spec.js:5:1", pos.File, pos.Line, pos.Column)
	}

	source, ok := store.SourceContents(bundleURL, "spec.js")
	if !ok {
		t.Fatal("Expected embedded source contents")
	}
	if !strings.Contains(source, "expect(add(1, 2)).to.equal(4)") {
		t.Errorf("Embedded source missing expected line:\n%s", source)
	}
}

// TestE2E_InternalFrames tests that runner-internal frames are counted
// and hidden from default text output.
func TestE2E_InternalFrames(t *testing.T) {
	chdir(t)
	ctx := context.Background()

	rep := &normalizer.Report{
		Name:    "CypressError",
		Message: "Timed out retrying",
		Stack: "CypressError: Timed out retrying\n" +
			"    at retry (cypress:///../driver/src/cy/retries.ts:99:7)\n" +
			"    at Context.eval (http://localhost:8888/bundle.js:10:3)",
	}

	if !rep.IsFromCypress() {
		t.Error("Expected error to be recognized as runner-originated")
	}

	store := sourcemaps.NewStore()
	if err := sourcemaps.LoadFile(store, bundleURL, filepath.Join("test", "testdata", "bundles", "bundle.js")); err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	n := normalizer.New(store)
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{}, nil)
	if result.Summary.InternalFrames != 1 {
		t.Errorf("InternalFrames = %d, want 1", result.Summary.InternalFrames)
	}
	if result.Summary.ResolvedFrames != 1 {
		t.Errorf("ResolvedFrames = %d, want 1", result.Summary.ResolvedFrames)
	}

	// Default text output hides internal frames
	var buf bytes.Buffer
	formatter := output.NewTextFormatter(output.FormatOptions{})
	if err := formatter.Format(ctx, result, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(buf.String(), "cypress://") {
		t.Errorf("Internal frame leaked into default output:\n%s", buf.String())
	}
}

// TestE2E_Detect_V8Stack tests dialect detection on a V8-form stack.
func TestE2E_Detect_V8Stack(t *testing.T) {
	chdir(t)
	stackFile := filepath.Join("test", "testdata", "stacks", "v8.txt")
	requireFile(t, stackFile)

	d := dialect.New()
	result, err := d.DetectFromFile(context.Background(), stackFile)
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}

	if !result.HasMatch() {
		t.Fatal("Expected to detect a dialect")
	}

	best := result.BestMatch()
	if best.Format.Name != "V8 parenthesized frame" {
		t.Errorf("Expected V8 parenthesized frame, got %s", best.Format.Name)
	}
	if best.MatchCount != 3 {
		t.Errorf("MatchCount = %d, want 3", best.MatchCount)
	}
	if result.FrameLines != 3 {
		t.Errorf("FrameLines = %d, want 3", result.FrameLines)
	}

	// The header line dilutes confidence but the frames dominate
	if best.Confidence < 0.7 {
		t.Errorf("Expected high confidence, got %.1f%%", best.Confidence*100)
	}

	t.Logf("Detected: %s with %.1f%% confidence", best.Format.Name, best.Confidence*100)
}

// TestE2E_Detect_FirefoxStack tests dialect detection on an @-form stack.
func TestE2E_Detect_FirefoxStack(t *testing.T) {
	chdir(t)
	stackFile := filepath.Join("test", "testdata", "stacks", "firefox.txt")
	requireFile(t, stackFile)

	d := dialect.New()
	result, err := d.DetectFromFile(context.Background(), stackFile)
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}

	if !result.HasMatch() {
		t.Fatal("Expected to detect a dialect")
	}

	best := result.BestMatch()
	if best.Format.Name != "@-separated frame" {
		t.Errorf("Expected @-separated frame, got %s", best.Format.Name)
	}
	if best.Confidence < 0.99 {
		t.Errorf("Expected full confidence, got %.1f%%", best.Confidence*100)
	}

	// The nested-closure line also matches its more specific dialect
	foundClosure := false
	for _, m := range result.Matches {
		if m.Format.Name == "SpiderMonkey closure frame" {
			foundClosure = true
		}
	}
	if !foundClosure {
		t.Error("Expected SpiderMonkey closure frame among matches")
	}

	t.Logf("Detected: %s with %.1f%% confidence", best.Format.Name, best.Confidence*100)
}

// TestE2E_Detect_WriteConfig tests config file generation from a
// detection result.
func TestE2E_Detect_WriteConfig(t *testing.T) {
	chdir(t)
	stackFile := filepath.Join("test", "testdata", "stacks", "v8.txt")
	requireFile(t, stackFile)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "generated.yaml")

	d := dialect.New()
	result, err := d.DetectFromFile(context.Background(), stackFile)
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}

	if !result.HasMatch() {
		t.Fatal("Expected to detect a dialect")
	}

	// Write config file
	best := result.BestMatch()
	configContent := generateTestConfig(best)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	// Verify the generated config is valid by loading it
	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Generated config is invalid: %v", err)
	}

	if len(cfg.Bundles) != 1 {
		t.Fatalf("Bundles count = %d, want 1", len(cfg.Bundles))
	}
	if cfg.Bundles[0].URL != bundleURL {
		t.Errorf("Bundle URL = %q, want %q", cfg.Bundles[0].URL, bundleURL)
	}

	t.Logf("Generated valid config at %s", configPath)
}

// generateTestConfig creates a minimal valid config for testing.
func generateTestConfig(match *dialect.FormatMatch) string {
	bundlePath, _ := filepath.Abs(filepath.Join("test", "testdata", "bundles", "bundle.js"))
	return fmt.Sprintf(`# Detected dialect: %s
code_frame:
  lines_above: 2
  lines_below: 3

bundles:
  - url: %s
    path: %s
`, match.Format.Name, bundleURL, bundlePath)
}

// ============================================================================
// Cache E2E Tests
// ============================================================================

// TestE2E_SaveAndScanCache tests the report cache round trip: save a
// normalized result, scan the cache, then clear it.
func TestE2E_SaveAndScanCache(t *testing.T) {
	chdir(t)
	tmpDir := t.TempDir()
	ctx := context.Background()

	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))
	n := normalizer.New(nil)
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{Source: "assertion_error.json", ProcessedAt: time.Now()}, nil)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}

	name := "20260823-120000-assertionerror.json"
	path, err := cachescan.Save(tmpDir, name, data)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	requireFile(t, path)

	stats, err := cachescan.Scan(ctx, tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(stats.Entries) != 1 {
		t.Fatalf("Entries count = %d, want 1", len(stats.Entries))
	}
	if stats.Entries[0].Name != name {
		t.Errorf("Entry name = %q, want %q", stats.Entries[0].Name, name)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", stats.TotalFiles)
	}
	if stats.TotalSize == 0 {
		t.Error("TotalSize should be > 0")
	}

	removed, err := cachescan.Clear(tmpDir)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Removed = %d, want 1", removed)
	}

	stats, err = cachescan.Scan(ctx, tmpDir)
	if err != nil {
		t.Fatalf("Scan after clear failed: %v", err)
	}
	if len(stats.Entries) != 0 {
		t.Errorf("Entries after clear = %d, want 0", len(stats.Entries))
	}
}

// ============================================================================
// Webhook E2E Tests
// ============================================================================

// TestE2E_Webhook_SendOnIssues tests webhook fires when no frame could
// be resolved.
func TestE2E_Webhook_SendOnIssues(t *testing.T) {
	chdir(t)

	var receivedPayload []byte
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		receivedPayload, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"received"}`))
	}))
	defer server.Close()

	// Normalize with no source maps registered so every frame stays at
	// its generated position
	ctx := context.Background()
	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))
	n := normalizer.New(sourcemaps.NewStore())
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{Source: "assertion_error.json"}, nil)

	// Verify there are issues
	if !result.HasIssues() {
		t.Fatal("Expected issues for webhook test")
	}

	// Send webhook
	client := webhook.NewClient()
	resp := client.Send(ctx, result, webhook.SendOptions{
		URL:   server.URL,
		Token: "test-token-123",
	})

	if !resp.Success() {
		t.Fatalf("Webhook failed: %v", resp.Error)
	}

	// Verify bearer token
	if receivedAuth != "Bearer test-token-123" {
		t.Errorf("Expected Bearer token, got %s", receivedAuth)
	}

	// Verify payload is valid JSON with expected structure
	var payload output.Result
	if err := json.Unmarshal(receivedPayload, &payload); err != nil {
		t.Fatalf("Invalid JSON payload: %v", err)
	}

	if payload.Summary.UnresolvedFrames == 0 {
		t.Error("Expected unresolved frames in webhook payload")
	}

	t.Logf("Webhook received %d unresolved frames", payload.Summary.UnresolvedFrames)
}

// TestE2E_Webhook_NoSendOnSuccess tests webhook doesn't fire when frames
// resolved (on_issues trigger).
func TestE2E_Webhook_NoSendOnSuccess(t *testing.T) {
	chdir(t)

	webhookCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	configFile := filepath.Join("test", "testdata", "configs", "bundle.yaml")
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	store := loadBundles(t, cfg)
	rep := loadReport(t, filepath.Join("test", "testdata", "reports", "assertion_error.json"))

	n := normalizer.New(store)
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{}, cfg.StripSchemes)
	if result.HasIssues() {
		t.Fatal("Expected a clean run for this test")
	}

	// Check trigger condition (on_issues should not fire)
	trigger := config.WebhookTriggerOnIssues
	shouldFire := trigger == config.WebhookTriggerAlways ||
		(trigger == config.WebhookTriggerOnIssues && result.HasIssues())

	if shouldFire {
		t.Error("Should not fire webhook when frames resolved with on_issues trigger")
	}

	if webhookCalled {
		t.Error("Webhook should not have been called")
	}
}

// TestE2E_Webhook_AlwaysTrigger tests webhook fires even when no issues (always trigger).
func TestE2E_Webhook_AlwaysTrigger(t *testing.T) {
	webhookCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// A report with no stack has nothing to resolve and no issues
	rep := &normalizer.Report{Name: "Error", Message: "setup failed before any test ran"}
	normalizer.New(nil).Normalize(rep)
	result := output.NewResult(rep, output.Metadata{}, nil)

	// With always trigger, should fire
	client := webhook.NewClient()
	resp := client.Send(context.Background(), result, webhook.SendOptions{
		URL: server.URL,
	})

	if !resp.Success() {
		t.Fatalf("Webhook failed: %v", resp.Error)
	}

	if !webhookCalled {
		t.Error("Webhook should have been called with always trigger")
	}
}

// TestE2E_Webhook_ServerError tests handling of webhook server errors.
func TestE2E_Webhook_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	}))
	defer server.Close()

	rep := &normalizer.Report{Name: "Error", Message: "boom"}
	normalizer.New(nil).Normalize(rep)
	result := output.NewResult(rep, output.Metadata{}, nil)

	client := webhook.NewClient()
	resp := client.Send(context.Background(), result, webhook.SendOptions{
		URL: server.URL,
	})

	if resp.Success() {
		t.Error("Expected webhook to fail with 500 error")
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.StatusCode)
	}
}
