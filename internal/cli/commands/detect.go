package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackbackhq/stackback/pkg/dialect"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <stackfile>",
		Short: "Detect the frame dialect of a stack trace",
		Long: `Analyze a captured stack trace to identify which engine family wrote it.

Samples lines from the file and tests against known frame dialects.
Reports the detected dialect with a confidence score.

Optionally generates a starter config file with --write-config.

Recognizes:
  - V8 frames (Chrome, Edge, Node.js), parenthesized and bare
  - SpiderMonkey frames (Firefox), including nested-closure markers
  - JavaScriptCore frames (Safari), including code-label frames
  - The plain @-separated form shared by Firefox and Safari

Example:
  stackback detect error-stack.txt
  stackback detect --sample 500 big-stack.txt
  stackback detect --write-config stackback.yaml error-stack.txt
  stackback detect -w stackback.yaml error-stack.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matched dialects, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	stackFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(stackFile); os.IsNotExist(err) {
		return fmt.Errorf("stack file not found: %s", stackFile)
	}

	// Create detector
	d := dialect.New(dialect.WithSampleSize(opts.SampleSize))

	// Run detection
	result, err := d.DetectFromFile(ctx, stackFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, opts.WriteConfig); err != nil {
			return err
		}
	}

	// Output results
	switch opts.Output {
	case "json":
		return outputDetectJSON(result, stackFile, opts)
	default:
		return outputDetectText(result, stackFile, opts)
	}
}

func outputDetectText(result *dialect.DetectionResult, stackFile string, opts *DetectOptions) error {
	fmt.Println("=== Stack Dialect Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", stackFile)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Printf("Frame lines: %d\n", result.FrameLines)
	fmt.Println()

	if !result.HasMatch() {
		fmt.Println("No frame dialect detected.")
		fmt.Println()
		fmt.Println("Tip: The file may not contain a stack trace, or the engine")
		fmt.Println("prints frames in an uncommon form. Run 'stackback inspect' to")
		fmt.Println("see how each line classifies.")
		return nil
	}

	// Show best match
	best := result.BestMatch()
	fmt.Printf("Detected Dialect: %s\n", best.Format.Name)
	fmt.Printf("Engine: %s\n", best.Format.Engine)
	fmt.Printf("Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Println()
	fmt.Printf("Sample match:\n  %s\n", best.SampleLine)
	fmt.Println()

	// Show alternatives if requested
	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Println("--- Alternative dialects matched ---")
		for i, m := range result.Matches[1:] {
			fmt.Printf("%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Printf("   engine: %s\n", m.Format.Engine)
			fmt.Printf("   pattern: '%s'\n", m.Format.PatternStr)
		}
		fmt.Println()
	}

	return nil
}

// JSONMatch represents a dialect match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Engine     string  `json:"engine"`
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	FrameLines   int         `json:"frame_lines"`
}

func outputDetectJSON(result *dialect.DetectionResult, stackFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         stackFile,
		SampledLines: result.SampledLines,
		FrameLines:   result.FrameLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Engine:     m.Format.Engine,
			Pattern:    m.Format.PatternStr,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file.
func writeStarterConfig(result *dialect.DetectionResult, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	// Need a detected dialect to generate config
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no frame dialect detected")
	}

	best := result.BestMatch()

	// Generate the config content
	content := generateStarterConfig(best)

	// Write the file
	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(match *dialect.FormatMatch) string {
	return fmt.Sprintf(`# Stackback Configuration
# Generated by: stackback detect
# Detected dialect: %s (%.0f%% confidence)

# Root directory the mapped source files are relative to.
# Code frames report absolute paths when this is set.
# project_root: /home/dev/app

code_frame:
  lines_above: 2
  lines_below: 3

# Map generated bundle URLs (as they appear in stack frames) to local
# files. A .js path must carry a sourceMappingURL directive; a .map
# path is loaded directly.
bundles:
  # - url: "http://localhost:8888/bundle.js"
  #   path: dist/bundle.js

# Frames whose raw file starts with one of these schemes belong to the
# test runner, not your code, and are hidden from text output.
strip_schemes:
  - "cypress://"

# Deliver normalized results over HTTP after each run.
webhooks:
  # - name: ci-reporter
  #   url: "https://example.com/webhook"
  #   token: "${WEBHOOK_TOKEN}"
  #   trigger: on_issues
  #   timeout: 10s
`, match.Format.Name, match.Confidence*100)
}
