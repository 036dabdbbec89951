package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stackbackhq/stackback/pkg/cachescan"
	"github.com/stackbackhq/stackback/pkg/config"
	"github.com/stackbackhq/stackback/pkg/normalizer"
	"github.com/stackbackhq/stackback/pkg/output"
	"github.com/stackbackhq/stackback/pkg/sourcemaps"
	"github.com/stackbackhq/stackback/pkg/stack"
	"github.com/stackbackhq/stackback/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// NormalizeOptions holds command-line options for the normalize command.
type NormalizeOptions struct {
	Output      string
	Raw         bool
	ConfigPath  string
	Bundles     []string
	ProjectRoot string
	Save        bool
	CacheDir    string
	NoColor     bool
	Verbose     bool
	Quiet       bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand() *cobra.Command {
	opts := &NormalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize <report.json|->",
		Short: "Source map an error's stack trace",
		Long: `Normalize a captured test error: rewrite its stack frames to original
source positions using registered source maps and extract a code frame
around the failing line.

The input is a JSON payload with "name", "message", and "stack" fields,
or raw stack text with --raw. Use - to read from stdin.

Source maps come from bundle mappings in the config file or from
repeated --bundle url=path flags. A path ending in .map is loaded as a
map file directly; any other path is read as a generated file carrying
a sourceMappingURL directive.

Exit codes:
  0 - At least one frame resolved (or the stack had no frames)
  1 - Frames present but none could be resolved
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Treat input as raw stack text instead of a JSON payload")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file with bundles and defaults")
	cmd.Flags().StringArrayVar(&opts.Bundles, "bundle", nil, "Bundle mapping url=path (can be repeated)")
	cmd.Flags().StringVar(&opts.ProjectRoot, "project-root", "", "Project root for absolute code-frame paths")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the result JSON into the report cache")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Report cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show internal frames and run metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runNormalize(cmd *cobra.Command, args []string, opts *NormalizeOptions) error {
	source := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration (optional; defaults apply without one)
	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Read the error payload
	data, err := readInput(source)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	rep, err := parseReport(data, opts.Raw)
	if err != nil {
		return err
	}

	// Register source maps for all configured bundles
	store := sourcemaps.NewStore()
	if err := registerBundles(store, cfg, opts.Bundles); err != nil {
		return err
	}

	root := opts.ProjectRoot
	if root == "" {
		root = cfg.ProjectRoot
	}

	// Run the pipeline
	start := time.Now()
	n := normalizer.New(store,
		normalizer.WithProjectRoot(root),
		normalizer.WithCodeFrame(cfg.CodeFrameOptions()),
	)
	n.Normalize(rep)

	result := output.NewResult(rep, output.Metadata{
		Source:      source,
		Bundles:     store.Files(),
		ProcessedAt: start,
		Duration:    time.Since(start),
	}, cfg.StripSchemes)

	// Create formatter
	formatter, err := createFormatter(opts, cfg)
	if err != nil {
		return err
	}

	// Output result
	if err := formatter.Format(ctx, result, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Save into the report cache if requested
	if opts.Save {
		if err := saveResult(result, opts.CacheDir); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail normalization)
	sendWebhooks(ctx, cfg, opts, result)

	// Set exit code based on results
	if result.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// loadConfig loads the config file, or returns defaults when no path is given.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(ctx, path)
}

// readInput reads the payload from a file, or from stdin when source is -.
func readInput(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(source) // #nosec G304 - path is provided by user via CLI
}

// parseReport builds a report from a JSON payload, or from raw stack text.
func parseReport(data []byte, raw bool) (*normalizer.Report, error) {
	if raw {
		return reportFromRawStack(string(data)), nil
	}

	rep := &normalizer.Report{}
	if err := json.Unmarshal(data, rep); err != nil {
		return nil, fmt.Errorf("parsing report payload: %w", err)
	}
	return rep, nil
}

// reportFromRawStack wraps bare stack text in a report, recovering the
// error name and message from the header line when the stack carries one.
func reportFromRawStack(text string) *normalizer.Report {
	rep := &normalizer.Report{Stack: text}

	head := firstTextLine(text)
	if head == "" || stack.IsFrameLine(head) {
		return rep
	}

	head = strings.TrimSpace(head)
	if name, message, ok := strings.Cut(head, ": "); ok {
		rep.Name = name
		rep.Message = message
	} else {
		// A header without a message is just the error name, as thrown
		// by new Error() with no argument.
		rep.Name = head
	}
	return rep
}

func firstTextLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// registerBundles loads source maps for bundles from the config file and
// from --bundle flags. Flag entries use the form url=path.
func registerBundles(store *sourcemaps.Store, cfg *config.Config, flagBundles []string) error {
	bundles := make([]config.BundleConfig, 0, len(cfg.Bundles)+len(flagBundles))
	bundles = append(bundles, cfg.Bundles...)

	for _, b := range flagBundles {
		url, path, ok := strings.Cut(b, "=")
		if !ok || url == "" || path == "" {
			return fmt.Errorf("invalid bundle mapping %q (use url=path)", b)
		}
		bundles = append(bundles, config.BundleConfig{URL: url, Path: path})
	}

	for _, b := range bundles {
		var err error
		if strings.HasSuffix(b.Path, ".map") {
			err = sourcemaps.LoadMapFile(store, b.URL, b.Path)
		} else {
			err = sourcemaps.LoadFile(store, b.URL, b.Path)
		}
		if err != nil {
			return fmt.Errorf("loading bundle %s: %w", b.URL, err)
		}
	}

	return nil
}

func createFormatter(opts *NormalizeOptions, cfg *config.Config) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose:      opts.Verbose,
		Quiet:        opts.Quiet,
		Color:        !opts.NoColor,
		StripSchemes: cfg.StripSchemes,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// saveResult writes the result JSON into the report cache directory.
func saveResult(result *output.Result, dir string) error {
	if dir == "" {
		d, err := cachescan.DefaultDir()
		if err != nil {
			return fmt.Errorf("locating cache dir: %w", err)
		}
		dir = d
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	name := result.Metadata.ProcessedAt.Format("20060102-150405") + "-" + reportSlug(result.Report.Name) + ".json"
	path, err := cachescan.Save(dir, name, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved report to: %s\n", path)
	return nil
}

// reportSlug turns an error name into a filename-safe slug.
func reportSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "error"
	}
	return slug
}

// sendWebhooks sends the result to all configured webhooks.
// Errors are logged to stderr but don't fail normalization.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *NormalizeOptions, result *output.Result) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		// Check trigger condition
		if !shouldFireWebhook(wh.Trigger, result.HasIssues()) {
			continue
		}

		// Send webhook
		resp := client.Send(ctx, result, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		// Log result
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *NormalizeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and issues.
func shouldFireWebhook(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnIssues:
		return hasIssues
	default:
		// Default to on_issues
		return hasIssues
	}
}
