package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackbackhq/stackback/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a Stackback configuration file without normalizing anything.

Checks:
  - YAML syntax
  - Required fields
  - Bundle mappings (url and path present)
  - Scheme prefixes in strip_schemes
  - Webhook URLs, triggers, and timeouts
  - Bundle file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Printf("\nConfiguration valid!\n")
	if cfg.ProjectRoot != "" {
		fmt.Printf("  Project root:  %s\n", cfg.ProjectRoot)
	}
	fmt.Printf("  Code frame:    %d above, %d below\n", cfg.CodeFrame.LinesAbove, cfg.CodeFrame.LinesBelow)
	fmt.Printf("  Bundles:       %d\n", len(cfg.Bundles))
	fmt.Printf("  Strip schemes: %s\n", strings.Join(cfg.StripSchemes, ", "))
	fmt.Printf("  Webhooks:      %d\n", len(cfg.Webhooks))

	// List bundles
	if len(cfg.Bundles) > 0 {
		fmt.Printf("\nBundles:\n")
		for i, b := range cfg.Bundles {
			fmt.Printf("  %d. %s -> %s\n", i+1, b.URL, b.Path)
		}
	}

	// Check if bundle files exist (warnings only)
	missing := 0
	for _, b := range cfg.Bundles {
		if _, err := os.Stat(b.Path); os.IsNotExist(err) {
			fmt.Printf("\nWarning: bundle file not found: %s\n", b.Path)
			missing++
		}
	}
	if len(cfg.Bundles) > 0 && missing == 0 {
		fmt.Printf("\nAll bundle files found.\n")
	}

	return nil
}
