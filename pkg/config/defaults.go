package config

import (
	"os"
	"time"

	"github.com/stackbackhq/stackback/pkg/codeframe"
	"github.com/stackbackhq/stackback/pkg/normalizer"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvProjectRoot = "STACKBACK_PROJECT_ROOT"
)

// DefaultStripSchemes returns the URL schemes treated as runner-internal.
func DefaultStripSchemes() []string {
	return []string{normalizer.CypressScheme}
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CodeFrame: CodeFrameConfig{
			LinesAbove: codeframe.DefaultLinesAbove,
			LinesBelow: codeframe.DefaultLinesBelow,
		},
		Bundles:      []BundleConfig{},
		StripSchemes: DefaultStripSchemes(),
	}
}

// CodeFrameOptions converts the code-frame settings into renderer options.
func (c *Config) CodeFrameOptions() codeframe.Options {
	return codeframe.Options{
		LinesAbove: c.CodeFrame.LinesAbove,
		LinesBelow: c.CodeFrame.LinesBelow,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	// Override project root from environment if set
	if root := os.Getenv(EnvProjectRoot); root != "" {
		c.ProjectRoot = root
	}
}
