// Package config provides configuration loading and validation for Stackback.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// ProjectRoot anchors relative source paths when building absolute
	// code-frame locations.
	ProjectRoot string `yaml:"project_root,omitempty"`

	// CodeFrame controls how much context code frames include.
	CodeFrame CodeFrameConfig `yaml:"code_frame,omitempty"`

	// Bundles maps generated file URLs to local bundle or map files.
	Bundles []BundleConfig `yaml:"bundles,omitempty"`

	// StripSchemes lists URL schemes marking runner-internal frames.
	StripSchemes []string `yaml:"strip_schemes,omitempty"`

	// Webhooks lists endpoints that receive normalized results.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// CodeFrameConfig controls code-frame rendering.
type CodeFrameConfig struct {
	// LinesAbove is the number of context lines before the marked line.
	LinesAbove int `yaml:"lines_above,omitempty"`

	// LinesBelow is the number of context lines after the marked line.
	LinesBelow int `yaml:"lines_below,omitempty"`
}

// BundleConfig maps one generated file URL, exactly as stack frames
// print it, to a local file.
type BundleConfig struct {
	// URL is the generated file URL as it appears in frames (required).
	URL string `yaml:"url"`

	// Path is the local bundle file carrying a sourceMappingURL
	// directive, or the source map file itself (required).
	Path string `yaml:"path"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when no frame could be resolved (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every normalization.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending normalized results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
