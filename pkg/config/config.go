package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stackbackhq/stackback/pkg/codeframe"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	validateCodeFrame(&cfg.CodeFrame)

	for i := range cfg.Bundles {
		if err := validateBundle(&cfg.Bundles[i]); err != nil {
			name := cfg.Bundles[i].URL
			if name == "" {
				name = cfg.Bundles[i].Path
			}
			return fmt.Errorf("bundles[%d] (%s): %w", i, name, err)
		}
	}

	for i, scheme := range cfg.StripSchemes {
		if err := validateScheme(scheme); err != nil {
			return fmt.Errorf("strip_schemes[%d] (%s): %w", i, scheme, err)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateCodeFrame(cf *CodeFrameConfig) {
	if cf.LinesAbove <= 0 {
		cf.LinesAbove = codeframe.DefaultLinesAbove
	}
	if cf.LinesBelow <= 0 {
		cf.LinesBelow = codeframe.DefaultLinesBelow
	}
}

func validateBundle(b *BundleConfig) error {
	if b.URL == "" {
		return errors.New("url is required")
	}
	if b.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

func validateScheme(scheme string) error {
	if scheme == "" {
		return errors.New("scheme must not be empty")
	}
	if !strings.HasSuffix(scheme, "://") {
		return fmt.Errorf("scheme must end with ://, got %q", scheme)
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	// Validate trigger if specified
	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		// Default to on_issues
		wh.Trigger = WebhookTriggerOnIssues
	}

	// Default timeout
	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
