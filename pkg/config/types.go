// Package config provides configuration loading and validation for logstat.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Extensions selects which files in a directory are analyzed.
	// Matching is case-insensitive. Explicit file arguments are always read.
	Extensions []string `yaml:"extensions"`

	// SkipBlankLines drops blank lines instead of reporting them as parse errors.
	SkipBlankLines bool `yaml:"skip_blank_lines"`

	// Concurrency is the number of files of a directory parsed at once.
	Concurrency int `yaml:"concurrency"`

	Logging  LoggingConfig   `yaml:"logging"`
	Metrics  MetricsConfig   `yaml:"metrics,omitempty"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// LoggingConfig controls diagnostic output on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is where run metrics are written. Empty disables the export.
	Textfile string `yaml:"textfile,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when error-level entries or parse errors were found (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis results.
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
