package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultExtension      = ".log"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultWebhookTimeout = 10 * time.Second
	MaxConcurrency        = 64
)

// Environment variable names.
const (
	EnvExtensions  = "LOGSTAT_EXTENSIONS"
	EnvLogLevel    = "LOGSTAT_LOG_LEVEL"
	EnvConcurrency = "LOGSTAT_CONCURRENCY"
)

// DefaultConcurrency is the default number of files parsed at once.
func DefaultConcurrency() int {
	n := runtime.NumCPU()
	if n > MaxConcurrency {
		n = MaxConcurrency
	}
	return n
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extensions:  []string{DefaultExtension},
		Concurrency: DefaultConcurrency(),
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if exts := os.Getenv(EnvExtensions); exts != "" {
		c.Extensions = splitList(exts)
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}

	// Invalid numbers are left for Validate to reject
	if n := os.Getenv(EnvConcurrency); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			c.Concurrency = v
		} else {
			c.Concurrency = -1
		}
	}
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
