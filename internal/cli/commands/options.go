package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/logstat/internal/logging"
	"github.com/ccollicutt/logstat/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent flags shared by all commands.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// Bind registers the persistent flags on cmd.
func (g *GlobalOptions) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&g.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "Diagnostic log level (debug|info|warn|error|off)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "", "Diagnostic log format (console|json)")
}

// loadConfig reads the config file when one was given, otherwise the
// defaults with environment overrides. Logging flags win over both.
func (g *GlobalOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.ConfigFile != "" {
		cfg, err = config.Load(ctx, g.ConfigFile)
	} else {
		cfg, err = config.FromEnvironment()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Logging.Format = g.LogFormat
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
