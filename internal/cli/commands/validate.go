package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logstat/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logstat configuration file without running analysis.

Checks:
  - YAML syntax
  - File extensions
  - Concurrency range
  - Logging level and format
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Extensions:       %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Fprintf(out, "  Concurrency:      %d\n", cfg.Concurrency)
	fmt.Fprintf(out, "  Skip blank lines: %t\n", cfg.SkipBlankLines)
	fmt.Fprintf(out, "  Logging:          %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Metrics.Textfile != "" {
		fmt.Fprintf(out, "  Metrics textfile: %s\n", cfg.Metrics.Textfile)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  %d. %s [%s, timeout %s]\n", i+1, name, wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
