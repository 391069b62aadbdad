// Package cli provides the command-line interface for logstat.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logstat/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "logstat",
		Short: "Summarize log files",
		Long: `logstat is a batch log analysis tool that parses structured log lines
and reports statistics about them.

It reports:
  - Entries by level, component and hour of day
  - Error rate, peak hour and most active component
  - The time period covered
  - Lines that could not be parsed

Reports can be printed as text or JSON, posted to webhooks and exported
as Prometheus metrics for the node exporter textfile collector.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	global.Bind(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand(global))
	rootCmd.AddCommand(commands.NewCheckCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
