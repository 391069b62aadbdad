package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logstat/pkg/analyzer"
	"github.com/ccollicutt/logstat/pkg/config"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	SkipBlankLines bool
	Quiet          bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(global *GlobalOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <path|glob>...",
		Short: "Report lines that do not parse",
		Long: `Parse log files and print every line that does not match the log format,
as file:line: reason followed by the line itself.

Exit codes:
  0 - Every line parsed
  1 - At least one line failed to parse
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, global, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipBlankLines, "skip-blank-lines", false, "Ignore blank lines")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print the final count")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, global *GlobalOptions, opts *CheckOptions) error {
	ctx := commandContext(cmd)

	cfg, err := global.loadConfig(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("skip-blank-lines") {
		cfg.SkipBlankLines = opts.SkipBlankLines
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	a := analyzer.New(
		analyzer.WithExtensions(cfg.Extensions...),
		analyzer.WithConcurrency(cfg.Concurrency),
		analyzer.WithSkipBlankLines(cfg.SkipBlankLines),
		analyzer.WithLogger(newLogger(cfg, cmd.ErrOrStderr())),
	)

	records, err := a.ProcessPaths(ctx, args)
	if err != nil {
		return fmt.Errorf("checking logs: %w", err)
	}

	out := cmd.OutOrStdout()
	errs := a.ParseErrors()
	if !opts.Quiet {
		for i := range errs {
			fmt.Fprintln(out, errs[i].Error())
			if errs[i].Text != "" {
				fmt.Fprintf(out, "    %s\n", errs[i].Text)
			}
		}
	}

	if len(errs) == 0 {
		fmt.Fprintf(out, "OK: %d entries in %d file(s)\n", records, len(a.Sources()))
		return nil
	}

	fmt.Fprintf(out, "%d line(s) failed to parse, %d entries in %d file(s)\n", len(errs), records, len(a.Sources()))
	ExitCode = 1
	return nil
}
