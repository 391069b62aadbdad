package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logstat/pkg/analyzer"
	"github.com/ccollicutt/logstat/pkg/config"
	"github.com/ccollicutt/logstat/pkg/metrics"
	"github.com/ccollicutt/logstat/pkg/output"
	"github.com/ccollicutt/logstat/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Verbose bool
	Quiet   bool

	Concurrency     int
	SkipBlankLines  bool
	MetricsTextfile string
	FailOnErrors    bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(global *GlobalOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <path|glob>...",
		Short: "Compute statistics over log files",
		Long: `Parse log files and report statistics.

Each argument is a file, a directory or a glob pattern. Directories are
scanned (non-recursively) for files with the configured extensions,
.log by default. Lines must look like:

  2024-01-15 10:23:45 [ERROR] storage: Failed to mount /dev/sda1

Lines that do not parse are counted and skipped.

Exit codes:
  0 - Analysis completed
  1 - Error-level entries or parse errors found (with --fail-on-errors)
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include parse error details and run metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Files of a directory parsed at once (default from config)")
	cmd.Flags().BoolVar(&opts.SkipBlankLines, "skip-blank-lines", false, "Ignore blank lines instead of counting them as parse errors")
	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.FailOnErrors, "fail-on-errors", false, "Exit 1 when error-level entries or parse errors are found")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, global *GlobalOptions, opts *AnalyzeOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := global.loadConfig(ctx)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = opts.Concurrency
	}
	if cmd.Flags().Changed("skip-blank-lines") {
		cfg.SkipBlankLines = opts.SkipBlankLines
	}
	if opts.MetricsTextfile != "" {
		cfg.Metrics.Textfile = opts.MetricsTextfile
	}
	cfg.Webhooks = collectWebhooks(cfg, opts)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	collector := metrics.NewCollector()

	a := analyzer.New(
		analyzer.WithExtensions(cfg.Extensions...),
		analyzer.WithConcurrency(cfg.Concurrency),
		analyzer.WithSkipBlankLines(cfg.SkipBlankLines),
		analyzer.WithLogger(logger),
		analyzer.WithMetrics(collector),
	)

	if _, err := a.ProcessPaths(ctx, args); err != nil {
		return fmt.Errorf("analyzing logs: %w", err)
	}

	s := a.Statistics()
	report := output.NewReport(s, a.ParseErrors(), a.Sources())
	report.Metadata.ConfigFile = global.ConfigFile
	report.Metadata.Duration = time.Since(start)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	logger.Info().
		Str("run_id", report.Metadata.RunID).
		Int("files", len(report.Metadata.Sources)).
		Int("entries", report.Summary.TotalEntries).
		Int("parse_errors", report.Summary.ParseErrorCount).
		Dur("duration", report.Metadata.Duration).
		Msg("analysis complete")

	if cfg.Metrics.Textfile != "" {
		collector.ObserveStatistics(s, float64(time.Now().Unix()))
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("writing metrics textfile: %w", err)
		}
		logger.Debug().Str("path", cfg.Metrics.Textfile).Msg("metrics written")
	}

	// Webhook failures are logged but don't fail the analysis
	if len(cfg.Webhooks) > 0 {
		client := webhook.NewClient(webhook.WithLogger(logger))
		client.Notify(ctx, report, cfg.Webhooks)
	}

	if opts.FailOnErrors && report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
