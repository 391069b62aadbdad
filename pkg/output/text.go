package output

import (
	"context"
	"fmt"
	"io"
)

const (
	reportHeader = "================== LOG ANALYSIS REPORT =================="
	reportFooter = "========================================================="
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logstat: %d entries, %d errors (%.2f%%), %d parse errors\n",
		report.Summary.TotalEntries,
		report.Summary.ErrorCount,
		report.Summary.ErrorRate*100,
		report.Summary.ParseErrorCount)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	s := report.Statistics()

	fmt.Fprintln(w, reportHeader)

	if report.Period != nil {
		fmt.Fprintf(w, "Period: %s to %s\n", report.Period.Start, report.Period.End)
	}

	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "Total Entries: %d\n", report.Summary.TotalEntries)
	fmt.Fprintf(w, "Error Rate: %.2f%%\n", report.Summary.ErrorRate*100)

	if report.PeakHour != nil {
		fmt.Fprintf(w, "Peak Hour: %02d:00 (%d entries)\n", *report.PeakHour, report.ByHour[*report.PeakHour])
	}
	if report.MostActiveComponent != nil {
		fmt.Fprintf(w, "Most Active: %s (%d entries)\n", *report.MostActiveComponent, report.ByComponent[*report.MostActiveComponent])
	}

	fmt.Fprintln(w, "BY LOG LEVEL")
	fmt.Fprintln(w, "------------")
	for _, level := range s.Levels() {
		n := s.EntriesByLevel[level]
		fmt.Fprintf(w, "%-6s %d (%.1f%%)\n", level, n, s.Percent(n))
	}

	fmt.Fprintln(w, "BY COMPONENT")
	fmt.Fprintln(w, "------------")
	for _, c := range s.ComponentsByCount() {
		fmt.Fprintf(w, "%-10s %d (%.1f%%)\n", c.Name, c.Count, s.Percent(c.Count))
	}

	fmt.Fprintf(w, "Parse Errors: %d lines skipped\n", report.Summary.ParseErrorCount)

	if f.opts.Verbose {
		for _, pe := range report.ParseErrors {
			fmt.Fprintf(w, "  %s:%d: %s\n", pe.Source, pe.Line, pe.Reason)
		}
		fmt.Fprintf(w, "Sources: %d files\n", len(report.Metadata.Sources))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		fmt.Fprintf(w, "Run ID: %s\n", report.Metadata.RunID)
	}

	_, err := fmt.Fprintln(w, reportFooter)
	return err
}
