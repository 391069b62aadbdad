// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/logstat/pkg/parser"
	"github.com/ccollicutt/logstat/pkg/stats"
)

// Report is the complete analysis output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// ByLevel maps severity names to entry counts.
	ByLevel map[string]int `json:"by_level"`

	// ByComponent maps component names to entry counts.
	ByComponent map[string]int `json:"by_component"`

	// ByHour maps hour of day to entry counts.
	ByHour map[int]int `json:"by_hour"`

	PeakHour            *int    `json:"peak_hour,omitempty"`
	MostActiveComponent *string `json:"most_active_component,omitempty"`

	// Period is the time span covered, absent when nothing parsed.
	Period *Period `json:"period,omitempty"`

	// ParseErrors lists the lines that failed to parse.
	ParseErrors []ErrorDetail `json:"parse_errors,omitempty"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`

	stats stats.Statistics
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalEntries    int     `json:"total_entries"`
	ErrorCount      int     `json:"error_count"`
	ErrorRate       float64 `json:"error_rate"`
	ParseErrorCount int     `json:"parse_error_count"`
}

// Period is the earliest and latest timestamp seen.
type Period struct {
	Start parser.Timestamp `json:"start"`
	End   parser.Timestamp `json:"end"`
}

// ErrorDetail describes one line that failed to parse.
type ErrorDetail struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
	Text   string `json:"text"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// RunID identifies this run in webhook deliveries and logs.
	RunID string `json:"run_id"`

	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the log files that were analyzed.
	Sources []string `json:"sources"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from statistics and the collected parse errors.
func NewReport(s stats.Statistics, parseErrors []parser.ParseError, sources []string) *Report {
	report := &Report{
		Summary: Summary{
			TotalEntries:    s.TotalEntries,
			ErrorCount:      s.ErrorCount,
			ErrorRate:       s.ErrorRate,
			ParseErrorCount: len(parseErrors),
		},
		ByLevel:             make(map[string]int, len(s.EntriesByLevel)),
		ByComponent:         make(map[string]int, len(s.EntriesByComponent)),
		ByHour:              make(map[int]int, len(s.EntriesByHour)),
		PeakHour:            s.PeakHour,
		MostActiveComponent: s.MostActiveComponent,
		Metadata: Metadata{
			RunID:      uuid.NewString(),
			Sources:    sources,
			AnalyzedAt: time.Now(),
		},
		stats: s,
	}

	for level, n := range s.EntriesByLevel {
		report.ByLevel[level.String()] = n
	}
	for component, n := range s.EntriesByComponent {
		report.ByComponent[component] = n
	}
	for hour, n := range s.EntriesByHour {
		report.ByHour[hour] = n
	}

	if s.FirstEntry != nil && s.LastEntry != nil {
		report.Period = &Period{Start: *s.FirstEntry, End: *s.LastEntry}
	}

	for i := range parseErrors {
		pe := &parseErrors[i]
		report.ParseErrors = append(report.ParseErrors, ErrorDetail{
			Source: pe.Source,
			Line:   pe.Line,
			Kind:   pe.Kind(),
			Reason: pe.Reason,
			Text:   pe.Text,
		})
	}

	return report
}

// Statistics returns the statistics the report was built from.
func (r *Report) Statistics() stats.Statistics {
	return r.stats
}

// HasIssues returns true if any error-class entries were counted or any
// line failed to parse.
func (r *Report) HasIssues() bool {
	return r.Summary.ErrorCount > 0 || r.Summary.ParseErrorCount > 0
}
