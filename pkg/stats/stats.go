// Package stats folds parsed log records into summary statistics.
package stats

import (
	"sort"

	"github.com/ccollicutt/logstat/pkg/parser"
)

// Statistics is a snapshot computed from a sequence of records.
// Optional fields are nil when the input was empty.
type Statistics struct {
	TotalEntries       int                     `json:"total_entries"`
	EntriesByLevel     map[parser.Severity]int `json:"entries_by_level"`
	EntriesByComponent map[string]int          `json:"entries_by_component"`
	EntriesByHour      map[int]int             `json:"entries_by_hour"`

	// ErrorCount counts Error and Fatal records.
	ErrorCount int     `json:"error_count"`
	ErrorRate  float64 `json:"error_rate"`

	MostActiveComponent *string           `json:"most_active_component,omitempty"`
	PeakHour            *int              `json:"peak_hour,omitempty"`
	FirstEntry          *parser.Timestamp `json:"first_entry,omitempty"`
	LastEntry           *parser.Timestamp `json:"last_entry,omitempty"`

	// ComponentOrder and HourOrder list keys in first-seen order.
	ComponentOrder []string `json:"-"`
	HourOrder      []int    `json:"-"`
}

// Compute builds Statistics from records. The slice is only read.
func Compute(records []parser.Record) Statistics {
	s := Statistics{
		TotalEntries:       len(records),
		EntriesByLevel:     make(map[parser.Severity]int),
		EntriesByComponent: make(map[string]int),
		EntriesByHour:      make(map[int]int),
	}

	var first, last parser.Timestamp
	for i := range records {
		r := &records[i]

		s.EntriesByLevel[r.Severity]++

		if _, ok := s.EntriesByComponent[r.Component]; !ok {
			s.ComponentOrder = append(s.ComponentOrder, r.Component)
		}
		s.EntriesByComponent[r.Component]++

		hour := r.Timestamp.Hour()
		if _, ok := s.EntriesByHour[hour]; !ok {
			s.HourOrder = append(s.HourOrder, hour)
		}
		s.EntriesByHour[hour]++

		if r.Severity.IsErrorClass() {
			s.ErrorCount++
		}

		// Strict comparisons keep the first of equal timestamps.
		if i == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if i == 0 || r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}

	if s.TotalEntries == 0 {
		return s
	}

	s.ErrorRate = float64(s.ErrorCount) / float64(s.TotalEntries)
	s.FirstEntry = &first
	s.LastEntry = &last

	if name, ok := maxByCount(s.ComponentOrder, s.EntriesByComponent); ok {
		s.MostActiveComponent = &name
	}
	if hour, ok := maxByCount(s.HourOrder, s.EntriesByHour); ok {
		s.PeakHour = &hour
	}

	return s
}

// maxByCount walks keys in order and keeps the leader unless a later key
// has a strictly greater count.
func maxByCount[K comparable](keys []K, counts map[K]int) (K, bool) {
	var best K
	bestCount := 0
	found := false
	for _, k := range keys {
		if c := counts[k]; !found || c > bestCount {
			best, bestCount, found = k, c, true
		}
	}
	return best, found
}

// Percent returns count as a percentage of TotalEntries, or 0 when empty.
func (s *Statistics) Percent(count int) float64 {
	if s.TotalEntries == 0 {
		return 0
	}
	return float64(count) / float64(s.TotalEntries) * 100
}

// ComponentCount pairs a component name with its entry count.
type ComponentCount struct {
	Name  string
	Count int
}

// ComponentsByCount returns components by descending count; ties keep
// first-seen order.
func (s *Statistics) ComponentsByCount() []ComponentCount {
	out := make([]ComponentCount, 0, len(s.ComponentOrder))
	for _, name := range s.ComponentOrder {
		out = append(out, ComponentCount{Name: name, Count: s.EntriesByComponent[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Levels returns the severities present, in rank order.
func (s *Statistics) Levels() []parser.Severity {
	var out []parser.Severity
	for _, sev := range parser.Severities() {
		if _, ok := s.EntriesByLevel[sev]; ok {
			out = append(out, sev)
		}
	}
	return out
}
