// Package metrics records Prometheus metrics for an analysis run and writes
// them in the text exposition format for the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ccollicutt/logstat/pkg/stats"
)

// Namespace for all metrics
const namespace = "logstat"

// Collector holds the metrics of a single run on a private registry.
type Collector struct {
	FilesProcessed prometheus.Counter
	LinesRead      prometheus.Counter
	RecordsParsed  prometheus.Counter
	ParseErrors    *prometheus.CounterVec

	Entries        *prometheus.GaugeVec
	Components     *prometheus.GaugeVec
	ErrorRate      prometheus.Gauge
	LastRunSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Number of log files read.",
		}),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Number of lines read from log files.",
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Number of lines parsed into records.",
		}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Number of lines that failed to parse, by cause.",
		}, []string{"kind"}),
		Entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Entries in the last analysis, by level.",
		}, []string{"level"}),
		Components: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "component_entries",
			Help:      "Entries in the last analysis, by component.",
		}, []string{"component"}),
		ErrorRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "error_rate",
			Help:      "Fraction of entries at Error or Fatal level.",
		}),
		LastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last analysis finished.",
		}),
		registry: registry,
	}

	registry.MustRegister(
		c.FilesProcessed,
		c.LinesRead,
		c.RecordsParsed,
		c.ParseErrors,
		c.Entries,
		c.Components,
		c.ErrorRate,
		c.LastRunSeconds,
	)

	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveFile records the outcome of reading one file.
func (c *Collector) ObserveFile(lines, records int, errorKinds map[string]int) {
	c.FilesProcessed.Inc()
	c.LinesRead.Add(float64(lines))
	c.RecordsParsed.Add(float64(records))
	for kind, n := range errorKinds {
		c.ParseErrors.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveStatistics publishes the aggregate of a finished run.
func (c *Collector) ObserveStatistics(s stats.Statistics, finishedUnix float64) {
	c.Entries.Reset()
	for level, n := range s.EntriesByLevel {
		c.Entries.WithLabelValues(level.String()).Set(float64(n))
	}
	c.Components.Reset()
	for component, n := range s.EntriesByComponent {
		c.Components.WithLabelValues(component).Set(float64(n))
	}
	c.ErrorRate.Set(s.ErrorRate)
	c.LastRunSeconds.Set(finishedUnix)
}

// WriteTextfile atomically writes all metrics to path.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
