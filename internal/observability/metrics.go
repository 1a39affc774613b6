package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "produce_report"

// Metrics holds the Prometheus counters, histograms, and gauges for a report run.
type Metrics struct {
	ObservationsIngested prometheus.Counter
	ParseErrors          prometheus.Counter
	SelectionErrors      prometheus.Counter
	RecordsSelected      prometheus.Gauge
	AggregateGroups      prometheus.Gauge
	PipelineRunning      prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage={ingest,catalog,select,analyze,publish}
	SinkErrors    *prometheus.CounterVec   // labels: sink
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// WriteTextfile writes the default registry in the text exposition format,
// for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_ingested_total",
			Help:      "Observations produced by normalizing the source table.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Source tables rejected because of a malformed cell or row.",
		}),
		SelectionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_errors_total",
			Help:      "Operator selections rejected by validation.",
		}),
		RecordsSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_selected",
			Help:      "Observations matching the current selection.",
		}),
		AggregateGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "aggregate_groups",
			Help:      "(commodity, location) groups with at least one observation.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a report run is in progress, 0 otherwise.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Chart deliveries that failed, by sink.",
		}, []string{"sink"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ObservationsIngested,
		m.ParseErrors,
		m.SelectionErrors,
		m.RecordsSelected,
		m.AggregateGroups,
		m.PipelineRunning,
		m.StageDuration,
		m.SinkErrors,
	}
}
