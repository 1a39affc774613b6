package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/couchcryptid/produce-price-report/internal/observability"
	"github.com/google/uuid"
)

// Source loads and normalizes the source table.
type Source interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// SelectionProvider obtains the operator's raw selection given the catalogs
// they choose from.
type SelectionProvider interface {
	Select(ctx context.Context, catalogs domain.Catalogs) (domain.RawSelection, error)
}

// SelectionReporter is implemented by providers that echo the validated
// selection and the matching record count back to the operator.
type SelectionReporter interface {
	Selected(sel domain.Selection, records int)
}

// Sink is a series consumer: it turns a Chart into an artifact.
type Sink interface {
	Name() string
	Publish(ctx context.Context, chart domain.Chart) error
}

// Result summarizes a completed run.
type Result struct {
	RunID     string
	Catalogs  domain.Catalogs
	Selection domain.Selection
	Records   int
	Aggregate domain.Aggregate
	Chart     domain.Chart
}

// Pipeline runs ingest, catalog, select, analyze and publish once, in order.
// The first failing stage ends the run.
type Pipeline struct {
	source   Source
	provider SelectionProvider
	analyzer *Analyzer
	sinks    []Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	timeout  time.Duration
}

// New creates a Pipeline. A zero publishTimeout leaves sinks bounded only by ctx.
func New(src Source, provider SelectionProvider, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics, publishTimeout time.Duration) *Pipeline {
	return &Pipeline{
		source:   src,
		provider: provider,
		analyzer: NewAnalyzer(logger, metrics),
		sinks:    sinks,
		logger:   logger,
		metrics:  metrics,
		timeout:  publishTimeout,
	}
}

// Run executes one report. Parse and selection failures are returned
// unchanged so callers can inspect them with errors.As.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", res.RunID)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var ds domain.Dataset
	err := p.stage("ingest", func() error {
		var err error
		ds, err = p.source.Load(ctx)
		return err
	})
	if err != nil {
		if domain.IsParseError(err) {
			p.metrics.ParseErrors.Inc()
		}
		logger.Error("ingest failed", "error", err)
		return res, err
	}
	p.metrics.ObservationsIngested.Add(float64(len(ds.Observations)))
	logger.Info("table ingested",
		"rows", ds.Rows,
		"locations", len(ds.Locations),
		"observations", len(ds.Observations),
	)

	start := time.Now()
	res.Catalogs = domain.BuildCatalogs(ds)
	p.observe("catalog", start)
	logger.Info("catalogs built",
		"commodities", res.Catalogs.Commodities.Len(),
		"dates", res.Catalogs.Dates.Len(),
		"locations", res.Catalogs.Locations.Len(),
	)

	err = p.stage("select", func() error {
		raw, err := p.provider.Select(ctx, res.Catalogs)
		if err != nil {
			return fmt.Errorf("read selection: %w", err)
		}
		res.Selection, err = domain.ValidateSelection(res.Catalogs, raw)
		return err
	})
	if err != nil {
		if domain.IsSelectionError(err) {
			p.metrics.SelectionErrors.Inc()
		}
		logger.Error("selection rejected", "error", err)
		return res, err
	}
	logger.Info("selection validated",
		"commodities", len(res.Selection.Commodities),
		"from", domain.FormatDate(res.Selection.Range.From),
		"through", domain.FormatDate(res.Selection.Range.Until),
		"locations", len(res.Selection.Locations),
	)

	start = time.Now()
	a := p.analyzer.Analyze(ctx, logger, ds.Observations, res.Selection)
	p.observe("analyze", start)
	res.Records, res.Aggregate, res.Chart = a.Records, a.Aggregate, a.Chart
	res.Chart.RunID = res.RunID
	if r, ok := p.provider.(SelectionReporter); ok {
		r.Selected(res.Selection, res.Records)
	}

	if err := p.stage("publish", func() error { return p.publish(ctx, logger, res.Chart) }); err != nil {
		return res, err
	}

	logger.Info("report complete", "records", res.Records, "groups", len(res.Aggregate))
	return res, nil
}

// publish hands the chart to each sink in order under a shared deadline.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, chart domain.Chart) error {
	if len(p.sinks) == 0 {
		logger.Warn("no series consumers configured")
		return nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	for _, s := range p.sinks {
		if err := s.Publish(ctx, chart); err != nil {
			p.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
			logger.Error("publish chart failed", "sink", s.Name(), "error", err)
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("publish to %s: timed out: %w", s.Name(), err)
			}
			return fmt.Errorf("publish to %s: %w", s.Name(), err)
		}
		logger.Info("chart published", "sink", s.Name())
	}
	return nil
}

func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.observe(name, start)
	return err
}

func (p *Pipeline) observe(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
