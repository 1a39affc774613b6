package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/couchcryptid/produce-price-report/internal/observability"
)

// Analysis is the filtered, aggregated and charted view of one selection.
type Analysis struct {
	Records   int
	Aggregate domain.Aggregate
	Chart     domain.Chart
}

// Analyzer runs filter, aggregate and series building over a dataset.
type Analyzer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAnalyzer creates an Analyzer that reports through logger and metrics.
func NewAnalyzer(logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{logger: logger, metrics: metrics}
}

// Analyze never fails. An empty filter result or aggregate is logged as a
// warning and still produces a (possibly empty) chart. ctx is handed to the
// log handler.
func (a *Analyzer) Analyze(ctx context.Context, logger *slog.Logger, observations []domain.Observation, sel domain.Selection) Analysis {
	if logger == nil {
		logger = a.logger
	}

	records := domain.Filter(observations, sel)
	a.metrics.RecordsSelected.Set(float64(len(records)))
	logger.InfoContext(ctx, "records selected", "records", len(records))

	agg := domain.AggregateMeans(records, sel.Commodities, sel.Locations)
	a.metrics.AggregateGroups.Set(float64(len(agg)))

	if len(records) == 0 || len(agg) == 0 {
		logger.LogAttrs(ctx, slog.LevelWarn, domain.ErrEmptyResult.Error(),
			slog.Int("records", len(records)),
			slog.Int("groups", len(agg)),
		)
	}

	return Analysis{
		Records:   len(records),
		Aggregate: agg,
		Chart:     domain.BuildChart(agg, sel, len(records)),
	}
}
