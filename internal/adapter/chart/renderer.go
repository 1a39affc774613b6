// Package chart renders a grouped bar chart image with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/produce-price-report/internal/config"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// groupWidth is the horizontal space shared by one category's bars.
const groupWidth = vg.Length(60)

// Renderer writes the chart to an image file. The format follows the file
// extension (.png, .svg, .pdf, .jpg). It implements pipeline.Sink.
type Renderer struct {
	path   string
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates a Renderer for CHART_PATH at CHART_WIDTH x CHART_HEIGHT.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		path:   cfg.ChartPath,
		width:  vg.Length(cfg.ChartWidth),
		height: vg.Length(cfg.ChartHeight),
		logger: logger,
	}
}

func (r *Renderer) Name() string { return "chart" }

// Publish draws the chart and saves it, replacing any existing file.
func (r *Renderer) Publish(ctx context.Context, chart domain.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := newPlot(chart)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}
	if err := p.Save(r.width, r.height, r.path); err != nil {
		return fmt.Errorf("save chart %s: %w", r.path, err)
	}

	r.logger.Debug("chart rendered", "path", r.path, "series", len(chart.Series))
	return nil
}

// newPlot lays out one bar set per series, offset side by side within each
// category. Points without data are drawn as zero-height bars.
func newPlot(chart domain.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = chart.XAxisTitle
	p.Y.Label.Text = chart.YAxisTitle
	p.Y.Min = 0
	p.Y.Tick.Marker = priceTicks
	p.Legend.Top = true

	if len(chart.Categories) == 0 || len(chart.Series) == 0 {
		return p, nil
	}

	n := len(chart.Series)
	barWidth := groupWidth / vg.Length(n)
	for i, s := range chart.Series {
		values := make(plotter.Values, len(s.Points))
		for j, pt := range s.Points {
			if v, ok := pt.Value(); ok {
				values[j] = v
			}
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("bars for %s: %w", s.Location, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth

		p.Add(bars)
		p.Legend.Add(s.Location, bars)
	}
	p.NominalX(chart.Categories...)
	return p, nil
}

// priceTicks labels the y axis in the chart's currency format.
var priceTicks = plot.TickerFunc(func(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = domain.FormatPrice(ticks[i].Value)
		}
	}
	return ticks
})
