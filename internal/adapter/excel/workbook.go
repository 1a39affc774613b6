// Package excel writes the averaged prices and a native column chart to an
// Excel workbook.
package excel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/produce-price-report/internal/config"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	averagesSheet = "Averages"
	reportSheet   = "Report"

	currencyFormat = "$#,##0.00"

	chartWidth  = 720
	chartHeight = 432
)

// Workbook is a pipeline.Sink that saves the chart as an .xlsx file.
type Workbook struct {
	path   string
	logger *slog.Logger
}

// NewWorkbook creates a Workbook sink writing to XLSX_PATH.
func NewWorkbook(cfg *config.Config, logger *slog.Logger) *Workbook {
	return &Workbook{path: cfg.XLSXPath, logger: logger}
}

func (w *Workbook) Name() string { return "xlsx" }

// Publish builds the workbook and saves it, replacing any existing file.
func (w *Workbook) Publish(ctx context.Context, chart domain.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := build(chart)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workbook directory: %w", err)
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}

	w.logger.Debug("workbook written", "path", w.path, "categories", len(chart.Categories))
	return nil
}

// build lays out the Averages sheet as a commodity x location grid, one
// column per series, and anchors a clustered column chart beside it.
// Missing points are left as blank cells.
func build(chart domain.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", averagesSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeAverages(f, chart); err != nil {
		f.Close()
		return nil, fmt.Errorf("write averages: %w", err)
	}
	if err := writeReport(f, chart); err != nil {
		f.Close()
		return nil, fmt.Errorf("write report sheet: %w", err)
	}
	if len(chart.Categories) > 0 && len(chart.Series) > 0 {
		if err := addChart(f, chart); err != nil {
			f.Close()
			return nil, fmt.Errorf("add chart: %w", err)
		}
	}
	return f, nil
}

func writeAverages(f *excelize.File, chart domain.Chart) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	numFmt := currencyFormat
	priceStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(averagesSheet, "A1", chart.XAxisTitle); err != nil {
		return err
	}
	for i, s := range chart.Series {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		if err := f.SetCellValue(averagesSheet, cell, s.Location); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(averagesSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, commodity := range chart.Categories {
		row := r + 2
		if err := f.SetCellValue(averagesSheet, fmt.Sprintf("A%d", row), commodity); err != nil {
			return err
		}
		for c, s := range chart.Series {
			if r >= len(s.Points) {
				continue
			}
			v, ok := s.Points[r].Value()
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, row)
			if err := f.SetCellValue(averagesSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if n := len(chart.Series); n > 0 && len(chart.Categories) > 0 {
		first, _ := excelize.CoordinatesToCellName(2, 2)
		last, _ := excelize.CoordinatesToCellName(n+1, len(chart.Categories)+1)
		if err := f.SetCellStyle(averagesSheet, first, last, priceStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(averagesSheet, "A", "A", 20); err != nil {
		return err
	}
	return nil
}

func writeReport(f *excelize.File, chart domain.Chart) error {
	if _, err := f.NewSheet(reportSheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Title", chart.Title},
		{"From", chart.From},
		{"Through", chart.Through},
		{"Records", chart.Records},
		{"Generated At", chart.GeneratedAt.UTC().Format("2006-01-02 15:04:05Z")},
		{"Run ID", chart.RunID},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(reportSheet, "A", "A", 16)
}

func addChart(f *excelize.File, chart domain.Chart) error {
	lastRow := len(chart.Categories) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", averagesSheet, lastRow)

	series := make([]excelize.ChartSeries, 0, len(chart.Series))
	for i := range chart.Series {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", averagesSheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", averagesSheet, col, col, lastRow),
		})
	}

	anchor, _ := excelize.CoordinatesToCellName(len(chart.Series)+3, 2)
	return f.AddChart(averagesSheet, anchor, &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: chart.Title}},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: chart.XAxisTitle}},
		},
		YAxis: excelize.ChartAxis{
			Title:  []excelize.RichTextRun{{Text: chart.YAxisTitle}},
			NumFmt: excelize.ChartNumFmt{CustomNumFmt: currencyFormat},
		},
		Legend:    excelize.ChartLegend{Position: "top"},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	})
}
