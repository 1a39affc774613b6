package excel

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/produce-price-report/internal/config"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleChart() domain.Chart {
	corn, beans, eastCorn := 3.0, 1.25, 2.5
	return domain.Chart{
		RunID:       "run-1",
		Title:       domain.ChartTitle("2020-01-01", "2020-01-02"),
		XAxisTitle:  domain.ChartXAxisTitle,
		YAxisTitle:  domain.ChartYAxisTitle,
		YTickFormat: domain.ChartYTickFormat,
		Categories:  []string{"Corn", "Beans"},
		Series: []domain.Series{
			{Location: "North", Points: []domain.Point{{Commodity: "Corn", Price: &corn}, {Commodity: "Beans", Price: &beans}}},
			{Location: "East", Points: []domain.Point{{Commodity: "Corn", Price: &eastCorn}, {Commodity: "Beans"}}},
		},
		From:        "2020-01-01",
		Through:     "2020-01-02",
		Records:     5,
		GeneratedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func publish(t *testing.T, chart domain.Chart) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports", "produce.xlsx")
	w := NewWorkbook(&config.Config{XLSXPath: path}, slog.Default())
	assert.Equal(t, "xlsx", w.Name())
	require.NoError(t, w.Publish(context.Background(), chart))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook_Publish(t *testing.T) {
	f := publish(t, sampleChart())

	assert.Equal(t, []string{"Averages", "Report"}, f.GetSheetList())

	rows, err := f.GetRows(averagesSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Product", "North", "East"}, rows[0])
	assert.Equal(t, []string{"Corn", "3", "2.5"}, rows[1])
	// Missing East/Beans stays blank and excelize trims the trailing cell.
	assert.Equal(t, []string{"Beans", "1.25"}, rows[2])

	styleID, err := f.GetCellStyle(averagesSheet, "C2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.CustomNumFmt)
	assert.Equal(t, currencyFormat, *style.CustomNumFmt)
}

func TestWorkbook_ReportSheet(t *testing.T) {
	f := publish(t, sampleChart())

	title, err := f.GetCellValue(reportSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Produce Prices from 2020-01-01 through 2020-01-02", title)

	records, err := f.GetCellValue(reportSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "5", records)

	runID, err := f.GetCellValue(reportSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)
}

func TestWorkbook_EmptyChart(t *testing.T) {
	f := publish(t, domain.Chart{XAxisTitle: domain.ChartXAxisTitle, Title: "empty"})

	rows, err := f.GetRows(averagesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Product"}}, rows)
}

func TestWorkbook_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorkbook(&config.Config{XLSXPath: filepath.Join(t.TempDir(), "x.xlsx")}, slog.Default())
	require.ErrorIs(t, w.Publish(ctx, sampleChart()), context.Canceled)
}
