// Package tablefile loads the wide produce price table from a CSV file or an
// Excel workbook.
package tablefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for input paths that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported table format")

type format int

// dateColumn is the 1-based workbook column holding the observation date.
const dateColumn = 2

const (
	formatCSV format = iota
	formatXLSX
)

// Source reads the table at a fixed path. It implements pipeline.Source.
type Source struct {
	path   string
	sheet  string
	format format
	logger *slog.Logger
}

// New returns a Source for path, choosing the reader by file extension. sheet
// selects the worksheet of a workbook; empty means the first sheet.
func New(path, sheet string, logger *slog.Logger) (*Source, error) {
	s := &Source{path: path, sheet: sheet, logger: logger}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		s.format = formatCSV
	case ".xlsx", ".xlsm":
		s.format = formatXLSX
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return s, nil
}

// Load reads and normalizes the table.
func (s *Source) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	if s.format == formatXLSX {
		return s.loadWorkbook()
	}
	return s.loadCSV()
}

func (s *Source) loadCSV() (domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open source table: %w", err)
	}
	defer f.Close()

	s.logger.Debug("reading csv table", "path", s.path)
	return domain.ReadCSV(f)
}

func (s *Source) loadWorkbook() (domain.Dataset, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open source workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.Dataset{}, fmt.Errorf("workbook %s has no sheets", s.path)
		}
		sheet = sheets[0]
	}

	// Raw values keep prices and date serials independent of cell formatting.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	s.logger.Debug("reading workbook table", "path", s.path, "sheet", sheet, "rows", len(rows))

	rows = trimRows(rows)
	serials, err := dateSerials(f, sheet, len(rows))
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.ParseTable(normalizeRows(rows, serials))
}

// trimRows drops the trailing empty rows excelize reports for formatted but
// blank cells.
func trimRows(rows [][]string) [][]string {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// dateSerials reports, per row index, whether the date cell holds a numeric
// value. Text cells are left for the date parser to accept or reject.
func dateSerials(f *excelize.File, sheet string, n int) ([]bool, error) {
	serials := make([]bool, n)
	for i := 1; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(dateColumn, i+1)
		if err != nil {
			return nil, err
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("read cell type %s: %w", cell, err)
		}
		switch typ {
		case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
			serials[i] = true
		}
	}
	return serials, nil
}

// normalizeRows undoes excelize's trimming: short rows are padded to the
// header width so blank cells reach the parser as blank prices. Date cells
// flagged in serials are rewritten in the source date layout.
func normalizeRows(rows [][]string, serials []bool) [][]string {
	if len(rows) == 0 {
		return rows
	}

	width := len(rows[0])
	out := make([][]string, len(rows))
	out[0] = rows[0]
	for i, row := range rows[1:] {
		padded := make([]string, max(width, len(row)))
		copy(padded, row)
		if len(padded) >= dateColumn && i+1 < len(serials) && serials[i+1] {
			padded[dateColumn-1] = serialToDate(padded[dateColumn-1])
		}
		out[i+1] = padded
	}
	return out
}

func serialToDate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(domain.SourceDateLayout)
}
