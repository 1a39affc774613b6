package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SourceDateLayout is the month/day/year layout of the date column.
	// Non-padded months and days are accepted.
	SourceDateLayout = "1/2/2006"

	// DisplayDateLayout renders catalog dates and chart titles.
	DisplayDateLayout = "2006-01-02"

	// CurrencySymbol is stripped from the front of every price cell.
	CurrencySymbol = "$"

	// labelColumns is the number of leading header cells (commodity, date)
	// that precede the location columns.
	labelColumns = 2
)

var (
	errEmptyTable  = errors.New("table has no header row")
	errShortHeader = errors.New("header must have commodity and date columns")
	errEmptyPrice  = errors.New("empty price")
	errColumnCount = errors.New("column count differs from header")
)

// ReadCSV reads a comma-delimited wide-format price table and normalizes it.
// The reader is consumed once and fully materialized.
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	// Row width is checked by ParseTable so the error carries the line.
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, &ParseError{Field: "table", Err: err}
	}
	return ParseTable(rows)
}

// ParseTable normalizes already-split rows. rows[0] is the header; every
// following row is exploded into one Observation per location column.
func ParseTable(rows [][]string) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, &ParseError{Field: "header", Err: errEmptyTable}
	}
	header := rows[0]
	if len(header) < labelColumns {
		return Dataset{}, &ParseError{Line: 1, Field: "header", Err: errShortHeader}
	}

	locations := make([]string, 0, len(header)-labelColumns)
	for _, h := range header[labelColumns:] {
		locations = append(locations, strings.TrimSpace(h))
	}

	data := rows[1:]
	observations := make([]Observation, 0, len(data)*len(locations))
	for i, row := range data {
		line := i + 2
		parsed, err := parseRow(row, line, locations)
		if err != nil {
			return Dataset{}, err
		}
		observations = append(observations, parsed...)
	}

	return Dataset{
		Observations: observations,
		Locations:    locations,
		Rows:         len(data),
	}, nil
}

// parseRow explodes one data row into observations, one per location.
func parseRow(row []string, line int, locations []string) ([]Observation, error) {
	if len(row) != labelColumns+len(locations) {
		return nil, &ParseError{
			Line:  line,
			Field: "row",
			Err:   fmt.Errorf("%w: got %d, want %d", errColumnCount, len(row), labelColumns+len(locations)),
		}
	}

	commodity := strings.TrimSpace(row[0])
	date, err := ParseSourceDate(row[1])
	if err != nil {
		return nil, &ParseError{Line: line, Column: 2, Field: "date", Value: row[1], Err: err}
	}

	out := make([]Observation, len(locations))
	for j, location := range locations {
		cell := row[labelColumns+j]
		price, err := ParsePrice(cell)
		if err != nil {
			return nil, &ParseError{Line: line, Column: labelColumns + j + 1, Field: "price", Value: cell, Err: err}
		}
		out[j] = Observation{
			Commodity: commodity,
			Date:      date,
			Location:  location,
			Price:     price,
		}
	}
	return out, nil
}

// ParseSourceDate parses a month/day/year cell into a UTC calendar date.
func ParseSourceDate(s string) (time.Time, error) {
	t, err := time.Parse(SourceDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParsePrice strips a leading currency symbol and parses the remainder as a
// decimal number. Blank cells are an error, not missing data.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errEmptyPrice
	}
	return decimal.NewFromString(s)
}

// FormatDate renders a calendar date in the display layout.
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}
