package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawSelection is the operator's free-text input for each dimension: a
// whitespace-separated list of catalog indices. Dates must hold exactly two
// indices, the inclusive start and end of a range.
type RawSelection struct {
	Commodities string
	Dates       string
	Locations   string
}

// DateRange is a validated inclusive range over the date catalog.
type DateRange struct {
	Start int
	End   int
	From  time.Time
	Until time.Time
}

// Selection is the validated operator choice, expressed as catalog values.
// Commodity and location order and duplicates are preserved as entered.
type Selection struct {
	Commodities []string
	Dates       []time.Time
	Locations   []string
	Range       DateRange
}

// ValidateSelection converts raw index input into catalog values. Dimensions
// are checked in order commodity, date, location and the first failure is
// returned as a *SelectionError.
func ValidateSelection(c Catalogs, raw RawSelection) (Selection, error) {
	commodities, err := SelectIndices(DimensionCommodity, c.Commodities, raw.Commodities)
	if err != nil {
		return Selection{}, err
	}

	dateRange, dates, err := SelectDateRange(c.Dates, raw.Dates)
	if err != nil {
		return Selection{}, err
	}

	locations, err := SelectIndices(DimensionLocation, c.Locations, raw.Locations)
	if err != nil {
		return Selection{}, err
	}

	return Selection{
		Commodities: commodities,
		Dates:       dates,
		Locations:   locations,
		Range:       dateRange,
	}, nil
}

// SelectIndices resolves every whitespace-separated index in input against
// the catalog, keeping the order and duplicates of the input.
func SelectIndices[T comparable](dim Dimension, cat Catalog[T], input string) ([]T, error) {
	tokens := strings.Fields(input)
	out := make([]T, 0, len(tokens))
	for _, tok := range tokens {
		i, err := parseIndex(dim, input, tok)
		if err != nil {
			return nil, err
		}
		v, ok := cat.At(i)
		if !ok {
			return nil, &SelectionError{
				Dimension: dim,
				Input:     input,
				Reason:    fmt.Sprintf("index %d out of range 0..%d", i, cat.MaxIndex()),
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// SelectDateRange validates a "start end" pair against the date catalog and
// expands it to the dates at indices start..end inclusive. The pair is
// accepted iff 0 <= start <= end <= MaxIndex.
func SelectDateRange(cat Catalog[time.Time], input string) (DateRange, []time.Time, error) {
	tokens := strings.Fields(input)
	if len(tokens) != 2 {
		return DateRange{}, nil, &SelectionError{
			Dimension: DimensionDate,
			Input:     input,
			Reason:    fmt.Sprintf("want exactly 2 indices (start end), got %d", len(tokens)),
		}
	}

	start, err := parseIndex(DimensionDate, input, tokens[0])
	if err != nil {
		return DateRange{}, nil, err
	}
	end, err := parseIndex(DimensionDate, input, tokens[1])
	if err != nil {
		return DateRange{}, nil, err
	}

	switch {
	case start < 0 || end < 0 || start > cat.MaxIndex() || end > cat.MaxIndex():
		return DateRange{}, nil, &SelectionError{
			Dimension: DimensionDate,
			Input:     input,
			Reason:    fmt.Sprintf("indices must be within 0..%d", cat.MaxIndex()),
		}
	case end < start:
		return DateRange{}, nil, &SelectionError{
			Dimension: DimensionDate,
			Input:     input,
			Reason:    fmt.Sprintf("start %d is after end %d", start, end),
		}
	}

	dates := make([]time.Time, 0, end-start+1)
	for i := start; i <= end; i++ {
		d, _ := cat.At(i)
		dates = append(dates, d)
	}

	return DateRange{
		Start: start,
		End:   end,
		From:  dates[0],
		Until: dates[len(dates)-1],
	}, dates, nil
}

func parseIndex(dim Dimension, input, tok string) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &SelectionError{
			Dimension: dim,
			Input:     input,
			Reason:    fmt.Sprintf("%q is not an index", tok),
			Err:       err,
		}
	}
	return i, nil
}
