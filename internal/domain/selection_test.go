package domain

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelection_Scenario(t *testing.T) {
	ds, err := ParseTable(scenarioRows())
	require.NoError(t, err)
	c := BuildCatalogs(ds)

	sel, err := ValidateSelection(c, RawSelection{
		Commodities: "0",
		Dates:       "0 1",
		Locations:   "0",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Corn"}, sel.Commodities)
	assert.Equal(t, []time.Time{day(2020, time.January, 1), day(2020, time.January, 2)}, sel.Dates)
	assert.Equal(t, []string{"North"}, sel.Locations)
	assert.Equal(t, DateRange{Start: 0, End: 1, From: day(2020, time.January, 1), Until: day(2020, time.January, 2)}, sel.Range)
}

func TestSelectIndices_PreservesOrderAndDuplicates(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	got, err := SelectIndices(DimensionCommodity, c.Commodities, "2 0 2\t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Squash", "Apples", "Squash", "Beans"}, got)
}

func TestSelectIndices_EmptyInput(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	got, err := SelectIndices(DimensionLocation, c.Locations, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectIndices_Errors(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	tests := []struct {
		name    string
		input   string
		numeric bool
	}{
		{"out of range", "3", false},
		{"negative", "-1", false},
		{"one bad among good", "0 1 9", false},
		{"word", "apples", true},
		{"decimal", "1.0", true},
		{"bracketed", "<1>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectIndices(DimensionCommodity, c.Commodities, tt.input)
			require.Error(t, err)

			var se *SelectionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, DimensionCommodity, se.Dimension)
			assert.Equal(t, tt.input, se.Input)

			var numErr *strconv.NumError
			assert.Equal(t, tt.numeric, errors.As(err, &numErr))
		})
	}
}

// Selection (start, end) is accepted iff 0 <= start <= end <= max.
func TestSelectDateRange_Property(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))
	maxIdx := c.Dates.MaxIndex()
	require.Equal(t, 2, maxIdx)

	for start := -2; start <= maxIdx+2; start++ {
		for end := -2; end <= maxIdx+2; end++ {
			input := fmt.Sprintf("%d %d", start, end)
			rng, dates, err := SelectDateRange(c.Dates, input)

			valid := 0 <= start && start <= end && end <= maxIdx
			if !valid {
				require.Error(t, err, input)
				assert.True(t, IsSelectionError(err), input)
				continue
			}

			require.NoError(t, err, input)
			assert.Len(t, dates, end-start+1, input)
			assert.Equal(t, start, rng.Start)
			assert.Equal(t, end, rng.End)
			assert.Equal(t, dates[0], rng.From)
			assert.Equal(t, dates[len(dates)-1], rng.Until)
			for i, d := range dates {
				want, _ := c.Dates.At(start + i)
				assert.Equal(t, want, d)
			}
		}
	}
}

func TestSelectDateRange_InvertedRange(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	_, _, err := SelectDateRange(c.Dates, "2 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start 2 is after end 1")
}

func TestSelectDateRange_TokenCount(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	for _, input := range []string{"", "1", "0 1 2", "0 x", "a b"} {
		t.Run(strconv.Quote(input), func(t *testing.T) {
			_, _, err := SelectDateRange(c.Dates, input)
			require.Error(t, err)

			var se *SelectionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, DimensionDate, se.Dimension)
		})
	}
}

func TestValidateSelection_FirstFailingDimension(t *testing.T) {
	c := BuildCatalogs(sampleDataset(t))

	tests := []struct {
		name string
		raw  RawSelection
		dim  Dimension
	}{
		{"commodity out of range", RawSelection{Commodities: "7", Dates: "0 1", Locations: "0"}, DimensionCommodity},
		{"date start after end", RawSelection{Commodities: "0", Dates: "2 1", Locations: "0"}, DimensionDate},
		{"location not numeric", RawSelection{Commodities: "0", Dates: "0 1", Locations: "west"}, DimensionLocation},
		{"commodity checked before date", RawSelection{Commodities: "x", Dates: "9 9", Locations: "9"}, DimensionCommodity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSelection(c, tt.raw)
			var se *SelectionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.dim, se.Dimension)
		})
	}
}
