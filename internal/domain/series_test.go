package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChart(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	sel := Selection{
		Commodities: []string{"Corn", "Wheat", "Oats"},
		Locations:   []string{"South", "North"},
		Range: DateRange{
			From:  day(2020, time.January, 1),
			Until: day(2020, time.February, 3),
		},
	}
	agg := Aggregate{
		{Commodity: "Corn", Location: "North"}:  3.0,
		{Commodity: "Oats", Location: "North"}:  1.25,
		{Commodity: "Wheat", Location: "South"}: 4.5,
	}

	chart := BuildChart(agg, sel, 12)

	assert.Equal(t, "Produce Prices from 2020-01-01 through 2020-02-03", chart.Title)
	assert.Equal(t, "Product", chart.XAxisTitle)
	assert.Equal(t, "Average Price", chart.YAxisTitle)
	assert.Equal(t, "$.2f", chart.YTickFormat)
	assert.Equal(t, []string{"Corn", "Wheat", "Oats"}, chart.Categories)
	assert.Equal(t, "2020-01-01", chart.From)
	assert.Equal(t, "2020-02-03", chart.Through)
	assert.Equal(t, 12, chart.Records)
	assert.Equal(t, fixed, chart.GeneratedAt)

	require.Len(t, chart.Series, 2)
	assert.Equal(t, "South", chart.Series[0].Location)
	assert.Equal(t, "North", chart.Series[1].Location)

	for _, s := range chart.Series {
		require.Len(t, s.Points, len(sel.Commodities), "series %s must align with categories", s.Location)
		for i, p := range s.Points {
			assert.Equal(t, sel.Commodities[i], p.Commodity)
		}
	}

	south := chart.Series[0].Points
	assert.Nil(t, south[0].Price)
	assert.Equal(t, 4.5, *south[1].Price)
	assert.Nil(t, south[2].Price)

	north := chart.Series[1].Points
	v, ok := north[0].Value()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	_, ok = north[1].Value()
	assert.False(t, ok)
	assert.Equal(t, 1.25, *north[2].Price)
}

func TestBuildChart_DuplicateSelections(t *testing.T) {
	sel := Selection{
		Commodities: []string{"Corn", "Corn"},
		Locations:   []string{"North", "North"},
	}
	agg := Aggregate{{Commodity: "Corn", Location: "North"}: 2}

	chart := BuildChart(agg, sel, 2)

	require.Len(t, chart.Series, 2)
	for _, s := range chart.Series {
		require.Len(t, s.Points, 2)
		assert.Equal(t, 2.0, *s.Points[0].Price)
		assert.Equal(t, 2.0, *s.Points[1].Price)
	}
}

func TestBuildChart_EmptyAggregate(t *testing.T) {
	sel := Selection{Commodities: []string{"Corn"}, Locations: []string{"North"}}

	chart := BuildChart(Aggregate{}, sel, 0)

	require.Len(t, chart.Series, 1)
	require.Len(t, chart.Series[0].Points, 1)
	assert.Nil(t, chart.Series[0].Points[0].Price)
}

func TestChart_JSONMissingPointIsNull(t *testing.T) {
	price := 2.5
	chart := Chart{Series: []Series{{
		Location: "North",
		Points:   []Point{{Commodity: "Corn", Price: &price}, {Commodity: "Oats"}},
	}}}

	data, err := json.Marshal(chart)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"commodity":"Corn","price":2.5}`)
	assert.Contains(t, string(data), `{"commodity":"Oats","price":null}`)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$3.00", FormatPrice(3))
	assert.Equal(t, "$1.26", FormatPrice(1.255001))
}
