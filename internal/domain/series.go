package domain

import "fmt"

// Axis labels and tick format of every generated chart.
const (
	// ChartXAxisTitle labels the commodity axis.
	ChartXAxisTitle = "Product"
	// ChartYAxisTitle labels the mean price axis.
	ChartYAxisTitle = "Average Price"
	// ChartYTickFormat describes price tick labels: currency symbol and two
	// decimals. See FormatPrice.
	ChartYTickFormat = "$.2f"
)

// BuildChart lays the aggregate out as one series per selected location, each
// aligned 1:1 with the selected commodities. Pairs missing from the aggregate
// become points with a nil price.
func BuildChart(agg Aggregate, sel Selection, records int) Chart {
	series := make([]Series, 0, len(sel.Locations))
	for _, loc := range sel.Locations {
		points := make([]Point, len(sel.Commodities))
		for i, c := range sel.Commodities {
			points[i] = Point{Commodity: c}
			if v, ok := agg[GroupKey{Commodity: c, Location: loc}]; ok {
				points[i].Price = &v
			}
		}
		series = append(series, Series{Location: loc, Points: points})
	}

	from := FormatDate(sel.Range.From)
	through := FormatDate(sel.Range.Until)
	categories := make([]string, len(sel.Commodities))
	copy(categories, sel.Commodities)

	return Chart{
		Title:       ChartTitle(from, through),
		XAxisTitle:  ChartXAxisTitle,
		YAxisTitle:  ChartYAxisTitle,
		YTickFormat: ChartYTickFormat,
		Categories:  categories,
		Series:      series,
		From:        from,
		Through:     through,
		Records:     records,
		GeneratedAt: clock.Now().UTC(),
	}
}

// ChartTitle names the chart after the selected date range.
func ChartTitle(from, through string) string {
	return fmt.Sprintf("Produce Prices from %s through %s", from, through)
}

// FormatPrice renders a price the way the chart's y axis does.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
