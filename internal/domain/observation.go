package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is one (commodity, date, location, price) fact taken from a
// single cell of the source table.
type Observation struct {
	Commodity string          `json:"commodity"`
	Date      time.Time       `json:"date"`
	Location  string          `json:"location"`
	Price     decimal.Decimal `json:"price"`
}

// Dataset is the normalized result of ingesting a source table.
type Dataset struct {
	// Observations holds one entry per (data row, location column), row-major.
	Observations []Observation

	// Locations is the header-derived location list in column order.
	Locations []string

	// Rows is the number of data rows consumed.
	Rows int
}

// GroupKey identifies one aggregation group.
type GroupKey struct {
	Commodity string
	Location  string
}

// Aggregate maps each group with at least one matching observation to its
// mean price.
type Aggregate map[GroupKey]float64

// Point is one bar of a chart series. A nil Price means no observation
// matched the (commodity, location) pair.
type Point struct {
	Commodity string   `json:"commodity"`
	Price     *float64 `json:"price"`
}

// Value returns the price and whether the point carries data.
func (p Point) Value() (float64, bool) {
	if p.Price == nil {
		return 0, false
	}
	return *p.Price, true
}

// Series is one location's prices aligned with the chart's categories.
type Series struct {
	Location string  `json:"location"`
	Points   []Point `json:"points"`
}

// Chart describes the grouped bar chart handed to series consumers.
type Chart struct {
	// RunID ties the chart to the run that produced it. Set by the pipeline.
	RunID string `json:"run_id,omitempty"`

	Title       string    `json:"title"`
	XAxisTitle  string    `json:"x_axis_title"`
	YAxisTitle  string    `json:"y_axis_title"`
	YTickFormat string    `json:"y_tick_format"`
	Categories  []string  `json:"categories"`
	Series      []Series  `json:"series"`
	From        string    `json:"from"`
	Through     string    `json:"through"`
	Records     int       `json:"records"`
	GeneratedAt time.Time `json:"generated_at"`
}
