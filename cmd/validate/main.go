// Command validate ingests a produce price table and checks the structural
// guarantees the report relies on: observation counts, catalog ordering and
// lookups, and agreement between the aggregate and a direct mean.
//
// Usage:
//
//	go run ./cmd/validate -input produce_csv.csv
//	go run ./cmd/validate -input data/produce.xlsx -sheet Prices
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/produce-price-report/internal/adapter/tablefile"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", sharedcfg.EnvOrDefault("INPUT_PATH", "produce_csv.csv"), "table to validate (.csv or .xlsx)")
	sheet := flag.String("sheet", os.Getenv("INPUT_SHEET"), "worksheet name for .xlsx input")
	flag.Parse()

	os.Exit(run(*input, *sheet, os.Stdout))
}

func run(input, sheet string, out io.Writer) int {
	fmt.Fprintln(out, "=== Produce Table Validation ===")
	fmt.Fprintln(out)

	src, err := tablefile.New(input, sheet, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}
	ds, err := src.Load(context.Background())
	if err != nil {
		fmt.Fprintf(out, "FATAL: load %s: %v\n", input, err)
		return 1
	}
	cats := domain.BuildCatalogs(ds)

	phases := []*phase{
		validateShape(ds),
		validateCatalogs(cats),
		validateCoverage(ds, cats),
		validateAggregate(ds, cats),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d, locations: %d, observations: %d\n", ds.Rows, len(ds.Locations), len(ds.Observations))
	fmt.Fprintf(out, "Catalogs: %d commodities, %d dates, %d locations\n",
		cats.Commodities.Len(), cats.Dates.Len(), cats.Locations.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Shape ──
// One observation per (data row, location column), row-major.

func validateShape(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Shape (rows x locations)"}

	if want := ds.Rows * len(ds.Locations); len(ds.Observations) != want {
		p.errorf("observations: expected %d, got %d", want, len(ds.Observations))
		return p
	}
	for i, o := range ds.Observations {
		if want := ds.Locations[i%len(ds.Locations)]; o.Location != want {
			p.errorf("observation %d: location %q, expected %q", i, o.Location, want)
		}
		if o.Date.Location() != time.UTC || o.Date.Truncate(24*time.Hour) != o.Date {
			p.errorf("observation %d: date %s is not a UTC calendar date", i, o.Date)
		}
		if o.Price.IsNegative() {
			p.errorf("observation %d: negative price %s", i, o.Price)
		}
	}
	return p
}

// ── Phase 2: Catalogs ──
// Sorted, and index and value lookups are inverse.

func validateCatalogs(c domain.Catalogs) *phase {
	p := &phase{name: "Phase 2: Catalogs (order, bijection)"}

	commodities := c.Commodities.Values()
	if !slices.IsSorted(commodities) {
		p.errorf("commodities are not sorted")
	}
	if len(slices.Compact(slices.Clone(commodities))) != len(commodities) {
		p.errorf("commodities contain duplicates")
	}
	checkBijection(p, "commodity", c.Commodities)

	dates := c.Dates.Values()
	if !slices.IsSortedFunc(dates, time.Time.Compare) {
		p.errorf("dates are not sorted")
	}
	checkBijection(p, "date", c.Dates)

	if !slices.IsSorted(c.Locations.Values()) {
		p.errorf("locations are not sorted")
	}

	if _, ok := c.Commodities.At(c.Commodities.Len()); ok {
		p.errorf("commodity lookup past the end succeeded")
	}
	if _, ok := c.Dates.At(-1); ok {
		p.errorf("date lookup at -1 succeeded")
	}
	return p
}

func checkBijection[T comparable](p *phase, dim string, cat domain.Catalog[T]) {
	for i := range cat.Len() {
		v, ok := cat.At(i)
		if !ok {
			p.errorf("%s %d: lookup failed", dim, i)
			continue
		}
		if j, ok := cat.IndexOf(v); !ok || j != i {
			p.errorf("%s %d: IndexOf(%v) = %d, %t", dim, i, v, j, ok)
		}
	}
}

// ── Phase 3: Coverage ──
// Every observation resolves against the catalogs.

func validateCoverage(ds domain.Dataset, c domain.Catalogs) *phase {
	p := &phase{name: "Phase 3: Coverage (observations in catalogs)"}
	for i, o := range ds.Observations {
		if _, ok := c.Commodities.IndexOf(o.Commodity); !ok {
			p.errorf("observation %d: commodity %q missing from catalog", i, o.Commodity)
		}
		if _, ok := c.Dates.IndexOf(o.Date); !ok {
			p.errorf("observation %d: date %s missing from catalog", i, domain.FormatDate(o.Date))
		}
		if _, ok := c.Locations.IndexOf(o.Location); !ok {
			p.errorf("observation %d: location %q missing from catalog", i, o.Location)
		}
	}
	return p
}

// ── Phase 4: Aggregate ──
// Selecting everything yields the direct per-group mean.

func validateAggregate(ds domain.Dataset, c domain.Catalogs) *phase {
	p := &phase{name: "Phase 4: Aggregate (full selection)"}
	if c.Dates.Len() == 0 {
		return p
	}

	sel, err := domain.ValidateSelection(c, domain.RawSelection{
		Commodities: indexList(c.Commodities.Len()),
		Dates:       fmt.Sprintf("0 %d", c.Dates.MaxIndex()),
		Locations:   indexList(c.Locations.Len()),
	})
	if err != nil {
		p.errorf("full selection rejected: %v", err)
		return p
	}

	records := domain.Filter(ds.Observations, sel)
	if len(records) != len(ds.Observations) {
		p.errorf("full selection matched %d of %d observations", len(records), len(ds.Observations))
	}

	sums := map[domain.GroupKey]float64{}
	counts := map[domain.GroupKey]int{}
	for _, o := range ds.Observations {
		k := domain.GroupKey{Commodity: o.Commodity, Location: o.Location}
		sums[k] += o.Price.InexactFloat64()
		counts[k]++
	}

	agg := domain.AggregateMeans(records, sel.Commodities, sel.Locations)
	if len(agg) != len(counts) {
		p.errorf("aggregate has %d groups, expected %d", len(agg), len(counts))
	}
	for k, n := range counts {
		got, ok := agg[k]
		if !ok {
			p.errorf("group %s/%s missing from aggregate", k.Commodity, k.Location)
			continue
		}
		if want := sums[k] / float64(n); math.Abs(got-want) > 1e-6 {
			p.errorf("group %s/%s: mean %g, expected %g", k.Commodity, k.Location, got, want)
		}
	}
	return p
}

func indexList(n int) string {
	idx := make([]string, n)
	for i := range n {
		idx[i] = fmt.Sprint(i)
	}
	return strings.Join(idx, " ")
}
