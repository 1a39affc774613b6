// Command genmock writes a deterministic synthetic produce price table in the
// report's input format and re-ingests it with the domain package to prove it
// parses. The output format follows the file extension (.csv or .xlsx).
//
// Usage:
//
//	go run ./cmd/genmock -out produce_csv.csv
//	go run ./cmd/genmock -out data/produce.xlsx -commodities 8 -locations 3 -days 20 -seed 7
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/produce-price-report/internal/adapter/tablefile"
	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var produce = []string{
	"Apples", "Asparagus", "Avocados", "Bananas", "Beans", "Blueberries",
	"Broccoli", "Cantaloupe", "Carrots", "Cauliflower", "Celery", "Cherries",
	"Corn", "Cucumbers", "Grapes", "Kale", "Lettuce", "Onions",
	"Oranges", "Peaches", "Potatoes", "Strawberries", "Tomatoes", "Zucchini",
}

var markets = []string{
	"Atlanta", "Chicago", "Los Angeles", "New York", "Seattle",
	"Denver", "Houston", "Miami",
}

type options struct {
	out         string
	commodities int
	locations   int
	days        int
	step        int
	start       time.Time
	seed        uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "produce_csv.csv", "output path (.csv or .xlsx)")
	commodities := flag.Int("commodities", 22, "number of commodities")
	locations := flag.Int("locations", 5, "number of market locations")
	days := flag.Int("days", 53, "number of observation dates")
	step := flag.Int("step", 7, "days between observation dates")
	start := flag.String("start", "2019-01-04", "first observation date (YYYY-MM-DD)")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	startDate, err := time.Parse(domain.DisplayDateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	opts := options{
		out:         *out,
		commodities: *commodities,
		locations:   *locations,
		days:        *days,
		step:        *step,
		start:       startDate,
		seed:        *seed,
	}
	if err := opts.validate(); err != nil {
		flag.Usage()
		return err
	}

	rows := generate(opts)
	if err := write(opts.out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", opts.out, err)
	}
	log.Printf("wrote %s: %d rows x %d locations", opts.out, len(rows)-1, opts.locations)

	ds, err := reingest(opts.out)
	if err != nil {
		return fmt.Errorf("re-ingest %s: %w", opts.out, err)
	}
	printStats(ds)
	return nil
}

func (o options) validate() error {
	switch {
	case o.commodities < 1 || o.commodities > len(produce):
		return fmt.Errorf("-commodities must be within 1..%d", len(produce))
	case o.locations < 1 || o.locations > len(markets):
		return fmt.Errorf("-locations must be within 1..%d", len(markets))
	case o.days < 1:
		return errors.New("-days must be positive")
	case o.step < 1:
		return errors.New("-step must be positive")
	}
	return nil
}

// generate builds the wide table: a header, then one row per commodity and
// date. Each (commodity, market) price follows a bounded random walk.
func generate(o options) [][]string {
	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))

	header := append([]string{"Commodity", "Date"}, markets[:o.locations]...)
	rows := [][]string{header}

	for _, name := range produce[:o.commodities] {
		base := 0.5 + rng.Float64()*4.5
		prices := make([]float64, o.locations)
		for j := range prices {
			prices[j] = base * (0.85 + rng.Float64()*0.3)
		}
		for d := range o.days {
			date := o.start.AddDate(0, 0, d*o.step)
			row := make([]string, 0, len(header))
			row = append(row, name, date.Format("01/02/2006"))
			for j := range prices {
				prices[j] = max(0.05, prices[j]*(0.95+rng.Float64()*0.1))
				row = append(row, domain.CurrencySymbol+decimal.NewFromFloat(prices[j]).StringFixed(2))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func write(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSX(path, rows)
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Prices"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func reingest(path string) (domain.Dataset, error) {
	src, err := tablefile.New(path, "", slog.Default())
	if err != nil {
		return domain.Dataset{}, err
	}
	return src.Load(context.Background())
}

func printStats(ds domain.Dataset) {
	c := domain.BuildCatalogs(ds)
	labels := c.DateLabels()

	fmt.Println("\n=== Generated table ===")
	fmt.Printf("Rows: %d\n", ds.Rows)
	fmt.Printf("Observations: %d\n", len(ds.Observations))
	fmt.Printf("Commodities: %d (max index %d)\n", c.Commodities.Len(), c.Commodities.MaxIndex())
	fmt.Printf("Dates: %d (max index %d)\n", c.Dates.Len(), c.Dates.MaxIndex())
	if len(labels) > 0 {
		fmt.Printf("Date range: %s .. %s\n", labels[0], labels[len(labels)-1])
	}
	fmt.Printf("Locations: %s\n", strings.Join(c.Locations.Values(), ", "))
}
