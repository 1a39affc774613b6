// Package prompt asks the operator for a selection on a terminal, one line
// per dimension, listing each catalog by index.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/produce-price-report/internal/domain"
)

const (
	bannerText = "Analysis of Commodity Data"
	bannerRule = 26

	productsPerLine = 3
	datesPerLine    = 5
)

// Prompt is an interactive pipeline.SelectionProvider.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompt reading answers from in and writing menus to out.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

// WriteBanner prints the report heading.
func WriteBanner(w io.Writer) {
	rule := strings.Repeat("=", bannerRule)
	fmt.Fprintf(w, "%s\n%s\n%s\n\n", rule, bannerText, rule)
}

// Select shows each menu in turn and reads one answer per dimension. An answer
// that does not resolve against its catalog ends the dialogue early; the
// returned selection then fails validation on that dimension.
func (p *Prompt) Select(ctx context.Context, c domain.Catalogs) (domain.RawSelection, error) {
	var raw domain.RawSelection

	p.printProducts(c.Commodities)
	line, err := p.ask(ctx, "\nEnter product numbers separated by spaces: ")
	if err != nil {
		return raw, err
	}
	raw.Commodities = line
	products, err := domain.SelectIndices(domain.DimensionCommodity, c.Commodities, line)
	if err != nil {
		return raw, nil
	}
	fmt.Fprintf(p.out, "\nSelected products: %s\n", strings.Join(products, " "))

	p.printDates(c)
	line, err = p.ask(ctx, "Enter start/end date numbers separated by a space: ")
	if err != nil {
		return raw, err
	}
	raw.Dates = line
	dr, _, err := domain.SelectDateRange(c.Dates, line)
	if err != nil {
		return raw, nil
	}
	fmt.Fprintf(p.out, "\nDates from %s to %s\n\n", domain.FormatDate(dr.From), domain.FormatDate(dr.Until))

	p.printLocations(c.Locations)
	line, err = p.ask(ctx, "\nEnter location numbers separated by spaces: ")
	if err != nil {
		return raw, err
	}
	raw.Locations = line
	locations, err := domain.SelectIndices(domain.DimensionLocation, c.Locations, line)
	if err != nil {
		return raw, nil
	}
	fmt.Fprintf(p.out, "\nSelected locations: %s\n", strings.Join(locations, " "))

	return raw, nil
}

// Selected reports how many observations the selection matched.
func (p *Prompt) Selected(_ domain.Selection, records int) {
	fmt.Fprintf(p.out, "%d records have been selected.\n", records)
}

func (p *Prompt) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", fmt.Errorf("read answer: %w", io.ErrUnexpectedEOF)
	}
	return p.in.Text(), nil
}

func (p *Prompt) printProducts(cat domain.Catalog[string]) {
	fmt.Fprintln(p.out, "SELECT PRODUCTS BY NUMBER ...")
	for i, name := range cat.Values() {
		fmt.Fprintf(p.out, "<%2d> %-20s", i, name)
		if (i+1)%productsPerLine == 0 {
			fmt.Fprintln(p.out)
		}
	}
}

func (p *Prompt) printDates(c domain.Catalogs) {
	fmt.Fprintln(p.out, "SELECT DATE RANGE BY NUMBER ...")
	labels := c.DateLabels()
	for i, label := range labels {
		fmt.Fprintf(p.out, "<%2d> %-10s", i, label)
		if (i+1)%datesPerLine == 0 {
			fmt.Fprintln(p.out)
		} else {
			fmt.Fprint(p.out, "\t")
		}
	}
	if len(labels) == 0 {
		fmt.Fprint(p.out, "\nNo dates available\n\n")
		return
	}
	fmt.Fprintf(p.out, "\nEarliest available date is: %s\nLatest available date is: %s\n\n",
		labels[0], labels[len(labels)-1])
}

func (p *Prompt) printLocations(cat domain.Catalog[string]) {
	fmt.Fprintln(p.out, "SELECT LOCATIONS BY NUMBER ...")
	for i, name := range cat.Values() {
		fmt.Fprintf(p.out, "<%d> %s\n", i, name)
	}
}
