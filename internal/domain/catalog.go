package domain

import (
	"slices"
	"strings"
	"time"
)

// Catalog is a read-only, index-addressable list of one dimension's values.
// Indices run 0..Len()-1 in ascending value order.
type Catalog[T comparable] struct {
	values []T
	index  map[T]int
}

// newCatalog sorts values with cmp and, when dedup is set, drops repeats.
// The input slice is not modified.
func newCatalog[T comparable](values []T, cmp func(a, b T) int, dedup bool) Catalog[T] {
	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, cmp)
	if dedup {
		sorted = slices.CompactFunc(sorted, func(a, b T) bool { return cmp(a, b) == 0 })
	}

	index := make(map[T]int, len(sorted))
	for i, v := range sorted {
		if _, ok := index[v]; !ok {
			index[v] = i
		}
	}
	return Catalog[T]{values: sorted, index: index}
}

// Len returns the number of entries.
func (c Catalog[T]) Len() int { return len(c.values) }

// MaxIndex returns the highest valid index, or -1 for an empty catalog.
func (c Catalog[T]) MaxIndex() int { return len(c.values) - 1 }

// At returns the value at index i. ok is false when i is out of range.
func (c Catalog[T]) At(i int) (value T, ok bool) {
	if i < 0 || i >= len(c.values) {
		return value, false
	}
	return c.values[i], true
}

// IndexOf returns the index of v. When a value repeats (possible only for
// locations) the lowest index is returned.
func (c Catalog[T]) IndexOf(v T) (int, bool) {
	i, ok := c.index[v]
	return i, ok
}

// Values returns a copy of the catalog's values in index order.
func (c Catalog[T]) Values() []T {
	return slices.Clone(c.values)
}

// Catalogs bundles the three selectable dimensions of a dataset.
type Catalogs struct {
	Commodities Catalog[string]
	Dates       Catalog[time.Time]
	Locations   Catalog[string]
}

// BuildCatalogs derives the commodity, date and location catalogs. The
// location catalog comes from the header list and keeps duplicates.
func BuildCatalogs(ds Dataset) Catalogs {
	commodities := make([]string, 0, len(ds.Observations))
	dates := make([]time.Time, 0, len(ds.Observations))
	for _, o := range ds.Observations {
		commodities = append(commodities, o.Commodity)
		dates = append(dates, o.Date)
	}

	return Catalogs{
		Commodities: newCatalog(commodities, strings.Compare, true),
		Dates:       newCatalog(dates, time.Time.Compare, true),
		Locations:   newCatalog(ds.Locations, strings.Compare, false),
	}
}

// DateLabels renders the date catalog in display form, index-aligned.
func (c Catalogs) DateLabels() []string {
	labels := make([]string, c.Dates.Len())
	for i, d := range c.Dates.values {
		labels[i] = FormatDate(d)
	}
	return labels
}
