// Package domain models wide-format produce price tables and the analysis
// performed on them: normalization, catalogs, selection, filtering,
// aggregation and chart series.
//
// # Input Table
//
// The source is a delimited table whose first row is a header:
//
//	Commodity,Date,<location-1>,<location-2>,...
//
// The first two header cells are labels and are not interpreted. Every other
// header cell names a market location. Each data row carries one commodity and
// one date followed by one price per location column:
//
//	Corn,01/01/2020,$2.00,$3.00
//
// Dates use month/day/year with a four-digit year. Single-digit months and
// days are accepted ("1/2/2020"). Prices are a currency symbol followed by a
// decimal number. The symbol is stripped once; there is no locale handling,
// grouping separators are not accepted.
//
// Blank price cells are not missing data. They fail ingestion with a
// [ParseError] just like any other unparseable cell, and so does a row whose
// column count differs from the header.
//
// # Normalization
//
// A table with R data rows and L location columns explodes into exactly R×L
// [Observation] values, in row-major order (row 1 location 1, row 1 location 2,
// ...). Dates are stored at UTC midnight so equal calendar dates compare equal
// and can be used as map keys.
//
// # Catalogs and Selections
//
// Commodities and dates are deduplicated and sorted (lexical, chronological).
// Locations come straight from the header and are sorted but not deduplicated.
// Operators select by catalog index; see [ValidateSelection]. Dates are
// selected as an inclusive index range that expands to the concrete dates in
// that range.
//
// # Aggregation
//
// Filtered observations are grouped by (commodity, location) in a single pass
// and the arithmetic mean price of each group is reported. Groups with no
// matching observations are absent, not zero. The chart series keeps absent
// points as explicit nil prices so every series stays aligned with the
// commodity axis.
package domain
