package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/couchcryptid/produce-price-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = `Commodity,Date,West,East
Squash,03/02/2024,$1.00,$1.10
Apples,03/01/2024,$2.00,$2.10
Beans,03/01/2024,$3.00,$3.10
Kale,03/03/2024,$4.00,$4.10
`

func catalogs(t *testing.T) domain.Catalogs {
	t.Helper()
	ds, err := domain.ReadCSV(strings.NewReader(table))
	require.NoError(t, err)
	return domain.BuildCatalogs(ds)
}

func TestWriteBanner(t *testing.T) {
	var out bytes.Buffer
	WriteBanner(&out)

	rule := strings.Repeat("=", 26)
	assert.Equal(t, rule+"\nAnalysis of Commodity Data\n"+rule+"\n\n", out.String())
}

func TestSelect_FullDialogue(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("3 0\n0 2\n1\n"), &out)

	raw, err := p.Select(context.Background(), catalogs(t))
	require.NoError(t, err)
	assert.Equal(t, domain.RawSelection{Commodities: "3 0", Dates: "0 2", Locations: "1"}, raw)

	got := out.String()
	assert.Contains(t, got, "SELECT PRODUCTS BY NUMBER ...\n")
	assert.Contains(t, got, "< 0> Apples              < 1> Beans               < 2> Kale                \n< 3> Squash")
	assert.Contains(t, got, "Selected products: Squash Apples\n")
	assert.Contains(t, got, "< 0> 2024-03-01\t< 1> 2024-03-02\t< 2> 2024-03-03\t")
	assert.Contains(t, got, "Earliest available date is: 2024-03-01\nLatest available date is: 2024-03-03\n")
	assert.Contains(t, got, "Dates from 2024-03-01 to 2024-03-03\n")
	assert.Contains(t, got, "<0> East\n<1> West\n")
	assert.Contains(t, got, "Selected locations: West\n")
}

func TestSelect_StopsAtFirstInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("0 9\n0 1\n0\n"), &out)
	c := catalogs(t)

	raw, err := p.Select(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, domain.RawSelection{Commodities: "0 9"}, raw)
	assert.NotContains(t, out.String(), "SELECT DATE RANGE")

	_, err = domain.ValidateSelection(c, raw)
	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, domain.DimensionCommodity, selErr.Dimension)
}

func TestSelect_InvertedDateRange(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("0\n2 1\n0\n"), &out)
	c := catalogs(t)

	raw, err := p.Select(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, raw.Locations)
	assert.NotContains(t, out.String(), "SELECT LOCATIONS")

	_, err = domain.ValidateSelection(c, raw)
	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, domain.DimensionDate, selErr.Dimension)
}

func TestSelect_UnexpectedEOF(t *testing.T) {
	p := New(strings.NewReader("0\n"), io.Discard)

	_, err := p.Select(context.Background(), catalogs(t))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSelect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(strings.NewReader("0\n0 1\n0\n"), io.Discard).Select(ctx, catalogs(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSelected(t *testing.T) {
	var out bytes.Buffer
	New(strings.NewReader(""), &out).Selected(domain.Selection{}, 12)
	assert.Equal(t, "12 records have been selected.\n", out.String())
}
