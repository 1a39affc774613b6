package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, table string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "produce_csv.csv")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))
	return path
}

func TestRun_Passes(t *testing.T) {
	path := writeTable(t, `Commodity,Date,West,East,West
Squash,03/02/2024,$1.00,$1.10,$1.20
Apples,03/01/2024,$2.00,$2.10,$2.20
Squash,01/15/2024,$3.00,$3.10,$3.20
`)
	var out bytes.Buffer
	code := run(path, "", &out)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Rows: 3, locations: 3, observations: 9")
	assert.Contains(t, out.String(), "Catalogs: 2 commodities, 3 dates, 3 locations")
}

func TestRun_MalformedTable(t *testing.T) {
	path := writeTable(t, "Commodity,Date,West\nSquash,03/02/2024,one dollar\n")

	var out bytes.Buffer
	assert.Equal(t, 1, run(path, "", &out))
	assert.Contains(t, out.String(), "FATAL")
	assert.Contains(t, out.String(), "parse price")
}

func TestRun_UnsupportedFormat(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, run("produce.txt", "", &out))
	assert.Contains(t, out.String(), "unsupported table format")
}

func TestIndexList(t *testing.T) {
	assert.Equal(t, "0 1 2", indexList(3))
	assert.Empty(t, indexList(0))
}
