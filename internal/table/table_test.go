package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionsCSV = `HOUSEHOLD_KEY,BASKET_ID,DAY,SALES_VALUE,RETAIL_DISC
17,30000000000,2021-03-06,12.50,0.00
4,30000000000,2021-11-21,7,1.25
`

func TestReadCSVFromInfersKinds(t *testing.T) {
	tbl, err := ReadCSVFrom(strings.NewReader(transactionsCSV))
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "HOUSEHOLD_KEY", Kind: KindInteger},
		{Name: "BASKET_ID", Kind: KindInteger},
		{Name: "DAY", Kind: KindText},
		{Name: "SALES_VALUE", Kind: KindFloat},
		{Name: "RETAIL_DISC", Kind: KindFloat},
	}, tbl.Columns)

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []any{int64(17), int64(30000000000), "2021-03-06", 12.5, 0.0}, tbl.Rows()[0])
	assert.Equal(t, []any{int64(4), int64(30000000000), "2021-11-21", 7.0, 1.25}, tbl.Rows()[1])
}

func TestReadCSVFromMixedTextColumn(t *testing.T) {
	in := "HOUSEHOLD_SIZE_DESC,KID_CATEGORY_DESC\n1,None/Unknown\n5+,2\n"
	tbl, err := ReadCSVFrom(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, KindText, tbl.Columns[0].Kind)
	assert.Equal(t, KindText, tbl.Columns[1].Kind)
	assert.Equal(t, []any{"1", "None/Unknown"}, tbl.Rows()[0])
}

func TestReadCSVFromEmptyCells(t *testing.T) {
	in := "a,b,c\n1,,\n,2.5,\n"
	tbl, err := ReadCSVFrom(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, KindInteger, tbl.Columns[0].Kind)
	assert.Equal(t, KindFloat, tbl.Columns[1].Kind)
	assert.Equal(t, KindText, tbl.Columns[2].Kind)
	assert.Equal(t, []any{int64(1), nil, nil}, tbl.Rows()[0])
	assert.Equal(t, []any{nil, 2.5, nil}, tbl.Rows()[1])
}

func TestReadCSVFromHeaderOnly(t *testing.T) {
	tbl, err := ReadCSVFrom(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

func TestReadCSVFromErrors(t *testing.T) {
	_, err := ReadCSVFrom(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ReadCSVFrom(strings.NewReader("a,,c\n1,2,3\n"))
	assert.Error(t, err)

	// Ragged rows are rejected by encoding/csv
	_, err = ReadCSVFrom(strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.csv")
	require.NoError(t, os.WriteFile(path, []byte("PRODUCT_ID,BRAND\n1001,National\n"), 0o644))

	tbl, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestChunks(t *testing.T) {
	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = []any{int64(i)}
	}
	tbl := New([]Column{{Name: "n", Kind: KindInteger}}, rows)

	chunks := tbl.Chunks(3)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)

	assert.Empty(t, New(nil, nil).Chunks(10))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "text", KindText.String())
}
