// Package table holds delimited files in memory as typed rows, ready to be
// written to a warehouse.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Column is a named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a header plus typed rows. Integer cells are int64, float cells
// are float64, text cells are string and empty cells are nil.
type Table struct {
	Columns []Column
	rows    [][]any
}

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("table: missing header row")

// ReadCSV reads a CSV file with a header row.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSVFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSVFrom reads CSV with a header row from r and infers column kinds.
func ReadCSVFrom(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0]
	body := records[1:]

	columns := make([]Column, len(header))
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		columns[i] = Column{Name: name, Kind: inferKind(body, i)}
	}

	rows := make([][]any, len(body))
	for r, rec := range body {
		row := make([]any, len(columns))
		for c, col := range columns {
			row[c] = convert(rec[c], col.Kind)
		}
		rows[r] = row
	}

	return &Table{Columns: columns, rows: rows}, nil
}

// New builds a table from columns and already typed rows.
func New(columns []Column, rows [][]any) *Table {
	return &Table{Columns: columns, rows: rows}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Rows returns the typed rows. Callers must not modify them.
func (t *Table) Rows() [][]any {
	return t.rows
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Chunks splits the rows into consecutive slices of at most size rows.
func (t *Table) Chunks(size int) [][][]any {
	if size < 1 {
		size = 1
	}
	var chunks [][][]any
	for start := 0; start < len(t.rows); start += size {
		end := min(start+size, len(t.rows))
		chunks = append(chunks, t.rows[start:end])
	}
	return chunks
}

// inferKind picks the narrowest kind that parses every non-empty cell.
// A column with no values is text.
func inferKind(records [][]string, col int) Kind {
	kind := KindInteger
	seen := false
	for _, rec := range records {
		v := rec[col]
		if v == "" {
			continue
		}
		seen = true
		if kind == KindInteger {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return KindText
		}
	}
	if !seen {
		return KindText
	}
	return kind
}

func convert(v string, kind Kind) any {
	if v == "" {
		return nil
	}
	switch kind {
	case KindInteger:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case KindFloat:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return v
	}
}
