package retail

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// Output file names.
const (
	HouseholdFile   = "hh_demographic.csv"
	ProductFile     = "product.csv"
	TransactionFile = "transaction_data.csv"
)

// WrittenFile describes one file produced by WriteDataset.
type WrittenFile struct {
	Table string
	Path  string
	Rows  int
	Bytes int64
}

// WriteDataset writes the three tables as CSV files with header rows into
// dir, creating it if needed.
func WriteDataset(dir string, ds Dataset) ([]WrittenFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	households := make([][]string, 0, len(ds.Households))
	for _, h := range ds.Households {
		households = append(households, h.Record())
	}
	products := make([][]string, 0, len(ds.Products))
	for _, p := range ds.Products {
		products = append(products, p.Record())
	}
	transactions := make([][]string, 0, len(ds.Transactions))
	for _, t := range ds.Transactions {
		transactions = append(transactions, t.Record())
	}

	outputs := []struct {
		table  string
		file   string
		header []string
		rows   [][]string
	}{
		{"households", HouseholdFile, HouseholdHeader, households},
		{"products", ProductFile, ProductHeader, products},
		{"transactions", TransactionFile, TransactionHeader, transactions},
	}

	written := make([]WrittenFile, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.file)
		n, err := writeCSV(path, o.header, o.rows)
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", o.file, err)
		}

		logging.Info().
			Str("table", o.table).
			Str("path", path).
			Int("rows", len(o.rows)).
			Str("size", datagen.FormatSize(n)).
			Msg("Wrote file")

		written = append(written, WrittenFile{
			Table: o.table,
			Path:  path,
			Rows:  len(o.rows),
			Bytes: n,
		})
	}

	return written, nil
}

func writeCSV(path string, header []string, rows [][]string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return 0, err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
