package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/metrics"
	"github.com/pgEdge/pgedge-retailgen/internal/retail"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse/memory"
)

// writeDataset generates a small dataset into a temp dir.
func writeDataset(t *testing.T) (string, retail.Dataset) {
	t.Helper()
	opts := retail.DefaultOptions()
	opts.Households = 10
	opts.Products = 5
	opts.Transactions = 30

	ds := retail.NewGenerator(42, opts).Generate()
	dir := t.TempDir()
	_, err := retail.WriteDataset(dir, ds)
	require.NoError(t, err)
	return dir, ds
}

// failingDriver delegates to the memory driver but fails writes to one table
// and counts sessions.
type failingDriver struct {
	inner  warehouse.Driver
	failOn string
	opened int
	closed int
}

func (d *failingDriver) Name() string        { return "failing" }
func (d *failingDriver) Description() string { return "fails one table" }

func (d *failingDriver) Open(ctx context.Context, cfg config.LoadConfig) (warehouse.Session, error) {
	s, err := d.inner.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d.opened++
	return &failingSession{Session: s, driver: d}, nil
}

type failingSession struct {
	warehouse.Session
	driver *failingDriver
}

func (s *failingSession) WriteTable(ctx context.Context, t *table.Table, name string, opts warehouse.WriteOptions) (warehouse.WriteResult, error) {
	if name == s.driver.failOn {
		return warehouse.WriteResult{}, errors.New("simulated warehouse error")
	}
	return s.Session.WriteTable(ctx, t, name, opts)
}

func (s *failingSession) Close() error {
	s.driver.closed++
	return s.Session.Close()
}

type refusingDriver struct{}

func (refusingDriver) Name() string        { return "refusing" }
func (refusingDriver) Description() string { return "never connects" }
func (refusingDriver) Open(ctx context.Context, cfg config.LoadConfig) (warehouse.Session, error) {
	return nil, errors.New("connection refused")
}

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets("data")
	require.Len(t, targets, 3)

	assert.Equal(t, Target{Path: filepath.Join("data", retail.TransactionFile), Table: "TRANSACTIONS"}, targets[0])
	assert.Equal(t, Target{Path: filepath.Join("data", retail.ProductFile), Table: "PRODUCTS"}, targets[1])
	assert.Equal(t, Target{Path: filepath.Join("data", retail.HouseholdFile), Table: "DEMOGRAPHICS"}, targets[2])
}

func TestRunLoadsAllTables(t *testing.T) {
	dir, ds := writeDataset(t)
	store := memory.NewStore()
	l := New(memory.New(store), config.DefaultConfig().Load)

	results := l.Run(context.Background(), DefaultTargets(dir))
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err, r.Target.Table)
	}
	assert.Equal(t, int64(len(ds.Transactions)), results[0].Rows)
	assert.Equal(t, int64(len(ds.Products)), results[1].Rows)
	assert.Equal(t, int64(len(ds.Households)), results[2].Rows)

	products, ok := store.Table("RAW", "PRODUCTS")
	require.True(t, ok)
	assert.Equal(t, retail.ProductHeader, products.ColumnNames())
}

func TestReloadIsIdempotent(t *testing.T) {
	dir, ds := writeDataset(t)
	store := memory.NewStore()
	l := New(memory.New(store), config.DefaultConfig().Load)

	l.Run(context.Background(), DefaultTargets(dir))
	first, _ := store.Table("RAW", "TRANSACTIONS")

	l.Run(context.Background(), DefaultTargets(dir))
	second, _ := store.Table("RAW", "TRANSACTIONS")

	assert.Equal(t, len(ds.Transactions), second.NumRows())
	assert.Equal(t, first.Rows(), second.Rows())
}

func TestFailureIsIsolated(t *testing.T) {
	dir, _ := writeDataset(t)
	store := memory.NewStore()
	driver := &failingDriver{inner: memory.New(store), failOn: "PRODUCTS"}
	m := metrics.NewRegistry()
	l := New(driver, config.DefaultConfig().Load, WithMetrics(m))

	results := l.Run(context.Background(), DefaultTargets(dir))
	require.Len(t, results, 3)

	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())

	_, ok := store.Table("RAW", "DEMOGRAPHICS")
	assert.True(t, ok, "tables after the failure still load")
	_, ok = store.Table("RAW", "PRODUCTS")
	assert.False(t, ok)

	assert.Equal(t, 3, driver.opened)
	assert.Equal(t, 3, driver.closed, "every session is closed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadFailures.WithLabelValues("PRODUCTS")))
	assert.Equal(t, float64(results[0].Rows), testutil.ToFloat64(m.RowsLoaded.WithLabelValues("TRANSACTIONS")))

	s := Summarize(results)
	assert.Equal(t, 2, s.Loaded)
	assert.Equal(t, []string{"PRODUCTS"}, s.Failed)
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "PRODUCTS")
}

func TestMissingFile(t *testing.T) {
	driver := &failingDriver{inner: memory.New(memory.NewStore())}
	l := New(driver, config.DefaultConfig().Load)

	res := l.Load(context.Background(), Target{Path: filepath.Join(t.TempDir(), "nope.csv"), Table: "NOPE"})
	assert.Error(t, res.Err)
	assert.Equal(t, 1, driver.closed, "session closed after read failure")
}

func TestOpenFailure(t *testing.T) {
	dir, _ := writeDataset(t)
	l := New(refusingDriver{}, config.DefaultConfig().Load)

	results := l.Run(context.Background(), DefaultTargets(dir))
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
	assert.Len(t, Summarize(results).Failed, 3)
}

func TestRunID(t *testing.T) {
	id := uuid.New()
	l := New(refusingDriver{}, config.DefaultConfig().Load, WithRunID(id))
	assert.Equal(t, id, l.RunID())

	other := New(refusingDriver{}, config.DefaultConfig().Load)
	assert.NotEqual(t, uuid.Nil, other.RunID())
}

func TestSummarizeAllOK(t *testing.T) {
	s := Summarize([]Result{
		{Target: Target{Table: "A"}, Rows: 2},
		{Target: Target{Table: "B"}, Rows: 3},
	})
	assert.Equal(t, 2, s.Loaded)
	assert.Equal(t, int64(5), s.Rows)
	assert.NoError(t, s.Err())
}
