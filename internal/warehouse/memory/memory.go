// Package memory implements an in-process warehouse. It keeps loaded tables
// in a Store and is used for dry runs and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// ErrClosed is returned when a closed session is used.
var ErrClosed = errors.New("memory: session closed")

// Store holds tables by schema-qualified name.
type Store struct {
	mu     sync.Mutex
	tables map[string]*table.Table
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*table.Table)}
}

// Table returns the stored table, if any.
func (s *Store) Table(schema, name string) (*table.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[warehouse.QualifiedName(schema, name)]
	return t, ok
}

// Driver opens sessions against a Store.
type Driver struct {
	store *Store
}

// New creates a driver backed by store.
func New(store *Store) *Driver {
	return &Driver{store: store}
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "memory"
}

// Description returns a human-readable description.
func (d *Driver) Description() string {
	return "In-process store for dry runs; nothing leaves the process"
}

// Open returns a session on the driver's store.
func (d *Driver) Open(ctx context.Context, cfg config.LoadConfig) (warehouse.Session, error) {
	return &session{store: d.store, schema: cfg.Schema}, nil
}

type session struct {
	store  *Store
	schema string
	closed bool
}

func (s *session) WriteTable(ctx context.Context, t *table.Table, name string, opts warehouse.WriteOptions) (warehouse.WriteResult, error) {
	if s.closed {
		return warehouse.WriteResult{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return warehouse.WriteResult{}, err
	}

	key := warehouse.QualifiedName(s.schema, name)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	existing, ok := s.store.tables[key]
	switch {
	case !ok && !opts.AutoCreate:
		return warehouse.WriteResult{}, fmt.Errorf("table %s does not exist", key)
	case !ok || opts.Overwrite:
		s.store.tables[key] = table.New(t.Columns, slices.Clone(t.Rows()))
	default:
		if !slices.Equal(existing.Columns, t.Columns) {
			return warehouse.WriteResult{}, fmt.Errorf("table %s has different columns", key)
		}
		rows := append(slices.Clone(existing.Rows()), t.Rows()...)
		s.store.tables[key] = table.New(existing.Columns, rows)
	}

	logging.Debug().
		Str("table", key).
		Int("rows", t.NumRows()).
		Bool("overwrite", opts.Overwrite).
		Msg("Stored table in memory")

	return warehouse.WriteResult{Rows: int64(t.NumRows()), Chunks: 1}, nil
}

func (s *session) Close() error {
	s.closed = true
	return nil
}

func init() {
	warehouse.Register(New(NewStore()))
}
