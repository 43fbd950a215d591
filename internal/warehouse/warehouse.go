// Package warehouse defines the warehouse driver interface and registry.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
)

// WriteOptions controls how a table is written to its destination.
type WriteOptions struct {
	// AutoCreate creates the destination table when it does not exist.
	AutoCreate bool

	// Overwrite replaces any existing rows instead of appending.
	Overwrite bool

	// ChunkSize is the number of rows sent per statement. Drivers that bulk
	// load in a single stream ignore it.
	ChunkSize int

	// RunID and Source identify the load for drivers that keep a load
	// history. A nil RunID disables history.
	RunID  uuid.UUID
	Source string
}

// WriteResult reports what a write did.
type WriteResult struct {
	// Rows is the number of rows written.
	Rows int64

	// Chunks is the number of statements or streams used.
	Chunks int
}

// Session is an open connection to a warehouse. A session is used for one
// load and closed afterwards.
type Session interface {
	// WriteTable writes t to the destination table name in the configured
	// schema.
	WriteTable(ctx context.Context, t *table.Table, name string, opts WriteOptions) (WriteResult, error)

	// Close releases the connection. It is safe to call more than once.
	Close() error
}

// Driver opens warehouse sessions.
type Driver interface {
	// Name returns the driver name used in configuration.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Open connects to the warehouse.
	Open(ctx context.Context, cfg config.LoadConfig) (Session, error)
}

// QuoteIdent quotes an identifier with double quotes, doubling any embedded
// quotes. Both Snowflake and PostgreSQL accept this form.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifiedName returns schema.name with both parts quoted.
func QualifiedName(schema, name string) string {
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}

// ColumnDefs renders a column list for CREATE TABLE using typeOf to map
// column kinds to SQL types.
func ColumnDefs(t *table.Table, typeOf func(table.Kind) string) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = fmt.Sprintf("%s %s", QuoteIdent(c.Name), typeOf(c.Kind))
	}
	return strings.Join(defs, ", ")
}
