//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package postgres writes tables to PostgreSQL with COPY. Each write runs in
// one transaction, so a failed load leaves the previous table contents in
// place.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/db"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

// Driver connects to PostgreSQL.
type Driver struct{}

// Name returns the driver name.
func (Driver) Name() string {
	return "postgres"
}

// Description returns a human-readable description.
func (Driver) Description() string {
	return "PostgreSQL via pgx COPY; each table load is one transaction"
}

// Open connects to PostgreSQL.
func (Driver) Open(ctx context.Context, cfg config.LoadConfig) (warehouse.Session, error) {
	conn, err := db.ConnectSingle(ctx, cfg.Postgres.Connection, version.UserAgent())
	if err != nil {
		return nil, err
	}
	return &session{conn: conn, schema: cfg.Schema}, nil
}

type session struct {
	conn   *pgx.Conn
	schema string
}

// columnType maps inferred column kinds to PostgreSQL types.
func columnType(k table.Kind) string {
	switch k {
	case table.KindInteger:
		return "BIGINT"
	case table.KindFloat:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// prepareSQL returns the statements run before COPY.
func prepareSQL(schema, name, defs string, opts warehouse.WriteOptions) []string {
	target := warehouse.QualifiedName(schema, name)
	stmts := []string{fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", warehouse.QuoteIdent(schema))}

	switch {
	case opts.Overwrite && opts.AutoCreate:
		stmts = append(stmts,
			fmt.Sprintf("DROP TABLE IF EXISTS %s", target),
			fmt.Sprintf("CREATE TABLE %s (%s)", target, defs))
	case opts.Overwrite:
		stmts = append(stmts, fmt.Sprintf("TRUNCATE TABLE %s", target))
	case opts.AutoCreate:
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target, defs))
	}
	return stmts
}

func (s *session) WriteTable(ctx context.Context, t *table.Table, name string, opts warehouse.WriteOptions) (warehouse.WriteResult, error) {
	if s.conn == nil {
		return warehouse.WriteResult{}, errors.New("postgres: session closed")
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return warehouse.WriteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn().Err(err).Str("table", name).Msg("Rollback failed")
		}
	}()

	for _, stmt := range prepareSQL(s.schema, name, warehouse.ColumnDefs(t, columnType), opts) {
		logging.Debug().Str("sql", stmt).Msg("Executing")
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return warehouse.WriteResult{}, fmt.Errorf("failed to prepare %s: %w", name, err)
		}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{s.schema, name}, t.ColumnNames(), pgx.CopyFromRows(t.Rows()))
	if err != nil {
		return warehouse.WriteResult{}, fmt.Errorf("failed to copy into %s: %w", name, err)
	}

	if opts.RunID != uuid.Nil {
		err := db.RecordLoad(ctx, tx, s.schema, db.LoadRecord{
			RunID:  opts.RunID,
			Table:  name,
			Rows:   n,
			Source: opts.Source,
		})
		if err != nil {
			return warehouse.WriteResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return warehouse.WriteResult{}, fmt.Errorf("failed to commit load of %s: %w", name, err)
	}

	return warehouse.WriteResult{Rows: n, Chunks: 1}, nil
}

// Close closes the connection.
func (s *session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(context.Background())
	s.conn = nil
	return err
}

func init() {
	warehouse.Register(Driver{})
}
