//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

// LoadsTable records one row per table per load run.
const LoadsTable = "retailgen_loads"

// Execer is satisfied by *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Querier is satisfied by *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadRecord describes one table load.
type LoadRecord struct {
	RunID    uuid.UUID
	Table    string
	Rows     int64
	Source   string
	LoadedAt time.Time
	Version  string
}

func loadsTable(schema string) string {
	return pgx.Identifier{schema, LoadsTable}.Sanitize()
}

func createLoadsTableSQL(schema string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    run_id     UUID        NOT NULL,
    table_name TEXT        NOT NULL,
    row_count  BIGINT      NOT NULL,
    source     TEXT        NOT NULL,
    loaded_at  TIMESTAMPTZ NOT NULL,
    version    TEXT        NOT NULL,
    PRIMARY KEY (run_id, table_name)
)`, loadsTable(schema))
}

// RecordLoad saves rec in the schema's load history. Reloading the same table
// within a run replaces the earlier record.
func RecordLoad(ctx context.Context, ex Execer, schema string, rec LoadRecord) error {
	if _, err := ex.Exec(ctx, createLoadsTableSQL(schema)); err != nil {
		return fmt.Errorf("failed to create load history table: %w", err)
	}

	if rec.LoadedAt.IsZero() {
		rec.LoadedAt = time.Now().UTC()
	}
	if rec.Version == "" {
		rec.Version = version.Short()
	}

	_, err := ex.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (run_id, table_name, row_count, source, loaded_at, version)
        VALUES ($1::uuid, $2, $3, $4, $5, $6)
        ON CONFLICT (run_id, table_name) DO UPDATE SET
            row_count = EXCLUDED.row_count,
            source    = EXCLUDED.source,
            loaded_at = EXCLUDED.loaded_at,
            version   = EXCLUDED.version
    `, loadsTable(schema)), rec.RunID.String(), rec.Table, rec.Rows, rec.Source, rec.LoadedAt, rec.Version)
	if err != nil {
		return fmt.Errorf("failed to record load of %s: %w", rec.Table, err)
	}

	logging.Debug().
		Str("run_id", rec.RunID.String()).
		Str("table", rec.Table).
		Int64("rows", rec.Rows).
		Msg("Recorded load")

	return nil
}

// LoadHistory returns the recorded loads for table, newest first.
func LoadHistory(ctx context.Context, q Querier, schema, table string) ([]LoadRecord, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
        SELECT run_id::text, table_name, row_count, source, loaded_at, version
        FROM %s WHERE table_name = $1
        ORDER BY loaded_at DESC
    `, loadsTable(schema)), table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []LoadRecord
	for rows.Next() {
		var rec LoadRecord
		var runID string
		if err := rows.Scan(&runID, &rec.Table, &rec.Rows, &rec.Source, &rec.LoadedAt, &rec.Version); err != nil {
			return nil, err
		}
		if rec.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("invalid run_id %q: %w", runID, err)
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}
