//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package snowflake writes tables to Snowflake through database/sql and the
// gosnowflake driver.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snowflakedb/gosnowflake"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

// Driver connects to Snowflake.
type Driver struct{}

// Name returns the driver name.
func (Driver) Name() string {
	return "snowflake"
}

// Description returns a human-readable description.
func (Driver) Description() string {
	return "Snowflake via gosnowflake; overwrite loads swap in a staging table"
}

// DSN builds the gosnowflake data source name for cfg.
func DSN(cfg config.LoadConfig) (string, error) {
	sf := cfg.Snowflake
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:     sf.Account,
		User:        sf.User,
		Password:    sf.Password,
		Warehouse:   sf.Warehouse,
		Database:    sf.Database,
		Schema:      cfg.Schema,
		Role:        sf.Role,
		Application: version.UserAgent(),
	})
}

// Open connects to Snowflake and pins a single connection for the session.
func (Driver) Open(ctx context.Context, cfg config.LoadConfig) (warehouse.Session, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Snowflake connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	logging.Debug().
		Str("account", cfg.Snowflake.Account).
		Str("database", cfg.Snowflake.Database).
		Str("schema", cfg.Schema).
		Msg("Connected to Snowflake")

	return &session{db: db, conn: conn, schema: cfg.Schema}, nil
}

type session struct {
	db     *sql.DB
	conn   *sql.Conn
	schema string
}

// columnType maps inferred column kinds to Snowflake types.
func columnType(k table.Kind) string {
	switch k {
	case table.KindInteger:
		return "NUMBER(38,0)"
	case table.KindFloat:
		return "FLOAT"
	default:
		return "TEXT"
	}
}

func (s *session) WriteTable(ctx context.Context, t *table.Table, name string, opts warehouse.WriteOptions) (warehouse.WriteResult, error) {
	target := warehouse.QualifiedName(s.schema, name)
	defs := warehouse.ColumnDefs(t, columnType)

	if !opts.Overwrite {
		if opts.AutoCreate {
			if err := s.exec(ctx, createTableSQL(target, defs, true)); err != nil {
				return warehouse.WriteResult{}, err
			}
		}
		return s.insertRows(ctx, t, target, opts.ChunkSize)
	}

	// Overwrite: fill a staging table, then swap it with the target so the
	// target never holds a partial load.
	stage := warehouse.QualifiedName(s.schema, stagingName(name))
	if err := s.exec(ctx, createTableSQL(stage, defs, false)); err != nil {
		return warehouse.WriteResult{}, err
	}
	defer func() {
		if err := s.exec(context.WithoutCancel(ctx), dropTableSQL(stage)); err != nil {
			logging.Warn().Err(err).Str("table", stage).Msg("Failed to drop staging table")
		}
	}()

	res, err := s.insertRows(ctx, t, stage, opts.ChunkSize)
	if err != nil {
		return warehouse.WriteResult{}, err
	}

	if opts.AutoCreate {
		if err := s.exec(ctx, createTableSQL(target, defs, true)); err != nil {
			return warehouse.WriteResult{}, err
		}
	}
	if err := s.exec(ctx, swapSQL(target, stage)); err != nil {
		return warehouse.WriteResult{}, err
	}

	return res, nil
}

func (s *session) insertRows(ctx context.Context, t *table.Table, target string, chunkSize int) (warehouse.WriteResult, error) {
	var res warehouse.WriteResult
	columns := t.ColumnNames()

	for _, chunk := range t.Chunks(chunkSize) {
		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			args = append(args, row...)
		}
		if _, err := s.conn.ExecContext(ctx, insertSQL(target, columns, len(chunk)), args...); err != nil {
			return res, fmt.Errorf("failed to insert into %s: %w", target, err)
		}
		res.Rows += int64(len(chunk))
		res.Chunks++
	}
	return res, nil
}

func (s *session) exec(ctx context.Context, stmt string) error {
	logging.Debug().Str("sql", stmt).Msg("Executing")
	if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
	}
	return nil
}

// Close releases the pinned connection and the pool.
func (s *session) Close() error {
	var connErr error
	if s.conn != nil {
		connErr = s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		if connErr == nil {
			connErr = err
		}
	}
	return connErr
}

func stagingName(name string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return name + "_STAGE_" + suffix
}

func createTableSQL(target, defs string, ifNotExists bool) string {
	if ifNotExists {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target, defs)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", target, defs)
}

func dropTableSQL(target string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", target)
}

func swapSQL(target, stage string) string {
	return fmt.Sprintf("ALTER TABLE %s SWAP WITH %s", target, stage)
}

// insertSQL renders a multi-row INSERT with positional binds.
func insertSQL(target string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = warehouse.QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", target, strings.Join(quoted, ", "))
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '('); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func init() {
	warehouse.Register(Driver{})
}
