// Package db provides PostgreSQL connection management for retailgen.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// DefaultConnectTimeout bounds connection establishment when the connection
// string does not set connect_timeout.
const DefaultConnectTimeout = 30 * time.Second

// ParseConfig parses connString and tags the connection with appName.
func ParseConfig(connString, appName string) (*pgx.ConnConfig, error) {
	config, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if appName != "" {
		config.RuntimeParams["application_name"] = appName
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	return config, nil
}

// ConnectSingle opens one connection to the PostgreSQL database. Loads run
// inside a single transaction so a pool buys nothing.
func ConnectSingle(ctx context.Context, connString, appName string) (*pgx.Conn, error) {
	config, err := ParseConfig(connString, appName)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("host", config.Host).
		Uint16("port", config.Port).
		Str("database", config.Database).
		Msg("Connecting to database")

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Debug().
		Str("host", config.Host).
		Str("database", config.Database).
		Msg("Connected to database")

	return conn, nil
}
