//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides utilities for integration testing.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// ConnEnvVar names an existing PostgreSQL server to test against
	// instead of starting a container.
	ConnEnvVar = "RETAILGEN_TEST_CONN"

	// PostgresImage is the container image used when ConnEnvVar is unset.
	PostgresImage = "postgres:16-alpine"

	// TestSchemaPrefix is the prefix for per-test schemas.
	TestSchemaPrefix = "retailgen_test_"
)

// PostgresAvailable checks that connStr accepts connections.
func PostgresAvailable(connStr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return false
	}
	defer conn.Close(ctx)

	return conn.Ping(ctx) == nil
}

// Postgres returns a connection string for a test server. It uses
// ConnEnvVar when set and otherwise starts a container that is terminated
// when the test ends. The test is skipped if neither is available.
func Postgres(t *testing.T) string {
	t.Helper()

	if connStr := os.Getenv(ConnEnvVar); connStr != "" {
		if !PostgresAvailable(connStr) {
			t.Skipf("PostgreSQL at %s not available, skipping integration test", ConnEnvVar)
		}
		return connStr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, PostgresImage,
		postgres.WithDatabase("retailgen"),
		postgres.WithUsername("retailgen"),
		postgres.WithPassword("retailgen"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if ctr != nil {
		testcontainers.CleanupContainer(t, ctr)
	}
	if err != nil {
		t.Skipf("PostgreSQL container not available, skipping integration test: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get container connection string: %v", err)
	}
	return connStr
}

// SchemaName returns a random schema name for one test.
func SchemaName(t *testing.T) string {
	t.Helper()

	randomBytes := make([]byte, 6)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random schema name: %v", err)
	}
	return TestSchemaPrefix + hex.EncodeToString(randomBytes)
}

// ConnectTestDB connects to connStr and closes the connection when the test
// ends. The schema is dropped on cleanup unless the test failed, so failed
// runs can be inspected.
func ConnectTestDB(t *testing.T, connStr, schema string) *pgx.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if schema != "" {
			if t.Failed() {
				t.Logf("Test failed - keeping schema %s for diagnostics", schema)
			} else if _, err := conn.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
				t.Logf("Warning: Failed to drop test schema: %v", err)
			}
		}
		conn.Close(ctx)
	})

	return conn
}
