// Package main is the entry point for retailgen.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pgEdge/pgedge-retailgen/internal/cli"

	// Register warehouse drivers
	_ "github.com/pgEdge/pgedge-retailgen/internal/warehouse/memory"
	_ "github.com/pgEdge/pgedge-retailgen/internal/warehouse/postgres"
	_ "github.com/pgEdge/pgedge-retailgen/internal/warehouse/snowflake"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
