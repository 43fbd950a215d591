//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retailgen.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retailgen",
		Short: "Synthetic retail dataset generator and warehouse loader",
		Long: `retailgen generates a reproducible synthetic retail dataset
(household demographics, a product catalog and transaction line items) as
CSV files, and loads those files into a data warehouse.

Typical use:
  retailgen generate
  retailgen load`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// ExecuteContext runs the root command with ctx, which is passed to
// warehouse calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retailgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"dotenv file with warehouse credentials (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(warehousesCmd)
}

// loadEnv loads a dotenv file into the process environment. Variables that
// are already set win. A missing default .env is not an error.
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func initConfig() error {
	if err := loadEnv(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var warehousesCmd = &cobra.Command{
	Use:   "warehouses",
	Short: "List available warehouse drivers",
	Long: `List the warehouse drivers that 'retailgen load' can write to.
Select one with --driver or load.driver in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("Available warehouse drivers:")
		cmd.Println()
		for _, name := range warehouse.List() {
			d, err := warehouse.Get(name)
			if err != nil {
				return err
			}
			cmd.Printf("  %-10s - %s\n", name, d.Description())
		}
		return nil
	},
}
