//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retailgen.
// Configuration is loaded from an optional config file, environment
// variables (warehouse credentials) and CLI flags, in increasing order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the layout used for dates in config and generated files.
const DateLayout = "2006-01-02"

// Config holds all configuration for retailgen.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`
}

// GenerateConfig holds configuration for synthetic data generation.
type GenerateConfig struct {
	// OutputDir is the directory the three CSV files are written to.
	OutputDir string `mapstructure:"output_dir"`

	// Seed makes a run reproducible.
	Seed uint64 `mapstructure:"seed"`

	Households   int `mapstructure:"households"`
	Products     int `mapstructure:"products"`
	Transactions int `mapstructure:"transactions"`

	// StartDate is the first day of the transaction window (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`

	// Days is the length of the transaction window.
	Days int `mapstructure:"days"`

	// WeekendBoostProbability is the chance a weekend line item gets one
	// extra unit.
	WeekendBoostProbability float64 `mapstructure:"weekend_boost_probability"`

	// DiscountProbability is the chance a line item carries a retail discount.
	DiscountProbability float64 `mapstructure:"discount_probability"`

	// DiscountRate is the discount as a fraction of the sales value.
	DiscountRate float64 `mapstructure:"discount_rate"`

	// HighIncomeMultiplier scales the unit price for high income households.
	HighIncomeMultiplier float64 `mapstructure:"high_income_multiplier"`

	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `mapstructure:"metrics_file"`
}

// LoadConfig holds configuration for loading files into a warehouse.
type LoadConfig struct {
	// DataDir is the directory holding the generated CSV files.
	DataDir string `mapstructure:"data_dir"`

	// Driver selects the warehouse driver (snowflake, postgres, memory).
	Driver string `mapstructure:"driver"`

	// Schema is the destination schema.
	Schema string `mapstructure:"schema"`

	// ChunkSize is the number of rows sent per insert statement.
	ChunkSize int `mapstructure:"chunk_size"`

	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `mapstructure:"metrics_file"`

	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
}

// SnowflakeConfig holds Snowflake connection settings.
type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Warehouse string `mapstructure:"warehouse"`
	Database  string `mapstructure:"database"`
	Role      string `mapstructure:"role"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`
}

// envBindings maps config keys to the environment variables that supply them.
var envBindings = map[string]string{
	"load.snowflake.account":   "SNOWFLAKE_ACCOUNT",
	"load.snowflake.user":      "SNOWFLAKE_USER",
	"load.snowflake.password":  "SNOWFLAKE_PASSWORD",
	"load.snowflake.warehouse": "SNOWFLAKE_WAREHOUSE",
	"load.snowflake.database":  "SNOWFLAKE_DATABASE",
	"load.snowflake.role":      "SNOWFLAKE_ROLE",
	"load.postgres.connection": "RETAILGEN_POSTGRES_CONNECTION",
	"load.driver":              "RETAILGEN_DRIVER",
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Generate: GenerateConfig{
			OutputDir:               "data",
			Seed:                    42,
			Households:              100,
			Products:                50,
			Transactions:            2000,
			StartDate:               "2021-01-01",
			Days:                    365,
			WeekendBoostProbability: 0.2,
			DiscountProbability:     0.2,
			DiscountRate:            0.1,
			HighIncomeMultiplier:    1.5,
		},
		Load: LoadConfig{
			DataDir:   "data",
			Driver:    "snowflake",
			Schema:    "RAW",
			ChunkSize: 1000,
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retailgen.yaml
// 3. ~/.config/retailgen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retailgen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retailgen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// StartTime parses the configured start date.
func (g GenerateConfig) StartTime() (time.Time, error) {
	t, err := time.Parse(DateLayout, g.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q: %w", g.StartDate, err)
	}
	return t, nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	if g.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if g.Households < 1 {
		return fmt.Errorf("households must be at least 1")
	}
	if g.Products < 1 {
		return fmt.Errorf("products must be at least 1")
	}
	if g.Transactions < 0 {
		return fmt.Errorf("transactions must be non-negative")
	}
	if g.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if _, err := g.StartTime(); err != nil {
		return err
	}
	for name, p := range map[string]float64{
		"weekend_boost_probability": g.WeekendBoostProbability,
		"discount_probability":      g.DiscountProbability,
		"discount_rate":             g.DiscountRate,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if g.HighIncomeMultiplier <= 0 {
		return fmt.Errorf("high_income_multiplier must be positive")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	l := c.Load
	if l.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if l.Driver == "" {
		return fmt.Errorf("warehouse driver is required")
	}
	if l.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if l.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1")
	}
	switch l.Driver {
	case "snowflake":
		if l.Snowflake.Account == "" {
			return fmt.Errorf("snowflake account is required (SNOWFLAKE_ACCOUNT)")
		}
		if l.Snowflake.User == "" {
			return fmt.Errorf("snowflake user is required (SNOWFLAKE_USER)")
		}
	case "postgres":
		if l.Postgres.Connection == "" {
			return fmt.Errorf("postgres connection string is required")
		}
	}
	return nil
}
