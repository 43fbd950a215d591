package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/loader"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/metrics"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

var (
	loadDataDir     string
	loadDriver      string
	loadSchema      string
	loadChunkSize   int
	loadMetricsFile string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the generated CSV files into a warehouse",
	Long: `Load transaction_data.csv, product.csv and hh_demographic.csv into the
TRANSACTIONS, PRODUCTS and DEMOGRAPHICS tables, replacing their contents and
creating them if needed. A failed file is logged and the remaining files are
still loaded; the command exits non-zero if any file failed.

Snowflake credentials come from SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER,
SNOWFLAKE_PASSWORD, SNOWFLAKE_WAREHOUSE and SNOWFLAKE_DATABASE, which may be
set in a .env file. A missing account or user (or a missing postgres
connection string) is rejected before any file is read; connection and file
errors after that are reported per file.

Example:
  retailgen load --data-dir data --driver snowflake`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDataDir, "data-dir", "",
		"directory holding the CSV files (default: data)")
	loadCmd.Flags().StringVar(&loadDriver, "driver", "",
		"warehouse driver (see 'retailgen warehouses', default: snowflake)")
	loadCmd.Flags().StringVar(&loadSchema, "schema", "",
		"destination schema (default: RAW)")
	loadCmd.Flags().IntVar(&loadChunkSize, "chunk-size", 0,
		"rows per insert statement (default: 1000)")
	loadCmd.Flags().StringVar(&loadMetricsFile, "metrics-file", "",
		"write Prometheus metrics to this textfile")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadDataDir != "" {
		cfg.Load.DataDir = loadDataDir
	}
	if loadDriver != "" {
		cfg.Load.Driver = loadDriver
	}
	if loadSchema != "" {
		cfg.Load.Schema = loadSchema
	}
	if loadChunkSize > 0 {
		cfg.Load.ChunkSize = loadChunkSize
	}
	if loadMetricsFile != "" {
		cfg.Load.MetricsFile = loadMetricsFile
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	driver, err := warehouse.Get(cfg.Load.Driver)
	if err != nil {
		return err
	}

	m := metrics.NewRegistry()
	l := loader.New(driver, cfg.Load, loader.WithMetrics(m))

	logging.Info().
		Str("run_id", l.RunID().String()).
		Str("driver", driver.Name()).
		Str("schema", cfg.Load.Schema).
		Str("data_dir", cfg.Load.DataDir).
		Msg("Loading files")

	results := l.Run(cmd.Context(), loader.DefaultTargets(cfg.Load.DataDir))
	summary := loader.Summarize(results)

	if cfg.Load.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Load.MetricsFile); err != nil {
			logging.Error().Err(err).Msg("Failed to write metrics")
		}
	}

	return summary.Err()
}
