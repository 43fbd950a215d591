package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/metrics"
	"github.com/pgEdge/pgedge-retailgen/internal/retail"
)

var (
	genOutputDir    string
	genSeed         uint64
	genHouseholds   int
	genProducts     int
	genTransactions int
	genMetricsFile  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic retail CSV files",
	Long: `Generate household demographics, a product catalog and transaction
line items, and write them as hh_demographic.csv, product.csv and
transaction_data.csv. The same seed always produces identical files.

Example:
  retailgen generate --output-dir data --seed 42`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "",
		"directory to write the CSV files to (default: data)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed (default: 42)")
	generateCmd.Flags().IntVar(&genHouseholds, "households", 0,
		"number of households (default: 100)")
	generateCmd.Flags().IntVar(&genProducts, "products", 0,
		"number of products (default: 50)")
	generateCmd.Flags().IntVar(&genTransactions, "transactions", 0,
		"number of transaction line items (default: 2000)")
	generateCmd.Flags().StringVar(&genMetricsFile, "metrics-file", "",
		"write Prometheus metrics to this textfile")
}

// generateOptions converts the config into generator options.
func generateOptions(g config.GenerateConfig) (retail.Options, error) {
	start, err := g.StartTime()
	if err != nil {
		return retail.Options{}, err
	}
	opts := retail.DefaultOptions()
	opts.Households = g.Households
	opts.Products = g.Products
	opts.Transactions = g.Transactions
	opts.StartDate = start
	opts.Days = g.Days
	opts.WeekendBoostProbability = g.WeekendBoostProbability
	opts.DiscountProbability = g.DiscountProbability
	opts.DiscountRate = g.DiscountRate
	opts.HighIncomeMultiplier = g.HighIncomeMultiplier
	return opts, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	flags := cmd.Flags()
	if genOutputDir != "" {
		cfg.Generate.OutputDir = genOutputDir
	}
	if flags.Changed("seed") {
		cfg.Generate.Seed = genSeed
	}
	if flags.Changed("households") {
		cfg.Generate.Households = genHouseholds
	}
	if flags.Changed("products") {
		cfg.Generate.Products = genProducts
	}
	if flags.Changed("transactions") {
		cfg.Generate.Transactions = genTransactions
	}
	if genMetricsFile != "" {
		cfg.Generate.MetricsFile = genMetricsFile
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	opts, err := generateOptions(cfg.Generate)
	if err != nil {
		return err
	}

	logging.Info().
		Uint64("seed", cfg.Generate.Seed).
		Int("households", opts.Households).
		Int("products", opts.Products).
		Int("transactions", opts.Transactions).
		Msg("Generating dataset")

	ds := retail.NewGenerator(cfg.Generate.Seed, opts).Generate()

	files, err := retail.WriteDataset(cfg.Generate.OutputDir, ds)
	if err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	if cfg.Generate.MetricsFile != "" {
		m := metrics.NewRegistry()
		for _, f := range files {
			m.ObserveGenerated(f.Table, f.Rows)
		}
		if err := m.WriteTextfile(cfg.Generate.MetricsFile); err != nil {
			return err
		}
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Path
	}
	logging.Info().
		Str("output_dir", cfg.Generate.OutputDir).
		Msgf("Data generation complete: %s", strings.Join(names, ", "))

	return nil
}
