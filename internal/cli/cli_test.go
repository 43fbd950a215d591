package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/retail"
	_ "github.com/pgEdge/pgedge-retailgen/internal/warehouse/memory"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateOptions(t *testing.T) {
	g := config.DefaultConfig().Generate
	g.StartDate = "2022-03-01"
	g.Households = 7

	opts, err := generateOptions(g)
	require.NoError(t, err)
	assert.Equal(t, 7, opts.Households)
	assert.Equal(t, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), opts.StartDate)
	assert.Equal(t, g.DiscountRate, opts.DiscountRate)

	g.StartDate = "March"
	_, err = generateOptions(g)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RETAILGEN_CLI_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("RETAILGEN_CLI_TEST_VAR", "")
	os.Unsetenv("RETAILGEN_CLI_TEST_VAR")

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("RETAILGEN_CLI_TEST_VAR"))

	assert.Error(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestGenerateThenLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "generate", "--output-dir", dir,
		"--households", "5", "--products", "3", "--transactions", "12")
	require.NoError(t, err)

	for _, name := range []string{retail.HouseholdFile, retail.ProductFile, retail.TransactionFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	metricsFile := filepath.Join(t.TempDir(), "load.prom")
	_, err = execute(t, "load", "--driver", "memory", "--data-dir", dir, "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.FileExists(t, metricsFile)
}

func TestLoadReportsFailedTables(t *testing.T) {
	_, err := execute(t, "load", "--driver", "memory", "--data-dir", t.TempDir(), "--metrics-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSACTIONS")
	assert.Contains(t, err.Error(), "DEMOGRAPHICS")
}

func TestLoadUnknownDriver(t *testing.T) {
	_, err := execute(t, "load", "--driver", "nonexistent", "--data-dir", t.TempDir())
	assert.Error(t, err)
}

func TestWarehousesCommand(t *testing.T) {
	out, err := execute(t, "warehouses")
	require.NoError(t, err)
	assert.Contains(t, out, "memory")
}

func TestGenerateLogsEachEventOnce(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	cfg = config.DefaultConfig()
	genOutputDir = t.TempDir()
	genMetricsFile = ""

	require.NoError(t, runGenerate(generateCmd, nil))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `"message":"Generating dataset"`), out)
	assert.Equal(t, 1, strings.Count(out, `"message":"Generating households"`), out)
}

func TestLoadHelpDescribesUpfrontValidation(t *testing.T) {
	assert.Contains(t, loadCmd.Long, "rejected before any file is read")
	assert.Contains(t, loadCmd.Long, "reported per file")
}
