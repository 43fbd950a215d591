//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader uploads generated CSV files to a warehouse, one table per
// file. A failed file is logged and recorded; the remaining files still load.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/metrics"
	"github.com/pgEdge/pgedge-retailgen/internal/table"
	"github.com/pgEdge/pgedge-retailgen/internal/warehouse"
)

// Target pairs a CSV file with its destination table.
type Target struct {
	Path  string
	Table string
}

// DefaultTargets returns the three generated files in dataDir, in load order.
func DefaultTargets(dataDir string) []Target {
	return []Target{
		{Path: filepath.Join(dataDir, "transaction_data.csv"), Table: "TRANSACTIONS"},
		{Path: filepath.Join(dataDir, "product.csv"), Table: "PRODUCTS"},
		{Path: filepath.Join(dataDir, "hh_demographic.csv"), Table: "DEMOGRAPHICS"},
	}
}

// Result is the outcome of loading one target.
type Result struct {
	Target   Target
	Rows     int64
	Chunks   int
	Duration time.Duration
	Err      error
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Loader loads targets through a warehouse driver.
type Loader struct {
	driver  warehouse.Driver
	cfg     config.LoadConfig
	metrics *metrics.Registry
	runID   uuid.UUID
}

// Option configures a Loader.
type Option func(*Loader)

// WithMetrics records load outcomes in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithRunID sets the run id attached to logs and load history.
func WithRunID(id uuid.UUID) Option {
	return func(l *Loader) { l.runID = id }
}

// New creates a loader. Each load gets a fresh run id unless WithRunID is
// given.
func New(driver warehouse.Driver, cfg config.LoadConfig, opts ...Option) *Loader {
	l := &Loader{driver: driver, cfg: cfg, runID: uuid.New()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunID returns the loader's run id.
func (l *Loader) RunID() uuid.UUID {
	return l.runID
}

// Load opens a session, reads the target file and writes it to the
// destination table, replacing its contents. The session is always closed.
func (l *Loader) Load(ctx context.Context, target Target) (res Result) {
	start := time.Now()
	res.Target = target

	log := logging.With().
		Str("run_id", l.runID.String()).
		Str("driver", l.driver.Name()).
		Str("table", target.Table).
		Str("file", target.Path).
		Logger()

	defer func() {
		res.Duration = time.Since(start)
		if l.metrics != nil {
			l.metrics.ObserveLoad(target.Table, res.Rows, res.Duration, res.Err)
		}
		if res.Err != nil {
			log.Error().Err(res.Err).Msg("Error ingesting")
		}
	}()

	log.Info().Msg("Starting ingestion")

	session, err := l.driver.Open(ctx, l.cfg)
	if err != nil {
		res.Err = fmt.Errorf("failed to open %s session: %w", l.driver.Name(), err)
		return res
	}
	defer closeSession(session, log)

	t, err := table.ReadCSV(target.Path)
	if err != nil {
		res.Err = err
		return res
	}

	wr, err := session.WriteTable(ctx, t, target.Table, warehouse.WriteOptions{
		AutoCreate: true,
		Overwrite:  true,
		ChunkSize:  l.cfg.ChunkSize,
		RunID:      l.runID,
		Source:     filepath.Base(target.Path),
	})
	if err != nil {
		res.Err = err
		return res
	}

	res.Rows = wr.Rows
	res.Chunks = wr.Chunks
	log.Info().
		Int64("rows", wr.Rows).
		Int("chunks", wr.Chunks).
		Msgf("Successfully ingested %d rows", wr.Rows)
	return res
}

func closeSession(s warehouse.Session, log zerolog.Logger) {
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close session")
	}
}

// Run loads targets one after another. A failed target does not stop the
// rest; each gets a Result in order.
func (l *Loader) Run(ctx context.Context, targets []Target) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		results = append(results, l.Load(ctx, target))
	}
	return results
}

// Summary aggregates a set of results.
type Summary struct {
	Loaded int
	Failed []string
	Rows   int64
}

// Err returns an error naming the failed tables, or nil.
func (s Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("failed to load %d table(s): %s", len(s.Failed), strings.Join(s.Failed, ", "))
}

// Summarize totals results and logs the outcome.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.OK() {
			s.Loaded++
			s.Rows += r.Rows
			continue
		}
		s.Failed = append(s.Failed, r.Target.Table)
	}

	ev := logging.Info()
	if len(s.Failed) > 0 {
		ev = logging.Warn().Strs("failed", s.Failed)
	}
	ev.Int("loaded", s.Loaded).Int64("rows", s.Rows).Msg("Load complete")

	return s
}
