// Package analyzer wires the streaming counter, the CIDR aggregator and the
// rule suggestion engine behind the public analysis API.
package analyzer

import (
	"fmt"
	"log"
	"sync"

	"FwSpectra/internal/config"
	"FwSpectra/internal/engine/counter"
	"FwSpectra/internal/engine/suggest"
	"FwSpectra/internal/model"
)

const (
	defaultNumWorkers  = 4
	defaultBatchSize   = 100000
	defaultChannelSize = 16
	defaultTopN        = 10
)

// Analyzer owns the accumulated frequency tables for one analysis and
// exposes ingestion, top-N reporting and rule suggestion. Lifecycle is
// construct, then any number of Ingest calls, then queries; queries and
// further ingestion follow a single-writer multiple-reader discipline.
type Analyzer struct {
	cfg     config.AnalyzerConfig
	counter *counter.Counter
}

// New creates an empty Analyzer from configuration.
func New(cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		counter: counter.New(),
	}
}

// Ingest streams the source through a worker pool and folds the results into
// the running tables. Each worker accumulates into a private partial counter
// and merges it in on exit, so results are independent of batch boundaries
// and worker scheduling. Ingest may be called repeatedly to continue
// accumulating from additional sources; the returned error reflects only a
// failure to read the source itself.
func (a *Analyzer) Ingest(src model.RecordSource, batchSize int) error {
	if batchSize <= 0 {
		batchSize = a.cfg.BatchSize
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	numWorkers := a.cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}
	channelSize := a.cfg.SizeOfBatchChannel
	if channelSize <= 0 {
		channelSize = defaultChannelSize
	}

	batches := make(chan []model.LogRecord, channelSize)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			partial := counter.New()
			for batch := range batches {
				partial.CountBatch(batch)
			}
			a.counter.Merge(partial)
		}()
	}

	badRows, err := src.ReadBatches(batchSize, batches)
	wg.Wait()

	a.counter.AddBadRows(badRows)
	if badRows > 0 {
		log.Printf("Skipped %d malformed rows during ingestion.", badRows)
	}
	if err != nil {
		return fmt.Errorf("failed to read record source: %w", err)
	}
	return nil
}

// IngestBatch folds one already-extracted record batch into the tables, for
// callers that receive records over a transport rather than from a
// RecordSource.
func (a *Analyzer) IngestBatch(batch []model.LogRecord) {
	a.counter.CountBatch(batch)
}

// TopN returns the n highest-count entries for one category, highest first.
// n <= 0 falls back to the configured top-N.
func (a *Analyzer) TopN(cat model.Category, n int) []model.TopEntry {
	if n <= 0 {
		n = a.cfg.TopN
	}
	if n <= 0 {
		n = defaultTopN
	}
	return a.counter.TopN(cat, n)
}

// BadRows returns the number of malformed rows skipped so far.
func (a *Analyzer) BadRows() uint64 {
	return a.counter.BadRows()
}

// Reset clears all accumulated state for a new measurement period.
func (a *Analyzer) Reset() {
	a.counter.Reset()
}

// SuggestRules runs the condensation engine over a snapshot of the current
// tables. Zero-valued option fields fall back to the configured thresholds.
func (a *Analyzer) SuggestRules(opts suggest.Options) []string {
	return suggest.Run(a.counter.Snapshot(), a.fillOptions(opts))
}

// Report bundles the four top-N tables, the bad-row count and the rule
// suggestions for report writers and API handlers.
func (a *Analyzer) Report(n int) *model.Report {
	snap := a.counter.Snapshot()
	if n <= 0 {
		n = a.cfg.TopN
	}
	if n <= 0 {
		n = defaultTopN
	}
	tables := make(map[model.Category][]model.TopEntry, len(model.Categories))
	for _, cat := range model.Categories {
		tables[cat] = snap.Tables[cat].TopN(n)
	}
	return &model.Report{
		Tables:      tables,
		BadRows:     snap.BadRows,
		Suggestions: suggest.Run(snap, a.fillOptions(suggest.Options{})),
	}
}

func (a *Analyzer) fillOptions(opts suggest.Options) suggest.Options {
	if opts.IPThreshold <= 0 {
		opts.IPThreshold = a.cfg.IPThreshold
	}
	if opts.MinPortShare <= 0 {
		opts.MinPortShare = a.cfg.MinPortShare
	}
	if opts.MaxPorts <= 0 {
		opts.MaxPorts = a.cfg.MaxPorts
	}
	if opts.MaxRules <= 0 {
		opts.MaxRules = a.cfg.MaxRules
	}
	if opts.TargetCoverage <= 0 {
		opts.TargetCoverage = a.cfg.TargetCoverage
	}
	return opts
}
