package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"FwSpectra/internal/config"
	"FwSpectra/internal/engine/analyzer"
	"FwSpectra/internal/model"
	"FwSpectra/internal/report"
	"FwSpectra/internal/source/chsource"
	"FwSpectra/internal/source/csvsource"
	"FwSpectra/pkg/pcap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	sourceType := flag.String("source", "csv", "record source type: csv, pcap or clickhouse")
	topN := flag.Int("top", 0, "top-N rows to show (0 = configured default)")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Open the record source
	src, cleanup, err := newSource(cfg, *sourceType, flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open %s source: %v", *sourceType, err)
	}
	defer cleanup()

	// 3. Initialize the analyzer and ingest the records
	a := analyzer.New(cfg.Analyzer)
	log.Printf("Ingesting records from %s source...", *sourceType)
	if err := a.Ingest(src, cfg.Analyzer.BatchSize); err != nil {
		log.Fatalf("Failed to ingest records: %v", err)
	}

	// 4. Print top tables and rule suggestions
	if err := report.Render(os.Stdout, a.Report(*topN)); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
}

// newSource builds the record source named by sourceType. File-backed sources
// take the path as the first positional argument; the clickhouse source is
// configured entirely from the config file.
func newSource(cfg *config.Config, sourceType, path string) (model.RecordSource, func(), error) {
	switch sourceType {
	case "csv":
		if path == "" {
			return nil, nil, fmt.Errorf("usage: fw-analyzer [flags] <path_to_csv_log>")
		}
		return csvsource.NewReader(path), func() {}, nil
	case "pcap":
		if path == "" {
			return nil, nil, fmt.Errorf("usage: fw-analyzer -source pcap [flags] <path_to_pcap>")
		}
		r, err := pcap.NewReader(path)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case "clickhouse":
		r, err := chsource.NewReader(cfg.ClickHouse)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source type '%s'", sourceType)
	}
}
