package main

import (
	"flag"
	"log"

	"FwSpectra/internal/config"
	"FwSpectra/internal/model"
	"FwSpectra/internal/probe"
	"FwSpectra/internal/source/csvsource"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("Usage: fw-probe [flags] <path_to_csv_log>")
	}
	csvPath := flag.Arg(0)

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to NATS
	publisher, err := probe.NewPublisher(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}
	defer publisher.Close()

	// 3. Stream the log file and publish record batches
	batchSize := cfg.Analyzer.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	batches := make(chan []model.LogRecord, 1)
	src := csvsource.NewReader(csvPath)

	published := 0
	errChan := make(chan error, 1)
	badChan := make(chan uint64, 1)
	go func() {
		badRows, err := src.ReadBatches(batchSize, batches)
		badChan <- badRows
		errChan <- err
	}()

	for batch := range batches {
		if err := publisher.Publish(batch); err != nil {
			log.Fatalf("Failed to publish batch: %v", err)
		}
		published += len(batch)
	}

	if badRows := <-badChan; badRows > 0 {
		log.Printf("Skipped %d malformed rows.", badRows)
	}
	if err := <-errChan; err != nil {
		log.Fatalf("Failed to read log: %v", err)
	}
	log.Printf("Published %d records from '%s'.", published, csvPath)
}
