package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"FwSpectra/internal/config"
	"FwSpectra/internal/engine/analyzer"
	"FwSpectra/internal/model"
	"FwSpectra/internal/probe"
	"FwSpectra/internal/report"
)

func main() {
	log.Println("Starting fw-engine...")

	// 1. Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize the analyzer and report writers
	a := analyzer.New(cfg.Analyzer)
	writers := buildWriters(cfg.Engine.Writers)

	// 3. Subscribe to the record stream
	subscriber, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	if err := subscriber.Start(func(batch []model.LogRecord) {
		a.IngestBatch(batch)
	}); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	// 4. Start a reporter goroutine per writer, plus the optional resetter
	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, w := range writers {
		wg.Add(1)
		go runReporter(a, w, cfg.Analyzer.TopN, done, &wg)
		log.Printf("Started reporter with interval %s.", w.GetInterval())
	}
	if cfg.Engine.Period != "" {
		period, err := time.ParseDuration(cfg.Engine.Period)
		if err != nil {
			log.Fatalf("Invalid engine period: %v", err)
		}
		wg.Add(1)
		go runResetter(a, period, done, &wg)
		log.Printf("Started resetter with period %s.", period)
	}

	// 5. Wait for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, stopping engine...")
	subscriber.Close()
	close(done)
	wg.Wait()
	log.Println("Shutdown complete.")
}

// buildWriters creates the enabled report writers from config.
func buildWriters(defs []config.ReportWriterDef) []model.ReportWriter {
	var writers []model.ReportWriter
	for _, def := range defs {
		if !def.Enabled {
			continue
		}

		interval, err := time.ParseDuration(def.Interval)
		if err != nil {
			log.Printf("Warning: invalid interval for writer type '%s': %v, skipping.", def.Type, err)
			continue
		}

		switch def.Type {
		case "text":
			writers = append(writers, report.NewTextWriter(def.RootPath, interval))
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
		}
	}
	return writers
}

// runReporter periodically writes a report through one writer, and once more
// at shutdown.
func runReporter(a *analyzer.Analyzer, w model.ReportWriter, topN int, done <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(w.GetInterval())
	defer ticker.Stop()

	write := func() {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		if err := w.Write(a.Report(topN), timestamp); err != nil {
			log.Printf("Error writing report: %v", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			write()
		case <-done:
			write()
			return
		}
	}
}

// runResetter clears the tables at the end of every measurement period.
func runResetter(a *analyzer.Analyzer, period time.Duration, done <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Printf("Resetting tables for new measurement period at %s", time.Now().Format("2006-01-02_15-04-05"))
			a.Reset()
		case <-done:
			log.Println("Resetter shutting down.")
			return
		}
	}
}
