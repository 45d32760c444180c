package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"FwSpectra/internal/config"
	"FwSpectra/internal/engine/analyzer"
	"FwSpectra/internal/engine/suggest"
	"FwSpectra/internal/model"
	"FwSpectra/internal/source/csvsource"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the shared analyzer
	apiHandler := &APIHandler{
		analyzer:  analyzer.New(cfg.Analyzer),
		batchSize: cfg.Analyzer.BatchSize,
	}

	// Initialize router
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/ingest", apiHandler.ingestHandler).Methods("POST")
	r.HandleFunc("/api/v1/top/{category}", apiHandler.topHandler).Methods("GET")
	r.HandleFunc("/api/v1/suggestions", apiHandler.suggestionsHandler).Methods("GET")
	r.HandleFunc("/api/v1/stats", apiHandler.statsHandler).Methods("GET")

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	analyzer  *analyzer.Analyzer
	batchSize int

	// Ingestion is single-writer; queries read snapshots and need no lock.
	ingestMu sync.Mutex
}

type ingestRequest struct {
	Path      string `json:"path"`
	BatchSize int    `json:"batch_size"`
}

// ingestHandler streams a CSV log into the shared analyzer.
func (h *APIHandler) ingestHandler(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = h.batchSize
	}

	h.ingestMu.Lock()
	defer h.ingestMu.Unlock()

	if err := h.analyzer.Ingest(csvsource.NewReader(req.Path), req.BatchSize); err != nil {
		http.Error(w, fmt.Sprintf("failed to ingest log: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]uint64{"bad_rows": h.analyzer.BadRows()})
}

// topHandler returns the top-N entries for one category.
func (h *APIHandler) topHandler(w http.ResponseWriter, r *http.Request) {
	cat := model.Category(mux.Vars(r)["category"])
	if !cat.Valid() {
		http.Error(w, fmt.Sprintf("unknown category '%s'", cat), http.StatusBadRequest)
		return
	}

	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid n: %v", err), http.StatusBadRequest)
			return
		}
		n = parsed
	}

	writeJSON(w, h.analyzer.TopN(cat, n))
}

// suggestionsHandler returns the condensed rule suggestions.
func (h *APIHandler) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	opts := suggest.Options{}
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("max_rules")); err == nil {
		opts.MaxRules = v
	}
	if v, err := strconv.Atoi(q.Get("max_ports")); err == nil {
		opts.MaxPorts = v
	}
	if v, err := strconv.ParseFloat(q.Get("min_port_share"), 64); err == nil {
		opts.MinPortShare = v
	}
	if v, err := strconv.ParseFloat(q.Get("target_coverage"), 64); err == nil {
		opts.TargetCoverage = v
	}

	writeJSON(w, h.analyzer.SuggestRules(opts))
}

// statsHandler reports diagnostic counters.
func (h *APIHandler) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]uint64{"bad_rows": h.analyzer.BadRows()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
