// Package report renders analysis reports as plain text.
package report

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"FwSpectra/internal/model"
)

// Render writes the human-readable report: the four top-value tables
// followed by the rule suggestions.
func Render(w io.Writer, rep *model.Report) error {
	if _, err := fmt.Fprintln(w, "==== Top values ===="); err != nil {
		return err
	}
	for _, cat := range model.Categories {
		if _, err := fmt.Fprintf(w, "\n%s:\n", cat.DisplayName()); err != nil {
			return err
		}
		entries := rep.Tables[cat]
		if len(entries) == 0 {
			if _, err := fmt.Fprintln(w, "  (no data)"); err != nil {
				return err
			}
			continue
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "  %-24s %d\n", e.Key, e.Count); err != nil {
				return err
			}
		}
	}

	if rep.BadRows > 0 {
		if _, err := fmt.Fprintf(w, "\n[!] skipped %d malformed rows\n", rep.BadRows); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\n==== Firewall rule suggestion(s) ===="); err != nil {
		return err
	}
	for _, s := range rep.Suggestions {
		if _, err := fmt.Fprintf(w, "* %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// TextWriter writes timestamped report files under a root directory.
type TextWriter struct {
	rootPath string
	interval time.Duration
}

// NewTextWriter creates a new text report writer.
func NewTextWriter(rootPath string, interval time.Duration) model.ReportWriter {
	return &TextWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured report interval for this writer.
func (w *TextWriter) GetInterval() time.Duration {
	return w.interval
}

// Write renders the report to <root>/<timestamp>/report.txt.
func (w *TextWriter) Write(rep *model.Report, timestamp string) error {
	reportDir := filepath.Join(w.rootPath, timestamp)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	filePath := filepath.Join(reportDir, "report.txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", filePath, err)
	}
	defer file.Close()

	if err := Render(file, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("Wrote report to %s", filePath)
	return nil
}
