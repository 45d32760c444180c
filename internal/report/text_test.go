package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"FwSpectra/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Tables: map[model.Category][]model.TopEntry{
			model.CategorySrcIP:   {{Key: "192.168.1.1", Count: 100}},
			model.CategoryDstIP:   {{Key: "10.0.0.5", Count: 90}, {Key: "10.0.0.9", Count: 10}},
			model.CategorySrcPort: {},
			model.CategoryDstPort: {{Key: "443", Count: 100}},
		},
		BadRows:     2,
		Suggestions: []string{"Allow 192.168.1.1/32 -> 10.0.0.5/32 on [443] (src 100%, dst 90%)"},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"==== Top values ====",
		"Source IP:",
		"Destination IP:",
		"10.0.0.5",
		"(no data)",
		"skipped 2 malformed rows",
		"==== Firewall rule suggestion(s) ====",
		"* Allow 192.168.1.1/32",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q:\n%s", want, out)
		}
	}
}

// cappedWriter fails once its byte budget is spent, like a full disk.
type cappedWriter struct {
	remaining int
	err       error
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	if len(p) > c.remaining {
		n := c.remaining
		c.remaining = 0
		return n, c.err
	}
	c.remaining -= len(p)
	return len(p), nil
}

func TestRenderPropagatesWriteError(t *testing.T) {
	writeErr := errors.New("no space left on device")

	// Whether the writer fails on the heading, a table body line or the
	// suggestions section, Render must report it.
	for _, budget := range []int{0, 30, 80, 150} {
		w := &cappedWriter{remaining: budget, err: writeErr}
		if err := Render(w, sampleReport()); !errors.Is(err, writeErr) {
			t.Errorf("budget %d: err = %v, want %v", budget, err, writeErr)
		}
	}
}

func TestTextWriter(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewTextWriter(tmpDir, time.Minute)

	if got := w.GetInterval(); got != time.Minute {
		t.Errorf("GetInterval = %s, want 1m", got)
	}

	timestamp := "2026-01-02_15-04-05"
	if err := w.Write(sampleReport(), timestamp); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := filepath.Join(tmpDir, timestamp, "report.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "Firewall rule suggestion(s)") {
		t.Errorf("report file missing suggestions section")
	}
}
