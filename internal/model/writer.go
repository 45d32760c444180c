package model

import "time"

// ReportWriter persists or renders one analysis report.
type ReportWriter interface {
	// Write renders the report. The timestamp is a filesystem-safe label for
	// the moment the report was taken.
	Write(report *Report, timestamp string) error

	// GetInterval returns how often a long-running engine should emit a
	// report through this writer.
	GetInterval() time.Duration
}
