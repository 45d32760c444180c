// Package csvsource streams firewall log records from a CSV file. The file
// either exposes the four canonical columns directly, detected from its
// header row, or carries key=value tokens in its cells.
package csvsource

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"FwSpectra/internal/extract"
	"FwSpectra/internal/model"
)

// Reader is a CSV-backed record source.
type Reader struct {
	path string
}

// NewReader creates a record source for the given CSV file path. The file is
// opened lazily on ReadBatches so a single Reader stays cheap to construct.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadBatches streams the file in batches of at most batchSize records.
// The extractor is selected once from the header row: direct column access
// when all four canonical columns are present, key=value token parsing
// otherwise (in which case the first row is treated as data too).
// Malformed rows are counted and skipped; only open and read failures of
// the underlying file surface as errors.
func (r *Reader) ReadBatches(batchSize int, out chan<- []model.LogRecord) (uint64, error) {
	defer close(out)

	file, err := os.Open(r.path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return readRecords(file, batchSize, out)
}

// readRecords runs the CSV decode loop over an already-open stream. CSV parse
// errors count as bad rows; any other read error is an I/O failure that
// csv.Reader would re-return forever, so it aborts the stream instead.
func readRecords(src io.Reader, batchSize int, out chan<- []model.LogRecord) (uint64, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var extractor model.Extractor
	var badRows uint64
	batch := make([]model.LogRecord, 0, batchSize)

	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		return 0, nil
	case err != nil:
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return 0, err
		}
		// Unparseable first row: count it and fall back to token parsing.
		badRows++
		extractor = extract.TokenExtractor{}
	default:
		if direct, ok := extract.NewDirectExtractor(header); ok {
			extractor = direct
		} else {
			extractor = extract.TokenExtractor{}
			// No canonical header: the first row is data.
			if rec, ok := extractor.Extract(header); ok {
				batch = append(batch, rec)
			} else {
				badRows++
			}
		}
	}

	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				badRows++
				continue
			}
			return badRows, err
		}
		rec, ok := extractor.Extract(row)
		if !ok {
			badRows++
			continue
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			out <- batch
			batch = make([]model.LogRecord, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		out <- batch
	}
	return badRows, nil
}
