package model

// Extractor normalizes one raw log row into a LogRecord.
// Implementations are selected once per record source, depending on whether
// the source exposes the four canonical columns directly or loosely
// delimited key=value tokens.
type Extractor interface {
	// Extract returns the record parsed from row. ok is false when the row
	// yields no recognizable field; such rows are counted as malformed by
	// the caller, never treated as fatal.
	Extract(row []string) (rec LogRecord, ok bool)
}
