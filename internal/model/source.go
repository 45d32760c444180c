package model

// RecordSource streams extracted log records in bounded-size batches,
// allowing ingestion memory to stay independent of input size.
type RecordSource interface {
	// ReadBatches reads the whole source and sends batches of at most
	// batchSize records to out, closing out when the source is exhausted.
	// It returns the number of malformed rows that were skipped. A non-nil
	// error is returned only when the underlying input itself cannot be
	// read; bad data never fails the stream.
	ReadBatches(batchSize int, out chan<- []LogRecord) (badRows uint64, err error)
}
