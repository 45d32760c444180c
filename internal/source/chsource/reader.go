// Package chsource streams firewall log records from a ClickHouse table that
// exposes the four canonical columns directly.
package chsource

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FwSpectra/internal/config"
	"FwSpectra/internal/model"
)

// Reader is a ClickHouse-backed record source.
type Reader struct {
	conn  driver.Conn
	table string
}

// NewReader connects to ClickHouse and verifies the connection.
func NewReader(cfg config.ClickHouseConfig) (*Reader, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &Reader{conn: conn, table: cfg.Table}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Close releases the connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// ReadBatches streams the table's canonical columns in batches of at most
// batchSize records. The columns are read as strings verbatim; rows are
// never malformed here, the table layout itself is the contract.
func (r *Reader) ReadBatches(batchSize int, out chan<- []model.LogRecord) (uint64, error) {
	defer close(out)

	query := fmt.Sprintf("SELECT srcip, dstip, srcport, dstport FROM %s", r.table)
	rows, err := r.conn.Query(context.Background(), query)
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	batch := make([]model.LogRecord, 0, batchSize)
	for rows.Next() {
		var rec model.LogRecord
		if err := rows.Scan(&rec.SrcIP, &rec.DstIP, &rec.SrcPort, &rec.DstPort); err != nil {
			return 0, fmt.Errorf("failed to scan record: %w", err)
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
	return 0, rows.Err()
}
