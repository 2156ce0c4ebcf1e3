package recorder

import (
	"Go2NetForge/internal/config"
	"Go2NetForge/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS traffic_runs (
    RunID       String,
    Scenario    String,
    Profile     String,
    Seed        Int64,
    FrameCount  UInt64,
    ByteCount   UInt64,
    FirstFrame  DateTime64(6),
    LastFrame   DateTime64(6),
    Details     String,
    GeneratedAt DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(GeneratedAt)
ORDER BY (Profile, GeneratedAt);
`

// ClickHouseRecorder persists run summaries to a ClickHouse table.
type ClickHouseRecorder struct {
	conn driver.Conn
}

// NewClickHouseRecorder creates a new ClickHouse recorder.
func NewClickHouseRecorder(cfg config.ClickHouseConfig) (*ClickHouseRecorder, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseRecorder{conn: conn}, nil
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
		Debug: false,
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

// Record inserts one run summary into the traffic_runs table.
func (r *ClickHouseRecorder) Record(ctx context.Context, summary *model.RunSummary) error {
	batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO traffic_runs")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	details, err := json.Marshal(summary.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal run details: %w", err)
	}

	err = batch.Append(
		summary.RunID,
		summary.Scenario,
		summary.Profile,
		summary.Seed,
		uint64(summary.FrameCount),
		uint64(summary.ByteCount),
		summary.FirstFrame,
		summary.LastFrame,
		string(details),
		summary.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append run to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote run '%s' of scenario '%s' to ClickHouse", summary.RunID, summary.Scenario)
	return nil
}

// Close closes the ClickHouse connection.
func (r *ClickHouseRecorder) Close() error {
	return r.conn.Close()
}
