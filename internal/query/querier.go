package query

import (
	"Go2NetForge/internal/config"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const defaultListLimit = 50

// RunRecord is one generation run as stored in the run history table.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Scenario    string    `json:"scenario"`
	Profile     string    `json:"profile"`
	Seed        int64     `json:"seed"`
	FrameCount  uint64    `json:"frame_count"`
	ByteCount   uint64    `json:"byte_count"`
	FirstFrame  time.Time `json:"first_frame"`
	LastFrame   time.Time `json:"last_frame"`
	Details     string    `json:"details"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Querier defines the interface for querying run history.
type Querier interface {
	ListRuns(ctx context.Context, profile string, limit int) ([]RunRecord, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
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

// ListRuns returns the most recent runs, newest first, optionally filtered
// by profile.
func (q *clickhouseQuerier) ListRuns(ctx context.Context, profile string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			RunID,
			Scenario,
			Profile,
			Seed,
			FrameCount,
			ByteCount,
			FirstFrame,
			LastFrame,
			Details,
			GeneratedAt
		FROM traffic_runs
	`)

	args := []interface{}{}
	if profile != "" {
		queryBuilder.WriteString(" WHERE Profile = ?")
		args = append(args, profile)
	}
	queryBuilder.WriteString(" ORDER BY GeneratedAt DESC LIMIT ?")
	args = append(args, limit)

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		err := rows.Scan(&run.RunID, &run.Scenario, &run.Profile, &run.Seed, &run.FrameCount,
			&run.ByteCount, &run.FirstFrame, &run.LastFrame, &run.Details, &run.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}
