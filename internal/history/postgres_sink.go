package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pubbench/pubbench/pkg/config"
	"github.com/pubbench/pubbench/pkg/postgres"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS bench_runs (
    id             UUID PRIMARY KEY,
    started_at     TIMESTAMPTZ NOT NULL,
    broker         TEXT NOT NULL,
    topic          TEXT NOT NULL,
    mode           TEXT NOT NULL,
    qos            INT NOT NULL,
    payload_size   INT NOT NULL,
    duration_sec   DOUBLE PRECISION NOT NULL,
    interval_sec   DOUBLE PRECISION NOT NULL,
    sent           INT NOT NULL,
    failed         INT NOT NULL,
    service_errors INT NOT NULL,
    elapsed_sec    DOUBLE PRECISION NOT NULL,
    rate           DOUBLE PRECISION NOT NULL,
    p99_latency_us BIGINT NOT NULL,
    degraded       BOOLEAN NOT NULL
)`

// postgresSink appends run records to the bench_runs table
type postgresSink struct {
	client *postgres.Client
	logger *slog.Logger
}

func newPostgresSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Sink, error) {
	client := postgres.NewClient(cfg, logger)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("history sink unavailable: %w", err)
	}

	if _, err := client.Exec(ctx, createRunsTable); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to prepare bench_runs table: %w", err)
	}

	return &postgresSink{client: client, logger: logger}, nil
}

func (s *postgresSink) Store(ctx context.Context, rec Record) error {
	_, err := s.client.Exec(ctx, `
		INSERT INTO bench_runs (
			id, started_at, broker, topic, mode, qos, payload_size,
			duration_sec, interval_sec, sent, failed, service_errors,
			elapsed_sec, rate, p99_latency_us, degraded
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.StartedAt, rec.Broker, rec.Topic, rec.Mode, rec.QoS,
		rec.PayloadSize, rec.DurationSec, rec.IntervalSec, rec.Sent,
		rec.Failed, rec.ServiceErrors, rec.ElapsedSec, rec.Rate,
		rec.P99LatencyUs, rec.Degraded)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	s.logger.Debug("Stored run record", "id", rec.ID, "table", "bench_runs")
	return nil
}

func (s *postgresSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.client.Query(ctx, `
		SELECT id, started_at, broker, topic, mode, qos, payload_size,
		       duration_sec, interval_sec, sent, failed, service_errors,
		       elapsed_sec, rate, p99_latency_us, degraded
		FROM bench_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt time.Time
		if err := rows.Scan(
			&rec.ID, &startedAt, &rec.Broker, &rec.Topic, &rec.Mode,
			&rec.QoS, &rec.PayloadSize, &rec.DurationSec, &rec.IntervalSec,
			&rec.Sent, &rec.Failed, &rec.ServiceErrors, &rec.ElapsedSec,
			&rec.Rate, &rec.P99LatencyUs, &rec.Degraded,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		rec.StartedAt = startedAt
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *postgresSink) Close() error {
	return s.client.Close()
}
