package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pubbench/pubbench/pkg/config"
	"github.com/pubbench/pubbench/pkg/redis"
)

// runsKey holds the run records as a JSON list, newest first
const runsKey = "pubbench:runs"

// redisSink keeps a capped list of run records in Redis
type redisSink struct {
	client redis.Client
	max    int64
	logger *slog.Logger
}

func newRedisSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Sink, error) {
	client := redis.NewClient(cfg, logger)
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("history sink unavailable: %w", err)
	}

	max := int64(cfg.MaxHistory)
	if max <= 0 {
		max = 1000
	}

	return &redisSink{client: client, max: max, logger: logger}, nil
}

func (s *redisSink) Store(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := s.client.LPush(ctx, runsKey, data); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, runsKey, 0, s.max-1); err != nil {
		return err
	}

	s.logger.Debug("Stored run record", "id", rec.ID, "key", runsKey)
	return nil
}

func (s *redisSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}

	raw, err := s.client.LRange(ctx, runsKey, 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			s.logger.Warn("Skipping malformed run record", "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (s *redisSink) Close() error {
	return s.client.Close()
}
