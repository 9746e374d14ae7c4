package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pubbench/pubbench/pkg/config"
)

// Sink stores and lists run records
type Sink interface {
	// Store persists one run record
	Store(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases the sink's connection
	Close() error
}

// NewSink creates the sink selected by the configuration. The none sink
// accepts records and drops them.
func NewSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Sink, error) {
	switch cfg.HistorySink {
	case "", "none":
		return nopSink{}, nil
	case "redis":
		return newRedisSink(ctx, cfg, logger)
	case "postgres":
		return newPostgresSink(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown history sink: %s", cfg.HistorySink)
	}
}

type nopSink struct{}

func (nopSink) Store(ctx context.Context, rec Record) error { return nil }

func (nopSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	return nil, fmt.Errorf("no history sink configured")
}

func (nopSink) Close() error { return nil }
