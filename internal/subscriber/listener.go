// Package subscriber implements the listening side of the harness: it
// subscribes to a set of topic filters and prints every inbound message
// until the run is cancelled.
package subscriber

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/pubbench/pubbench/pkg/mqtt"
)

// Listener subscribes to topics and prints received messages
type Listener struct {
	client   mqtt.Client
	topics   []string
	qos      byte
	out      io.Writer
	logger   *slog.Logger
	received atomic.Int64
}

// NewListener creates a listener for the given topic filters
func NewListener(client mqtt.Client, topics []string, qos byte, out io.Writer, logger *slog.Logger) *Listener {
	return &Listener{
		client: client,
		topics: topics,
		qos:    qos,
		out:    out,
		logger: logger,
	}
}

// Run subscribes and blocks until the context is cancelled. A failed
// subscription is logged and skipped; the listener only fails when no
// subscription succeeded at all.
func (l *Listener) Run(ctx context.Context) error {
	subscribed := 0
	for _, topic := range l.topics {
		if err := l.client.Subscribe(topic, l.qos, l.handleMessage); err != nil {
			l.logger.Error("Failed to subscribe to topic", "topic", topic, "error", err)
			continue
		}
		subscribed++
	}
	if subscribed == 0 {
		return fmt.Errorf("no subscription succeeded for topics %s", strings.Join(l.topics, ", "))
	}

	l.logger.Info("Listening for messages",
		"topics", strings.Join(l.topics, ", "),
		"qos", l.qos)

	<-ctx.Done()

	l.logger.Info("Listener stopping", "received", l.Received())
	return nil
}

// Received returns the number of messages handled so far
func (l *Listener) Received() int64 {
	return l.received.Load()
}

func (l *Listener) handleMessage(msg mqtt.Message) {
	l.received.Add(1)
	fmt.Fprintf(l.out, "%s %s\n", msg.Topic(), msg.Payload())
}
