// Package shell implements the interactive mode: ad hoc publish and
// subscribe commands read from a line-oriented menu, with a background
// goroutine watching the connection.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pubbench/pubbench/pkg/mqtt"
)

const watcherJoinTimeout = 2 * time.Second

// Session owns the connection handle and the cancellation of the
// background watcher for one interactive run. Publishing from the menu
// while the watcher services the connection is safe; the paho-backed
// client guarantees concurrent use of the handle.
type Session struct {
	conn       mqtt.Client
	qos        byte
	in         io.Reader
	out        io.Writer
	logger     *slog.Logger
	watchEvery time.Duration

	published int
}

// NewSession creates an interactive session reading commands from in and
// writing responses to out
func NewSession(conn mqtt.Client, qos byte, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		conn:       conn,
		qos:        qos,
		in:         in,
		out:        out,
		logger:     logger,
		watchEvery: time.Second,
	}
}

// Run starts the connection watcher and processes menu commands until the
// user exits, input ends, or the context is cancelled. Every exit route
// stops and joins the watcher with a bounded wait.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcherDone := make(chan struct{})
	go s.watch(ctx, watcherDone)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	s.printHelp()

	for {
		fmt.Fprint(s.out, "> ")

		select {
		case <-ctx.Done():
			return s.stopWatcher(cancel, watcherDone)
		case line, ok := <-lines:
			if !ok {
				return s.stopWatcher(cancel, watcherDone)
			}
			if quit := s.dispatch(line); quit {
				return s.stopWatcher(cancel, watcherDone)
			}
		}
	}
}

// Published returns the number of messages sent during the session
func (s *Session) Published() int {
	return s.published
}

func (s *Session) stopWatcher(cancel context.CancelFunc, done <-chan struct{}) error {
	cancel()
	select {
	case <-done:
	case <-time.After(watcherJoinTimeout):
		s.logger.Warn("Connection watcher did not stop in time")
	}
	return nil
}

// watch periodically services the connection so a lost broker surfaces in
// the session log while the user is at the menu
func (s *Session) watch(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.watchEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.conn.Service(s.watchEvery); err != nil {
				s.logger.Warn("Connection degraded", "error", err)
			}
		}
	}
}

// dispatch executes one menu command; it returns true when the session
// should end
func (s *Session) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "pub":
		if len(fields) < 3 {
			fmt.Fprintln(s.out, "usage: pub <topic> <payload>")
			return false
		}
		topic := fields[1]
		payload := strings.Join(fields[2:], " ")
		if err := s.conn.Publish(topic, s.qos, false, []byte(payload)); err != nil {
			fmt.Fprintf(s.out, "publish failed: %v\n", err)
			return false
		}
		s.published++
		fmt.Fprintf(s.out, "published to %s\n", topic)

	case "sub":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: sub <topic>")
			return false
		}
		topic := fields[1]
		handler := func(msg mqtt.Message) {
			fmt.Fprintf(s.out, "\n%s %s\n> ", msg.Topic(), msg.Payload())
		}
		if err := s.conn.Subscribe(topic, s.qos, handler); err != nil {
			fmt.Fprintf(s.out, "subscribe failed: %v\n", err)
			return false
		}
		fmt.Fprintf(s.out, "subscribed to %s\n", topic)

	case "status":
		state := "disconnected"
		if s.conn.IsConnected() {
			state = "connected"
		}
		fmt.Fprintf(s.out, "%s, %d messages published\n", state, s.published)

	case "help":
		s.printHelp()

	case "exit", "quit":
		return true

	default:
		fmt.Fprintf(s.out, "unknown command: %s (try help)\n", fields[0])
	}

	return false
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  pub <topic> <payload>  publish a message")
	fmt.Fprintln(s.out, "  sub <topic>            subscribe and print inbound messages")
	fmt.Fprintln(s.out, "  status                 show connection state")
	fmt.Fprintln(s.out, "  help                   show this menu")
	fmt.Fprintln(s.out, "  exit                   leave the session")
}
