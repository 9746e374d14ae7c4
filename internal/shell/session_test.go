package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pubbench/pubbench/pkg/mqtt"
)

type publishCall struct {
	topic   string
	qos     byte
	payload string
}

type fakeClient struct {
	mu         sync.Mutex
	connected  bool
	publishes  []publishCall
	publishErr error
	handlers   map[string]mqtt.MessageHandler
	serviceErr error
	services   int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		connected: true,
		handlers:  make(map[string]mqtt.MessageHandler),
	}
}

func (c *fakeClient) Connect(ctx context.Context) error { return nil }
func (c *fakeClient) Disconnect()                       {}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.publishes = append(c.publishes, publishCall{topic: topic, qos: qos, payload: string(payload)})
	return nil
}

func (c *fakeClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
	return nil
}

func (c *fakeClient) Service(timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services++
	return c.serviceErr
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Ack()            {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runSession(t *testing.T, client *fakeClient, input string) (*Session, string) {
	t.Helper()

	out := &bytes.Buffer{}
	session := NewSession(client, 1, strings.NewReader(input), out, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := session.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("session did not finish on its own")
	}
	return session, out.String()
}

func TestSessionPublish(t *testing.T) {
	client := newFakeClient()
	session, out := runSession(t, client, "pub bench/loadtest hello from the menu\nexit\n")

	if len(client.publishes) != 1 {
		t.Fatalf("publishes = %d, want 1", len(client.publishes))
	}
	call := client.publishes[0]
	if call.topic != "bench/loadtest" {
		t.Errorf("topic = %v, want bench/loadtest", call.topic)
	}
	if call.payload != "hello from the menu" {
		t.Errorf("payload = %q, want joined words", call.payload)
	}
	if call.qos != 1 {
		t.Errorf("qos = %d, want 1", call.qos)
	}
	if session.Published() != 1 {
		t.Errorf("Published() = %d, want 1", session.Published())
	}
	if !strings.Contains(out, "published to bench/loadtest") {
		t.Errorf("output missing publish confirmation:\n%s", out)
	}
}

func TestSessionPublishFailure(t *testing.T) {
	client := newFakeClient()
	client.publishErr = fmt.Errorf("broker gone")
	session, out := runSession(t, client, "pub t payload\nexit\n")

	if session.Published() != 0 {
		t.Errorf("Published() = %d, want 0 after failure", session.Published())
	}
	if !strings.Contains(out, "publish failed") {
		t.Errorf("output missing failure notice:\n%s", out)
	}
}

func TestSessionSubscribeAndStatus(t *testing.T) {
	client := newFakeClient()
	_, out := runSession(t, client, "sub alerts\nstatus\nexit\n")

	if _, ok := client.handlers["alerts"]; !ok {
		t.Error("handler for alerts was not registered")
	}
	if !strings.Contains(out, "subscribed to alerts") {
		t.Errorf("output missing subscribe confirmation:\n%s", out)
	}
	if !strings.Contains(out, "connected, 0 messages published") {
		t.Errorf("output missing status line:\n%s", out)
	}
}

func TestSessionInboundMessagePrinted(t *testing.T) {
	client := newFakeClient()
	out := &bytes.Buffer{}

	// Drive dispatch directly so the inbound handler writes to out
	// without racing against the menu loop.
	session := NewSession(client, 0, strings.NewReader(""), out, testLogger())
	if quit := session.dispatch("sub alerts"); quit {
		t.Fatal("sub ended the session")
	}
	client.handlers["alerts"](&fakeMessage{topic: "alerts", payload: []byte("disk full")})

	if !strings.Contains(out.String(), "alerts disk full") {
		t.Errorf("output missing inbound message:\n%s", out.String())
	}
}

func TestSessionBadInput(t *testing.T) {
	client := newFakeClient()
	_, out := runSession(t, client, "pub onlytopic\nsub\nfrobnicate\n\nexit\n")

	if !strings.Contains(out, "usage: pub <topic> <payload>") {
		t.Errorf("output missing pub usage:\n%s", out)
	}
	if !strings.Contains(out, "usage: sub <topic>") {
		t.Errorf("output missing sub usage:\n%s", out)
	}
	if !strings.Contains(out, "unknown command: frobnicate") {
		t.Errorf("output missing unknown-command notice:\n%s", out)
	}
	if len(client.publishes) != 0 {
		t.Errorf("publishes = %d, want 0", len(client.publishes))
	}
}

func TestSessionEndsOnInputEOF(t *testing.T) {
	client := newFakeClient()
	_, _ = runSession(t, client, "status\n")
}

func TestSessionWatcherServicesConnection(t *testing.T) {
	client := newFakeClient()
	out := &bytes.Buffer{}
	in, inWriter := io.Pipe()

	session := NewSession(client, 0, in, out, testLogger())
	session.watchEvery = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		client.mu.Lock()
		n := client.services
		client.mu.Unlock()
		if n >= 3 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	client.mu.Lock()
	n := client.services
	client.mu.Unlock()
	if n < 3 {
		t.Fatalf("services = %d, want at least 3", n)
	}

	inWriter.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after input closed")
	}
}
