package mqtt

import (
	"context"
	"time"
)

// Client represents an MQTT client interface for testing and abstraction.
//
// The paho-backed implementation is safe for concurrent use: Publish and
// Subscribe may be called while another goroutine services the connection.
type Client interface {
	// Connect establishes a connection to the MQTT broker
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the MQTT broker
	Disconnect()

	// Subscribe subscribes to a topic with the given QoS and handler
	Subscribe(topic string, qos byte, handler MessageHandler) error

	// Publish publishes a message to a topic
	Publish(topic string, qos byte, retained bool, payload []byte) error

	// Service verifies within the given timeout that the connection is
	// being serviced. The paho client pumps keep-alives and inbound
	// dispatch on its own goroutines, so servicing amounts to a bounded
	// liveness probe: it returns an error while the connection is down.
	Service(timeout time.Duration) error

	// IsConnected returns whether the client is currently connected
	IsConnected() bool
}

// MessageHandler is a callback function for handling incoming MQTT messages
type MessageHandler func(Message)

// Message represents an MQTT message
type Message interface {
	// Topic returns the topic the message was published to
	Topic() string

	// Payload returns the message payload
	Payload() []byte

	// Ack acknowledges the message (for QoS > 0)
	Ack()
}
