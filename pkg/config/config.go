package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for a pubbench invocation
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string
	KeepAliveSec int

	// Message configuration
	Topic    string
	Topics   []string
	QoS      int
	Retained bool

	// Publisher run configuration
	PayloadSize int
	DurationSec float64
	IntervalSec float64
	Mode        string

	// Run history configuration
	HistorySink   string
	MaxHistory    int
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Service configuration
	ServiceName string
	LogLevel    string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:   "localhost",
		MQTTPort:     1883,
		MQTTUser:     "",
		MQTTPassword: "",
		MQTTClientID: "",
		KeepAliveSec: 60,

		Topic:    "test",
		Topics:   []string{"test"},
		QoS:      1,
		Retained: false,

		PayloadSize: 64,
		DurationSec: 10,
		IntervalSec: 1.0,
		Mode:        "drift",

		HistorySink:   "none",
		MaxHistory:    1000,
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,

		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "pubbench",
		PostgresPassword: "",
		PostgresDB:       "pubbench",
		PostgresSSLMode:  "disable",

		ServiceName: "pubbench",
		LogLevel:    "info",
	}
}

// LoadFromEnv loads configuration from environment variables with PUBBENCH_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("PUBBENCH_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("PUBBENCH_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("PUBBENCH_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("PUBBENCH_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("PUBBENCH_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}
	if v := os.Getenv("PUBBENCH_KEEPALIVE_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			c.KeepAliveSec = sec
		}
	}

	// Message configuration
	if v := os.Getenv("PUBBENCH_TOPIC"); v != "" {
		c.Topic = v
	}
	if v := os.Getenv("PUBBENCH_TOPICS"); v != "" {
		c.Topics = strings.Split(v, ",")
	}
	if v := os.Getenv("PUBBENCH_QOS"); v != "" {
		if qos, err := strconv.Atoi(v); err == nil {
			c.QoS = qos
		}
	}

	// Publisher run configuration
	if v := os.Getenv("PUBBENCH_PAYLOAD_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.PayloadSize = size
		}
	}
	if v := os.Getenv("PUBBENCH_DURATION_SEC"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil {
			c.DurationSec = sec
		}
	}
	if v := os.Getenv("PUBBENCH_INTERVAL_SEC"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil {
			c.IntervalSec = sec
		}
	}
	if v := os.Getenv("PUBBENCH_MODE"); v != "" {
		c.Mode = v
	}

	// Run history configuration
	if v := os.Getenv("PUBBENCH_HISTORY_SINK"); v != "" {
		c.HistorySink = v
	}
	if v := os.Getenv("PUBBENCH_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxHistory = n
		}
	}
	if v := os.Getenv("PUBBENCH_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("PUBBENCH_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("PUBBENCH_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("PUBBENCH_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("PUBBENCH_POSTGRES_SSLMODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("PUBBENCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// RegisterConnectionFlags registers the broker connection flags shared by
// every mode on the given flag set
func (c *Config) RegisterConnectionFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.MQTTBroker, "broker", c.MQTTBroker, "MQTT broker hostname")
	fs.IntVar(&c.MQTTPort, "port", c.MQTTPort, "MQTT broker port")
	fs.StringVar(&c.MQTTUser, "user", c.MQTTUser, "MQTT username")
	fs.StringVar(&c.MQTTPassword, "password", c.MQTTPassword, "MQTT password")
	fs.StringVar(&c.MQTTClientID, "client-id", c.MQTTClientID, "MQTT client ID (auto-generated if empty)")
	fs.IntVar(&c.KeepAliveSec, "keepalive", c.KeepAliveSec, "MQTT keep-alive interval in seconds")
	fs.IntVar(&c.QoS, "qos", c.QoS, "MQTT quality of service level (0, 1 or 2)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
}

// RegisterPublishFlags registers the publisher run flags
func (c *Config) RegisterPublishFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Topic, "topic", c.Topic, "Topic to publish to")
	fs.IntVar(&c.PayloadSize, "size", c.PayloadSize, "Payload size in bytes")
	fs.Float64Var(&c.DurationSec, "duration", c.DurationSec, "Run duration in seconds")
	fs.Float64Var(&c.IntervalSec, "interval", c.IntervalSec, "Target inter-publish interval in seconds (0 publishes as fast as possible)")
	fs.StringVar(&c.Mode, "mode", c.Mode, "Publish scheduling mode (drift or measured)")
	fs.BoolVar(&c.Retained, "retained", c.Retained, "Publish messages with the retained flag")
}

// RegisterSubscribeFlags registers the subscriber flags
func (c *Config) RegisterSubscribeFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&c.Topics, "topic", c.Topics, "Topic filter to subscribe to (repeatable)")
}

// RegisterHistoryFlags registers the run history sink flags
func (c *Config) RegisterHistoryFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.HistorySink, "history", c.HistorySink, "Run history sink (none, redis or postgres)")
	fs.IntVar(&c.MaxHistory, "max-history", c.MaxHistory, "Maximum run records kept by the redis sink")
	fs.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	fs.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")
	fs.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	fs.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	fs.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	fs.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	fs.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	fs.StringVar(&c.PostgresSSLMode, "postgres-sslmode", c.PostgresSSLMode, "Postgres SSL mode")
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.QoS < 0 || c.QoS > 2 {
		return fmt.Errorf("QoS must be 0, 1 or 2")
	}
	if c.KeepAliveSec <= 0 {
		return fmt.Errorf("keep-alive must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	validSinks := map[string]bool{
		"none":     true,
		"redis":    true,
		"postgres": true,
	}
	if !validSinks[c.HistorySink] {
		return fmt.Errorf("invalid history sink: %s (must be none, redis, or postgres)", c.HistorySink)
	}

	return nil
}

// ValidateRun checks the publisher run parameters
func (c *Config) ValidateRun() error {
	if c.PayloadSize <= 0 {
		return fmt.Errorf("payload size must be positive, got %d", c.PayloadSize)
	}
	if c.DurationSec <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.DurationSec)
	}
	if c.IntervalSec < 0 {
		return fmt.Errorf("interval must not be negative, got %g", c.IntervalSec)
	}
	if c.Mode != "drift" && c.Mode != "measured" {
		return fmt.Errorf("invalid mode: %s (must be drift or measured)", c.Mode)
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}

// Duration returns the run duration as a time.Duration
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationSec * float64(time.Second))
}

// Interval returns the inter-publish interval as a time.Duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSec * float64(time.Second))
}
