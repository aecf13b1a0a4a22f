// Package events publishes agent lifecycle events over NATS so other
// processes can observe the consciousness without polling the HTTP API.
//
// Subjects follow a fixed shape:
//
//	liad.agent.{agent_id}.{event_type}
//
// Payloads are JSON. Publishing is fire-and-forget: a failed publish is
// logged and dropped, never surfaced to the caller's critical path.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event types.
const (
	TypeInteraction = "interaction"
	TypeEvolution   = "evolution"
	TypeMemory      = "memory"
)

// ErrNotConnected is returned when publishing on a closed publisher.
var ErrNotConnected = errors.New("events: not connected")

// Event is one observable moment in the agent's life.
type Event struct {
	Type      string         `json:"type"`
	AgentID   string         `json:"agent_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher emits events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(event Event) error
	Close()
}

// Config holds the NATS connection settings.
type Config struct {
	// Enabled turns event publishing on. Off by default; the daemon runs
	// fine without a broker.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// URL is the NATS server address.
	URL string `json:"url" koanf:"url"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
}

// NATSPublisher emits events over a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to the configured server. Connection retries
// are left to the client so a broker restart does not take the daemon down.
func NewNATSPublisher(config Config, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	config.ApplyDefaults()

	conn, err := nats.Connect(config.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", config.URL, err)
	}

	logger.Info("event publisher connected", zap.String("url", config.URL))
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Subject builds the NATS subject for one agent and event type.
func Subject(agentID, eventType string) string {
	return fmt.Sprintf("liad.agent.%s.%s", agentID, eventType)
}

// Publish emits one event.
func (p *NATSPublisher) Publish(event Event) error {
	if p.conn == nil {
		return ErrNotConnected
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := Subject(event.AgentID, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("event published",
		zap.String("subject", subject),
		zap.String("type", event.Type),
	)
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Noop discards events. Used when publishing is disabled.
type Noop struct{}

func (Noop) Publish(Event) error { return nil }

func (Noop) Close() {}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = Noop{}
)
