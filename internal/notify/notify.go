// Package notify publishes a completion event to NATS after a successful run.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/addonbuilder/internal/config"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
)

// CompletedEvent describes a finished pipeline run.
type CompletedEvent struct {
	RunID      string    `json:"run_id"`
	Commit     string    `json:"commit"`
	Addons     int       `json:"addons"`
	Locales    []string  `json:"locales"`
	Libraries  []string  `json:"libraries"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// publisher is the subset of *nats.Conn the notifier uses.
type publisher interface {
	Publish(subj string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Notifier publishes run events on a single subject.
type Notifier struct {
	conn    publisher
	subject string
}

// Connect dials the configured NATS server.
func Connect(cfg config.NotifyConfig) (*Notifier, error) {
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("addonbuilder"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifier connected", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &Notifier{conn: conn, subject: cfg.Subject}, nil
}

// PublishCompleted sends event and waits for the server to acknowledge the flush.
func (n *Notifier) PublishCompleted(event CompletedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := n.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	slog.Debug("Published completion event", logfields.RunID(event.RunID), logfields.Commit(event.Commit))
	return nil
}

// Close closes the NATS connection.
func (n *Notifier) Close() {
	if n != nil && n.conn != nil {
		n.conn.Close()
	}
}
