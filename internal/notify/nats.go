// Package notify forwards pipeline events to NATS so other services can react
// to optimized, removed or failed documents.
package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/llmdocs/internal/config"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
)

// Publisher is the subset of *nats.Conn used by the forwarder.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Message is the JSON payload published for every event.
type Message struct {
	Event             string    `json:"event"`
	RunID             string    `json:"run_id,omitempty"`
	Path              string    `json:"path,omitempty"`
	Trigger           string    `json:"trigger,omitempty"`
	Tokens            int       `json:"tokens,omitempty"`
	FrontmatterStatus string    `json:"frontmatter_status,omitempty"`
	Error             string    `json:"error,omitempty"`
	Entries           int       `json:"entries,omitempty"`
	Outcome           string    `json:"outcome,omitempty"`
	Revision          string    `json:"revision,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// Forwarder publishes bus events below a subject prefix: an event named
// DocumentOptimized is sent to "<prefix>.DocumentOptimized".
type Forwarder struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewForwarder creates a forwarder on an existing publisher.
func NewForwarder(pub Publisher, prefix string, logger *slog.Logger) *Forwarder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{pub: pub, prefix: prefix, logger: logger, now: time.Now}
}

// Attach subscribes the forwarder to every event on bus.
func (f *Forwarder) Attach(bus *pipeline.Bus) {
	bus.SubscribeAll(f.Handle)
}

// Handle publishes one event. Failures are returned for the bus to log.
func (f *Forwarder) Handle(e pipeline.Event) error {
	msg := messageFor(e)
	msg.Timestamp = f.now().UTC()
	data, err := json.Marshal(msg)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal event").Build()
	}
	subject := f.prefix + "." + e.Name()
	if err := f.pub.Publish(subject, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to publish event").
			WithContext("subject", subject).
			Build()
	}
	f.logger.Debug("Published event", slog.String("subject", subject))
	return nil
}

func messageFor(e pipeline.Event) Message {
	m := Message{Event: e.Name()}
	switch ev := e.(type) {
	case pipeline.RunStarted:
		m.RunID, m.Trigger = ev.RunID, ev.Trigger
	case pipeline.DocumentOptimized:
		m.RunID, m.Path, m.Tokens, m.FrontmatterStatus = ev.RunID, ev.Path, ev.Tokens, ev.FrontmatterStatus
	case pipeline.DocumentSkipped:
		m.RunID, m.Path = ev.RunID, ev.Path
	case pipeline.DocumentFailed:
		m.RunID, m.Path = ev.RunID, ev.Path
		if ev.Err != nil {
			m.Error = ev.Err.Error()
		}
	case pipeline.DocumentRemoved:
		m.RunID, m.Path = ev.RunID, ev.Path
	case pipeline.IndexWritten:
		m.Path, m.Entries = ev.Path, ev.Entries
	case pipeline.RunCompleted:
		if r := ev.Report; r != nil {
			m.RunID, m.Trigger, m.Tokens = r.RunID, r.Trigger, r.Tokens
			m.Outcome, m.Revision = string(r.Outcome), r.Revision
		}
	}
	return m
}

// Connection owns a NATS connection and the forwarder publishing on it.
type Connection struct {
	conn *nats.Conn
	*Forwarder
}

// Connect dials the configured NATS server.
func Connect(cfg config.NotifyConfig, logger *slog.Logger) (*Connection, error) {
	if !cfg.Enabled() {
		return nil, derrors.ConfigError("event notification is disabled").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("llmdocs"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to connect to NATS").
			WithContext("url", cfg.NATSURL).
			Build()
	}
	logger.Info("NATS event forwarding enabled",
		slog.String("url", cfg.NATSURL),
		slog.String("subject", cfg.Subject))
	return &Connection{conn: conn, Forwarder: NewForwarder(conn, cfg.Subject, logger)}, nil
}

// Close flushes pending messages and closes the connection.
func (c *Connection) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	err := c.conn.Drain()
	if err != nil {
		c.conn.Close()
	}
	return err
}
