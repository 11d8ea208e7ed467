package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes events as JSON on "<prefix>.<event>" using core NATS,
// which does not wait for acknowledgement.
type NATSSink struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

// NewNATSSink creates a sink publishing through pub.
func NewNATSSink(pub Publisher, prefix string) *NATSSink {
	return &NATSSink{pub: pub, prefix: prefix, logger: slog.Default()}
}

// DialNATS connects to url and returns a sink and the underlying connection.
// The caller owns the connection and must close it.
func DialNATS(url, prefix string) (*NATSSink, *nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("svcerr-telemetry"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSSink(conn, prefix), conn, nil
}

// Subject returns the subject an event is published on.
func (s *NATSSink) Subject(event string) string {
	if s.prefix == "" {
		return event
	}
	return s.prefix + "." + event
}

// Emit implements Sink. Publish failures are logged and dropped.
func (s *NATSSink) Emit(event string, props Properties) {
	data, err := json.Marshal(NewEvent(event, props))
	if err != nil {
		s.logger.Debug("failed to marshal telemetry event", "event", event, "error", err)
		return
	}
	if err := s.pub.Publish(s.Subject(event), data); err != nil {
		s.logger.Debug("failed to publish telemetry event", "event", event, "error", err)
	}
}
