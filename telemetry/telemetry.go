// Package telemetry delivers classification events to external sinks.
//
// Events are one-way notifications: producers never wait for delivery and
// never observe sink failures. Wrap any sink that may block (network
// transports in particular) in an Async dispatcher.
//
//	conn, _ := nats.Connect(nats.DefaultURL)
//	sink := telemetry.NewAsync(telemetry.NewNATSSink(conn, "svcerr.events"))
//	defer sink.Close()
//	sink.Emit(telemetry.EventHelpLinkCreated, telemetry.Properties{"kind": "Auth"})
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event names emitted by the classifier.
const (
	EventDestinationError = "destination_error"
	EventHelpLinkCreated  = "help_link_created"
)

// Properties are the attributes of an event.
type Properties map[string]any

// Sink receives events. Implementations must not panic; callers recover
// anyway.
type Sink interface {
	Emit(event string, props Properties)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event string, props Properties)

// Emit implements Sink.
func (f SinkFunc) Emit(event string, props Properties) {
	f(event, props)
}

// Noop discards every event.
type Noop struct{}

// Emit implements Sink.
func (Noop) Emit(string, Properties) {}

// Event is the envelope used by sinks that serialize events.
type Event struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Properties Properties `json:"properties,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(name string, props Properties) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		Timestamp:  time.Now().UTC(),
	}
}

// Multi fans every event out to each sink in order.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(event string, props Properties) {
	for _, s := range m {
		SafeEmit(s, event, props)
	}
}

// SafeEmit delivers an event to s, dropping it if s is nil or panics.
func SafeEmit(s Sink, event string, props Properties) {
	if s == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("telemetry sink panicked", "event", event, "panic", r)
		}
	}()
	s.Emit(event, props)
}

// SlogSink writes events as structured log records.
type SlogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogSink logs events through logger at level. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger, level slog.Level) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, level: level}
}

// Emit implements Sink.
func (s *SlogSink) Emit(event string, props Properties) {
	attrs := make([]slog.Attr, 0, len(props)+1)
	attrs = append(attrs, slog.String("event", event))
	for k, v := range props {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.LogAttrs(context.Background(), s.level, "telemetry event", attrs...)
}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(event string, props Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NewEvent(event, props))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
