package telemetry

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink counts events by name and error kind.
type PrometheusSink struct {
	events *prom.CounterVec
}

// NewPrometheusSink creates the event counter and registers it with reg.
// A nil reg uses a private registry.
func NewPrometheusSink(reg prom.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	events := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "svcerr",
		Name:      "telemetry_events_total",
		Help:      "Classification telemetry events by event name and error kind",
	}, []string{"event", "kind"})

	if err := reg.Register(events); err != nil {
		return nil, fmt.Errorf("failed to register telemetry counter: %w", err)
	}
	return &PrometheusSink{events: events}, nil
}

// Emit implements Sink.
func (s *PrometheusSink) Emit(event string, props Properties) {
	kind, _ := props["kind"].(string)
	if kind == "" {
		if k, ok := props["kind"].(fmt.Stringer); ok {
			kind = k.String()
		}
	}
	s.events.WithLabelValues(event, kind).Inc()
}

// Counter returns the counter for event and kind.
func (s *PrometheusSink) Counter(event, kind string) prom.Counter {
	return s.events.WithLabelValues(event, kind)
}
