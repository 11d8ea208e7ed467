package telemetry

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the queue length used when none is configured.
const DefaultBufferSize = 256

// Async queues events for a single background worker that forwards them to
// the wrapped sink. Emit never blocks: when the queue is full the event is
// dropped and counted.
type Async struct {
	sink    Sink
	logger  *slog.Logger
	queue   chan Event
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64

	pendMu  sync.Mutex
	idle    *sync.Cond
	pending int
}

// AsyncOption configures an Async dispatcher.
type AsyncOption func(*asyncOptions)

type asyncOptions struct {
	buffer int
	logger *slog.Logger
}

// WithBuffer sets the queue length.
func WithBuffer(n int) AsyncOption {
	return func(o *asyncOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithAsyncLogger sets the logger used to report dropped events.
func WithAsyncLogger(l *slog.Logger) AsyncOption {
	return func(o *asyncOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewAsync starts a dispatcher in front of sink.
func NewAsync(sink Sink, opts ...AsyncOption) *Async {
	o := asyncOptions{buffer: DefaultBufferSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if sink == nil {
		sink = Noop{}
	}

	a := &Async{
		sink:   sink,
		logger: o.logger,
		queue:  make(chan Event, o.buffer),
		done:   make(chan struct{}),
	}
	a.idle = sync.NewCond(&a.pendMu)
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.queue {
		SafeEmit(a.sink, ev.Name, ev.Properties)
		a.settle(-1)
	}
}

func (a *Async) settle(delta int) {
	a.pendMu.Lock()
	a.pending += delta
	if a.pending == 0 {
		a.idle.Broadcast()
	}
	a.pendMu.Unlock()
}

// Emit implements Sink. Events emitted after Close are dropped.
func (a *Async) Emit(event string, props Properties) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped.Add(1)
		return
	}
	a.settle(1)
	select {
	case a.queue <- Event{Name: event, Properties: props}:
	default:
		a.settle(-1)
		n := a.dropped.Add(1)
		a.logger.Debug("telemetry queue full, event dropped", "event", event, "dropped_total", n)
	}
}

// Dropped returns the number of events discarded so far.
func (a *Async) Dropped() uint64 {
	return a.dropped.Load()
}

// Flush waits until every event queued so far has been delivered. Unlike
// Close the dispatcher keeps accepting events.
func (a *Async) Flush() {
	a.pendMu.Lock()
	for a.pending > 0 {
		a.idle.Wait()
	}
	a.pendMu.Unlock()
}

// Close stops accepting events and waits for queued events to be delivered.
// It is safe to call more than once.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
