package svcerr

import (
	"log/slog"
	"sync"

	"github.com/jmgilman/go/svcerr/config"
	"github.com/jmgilman/go/svcerr/i18n"
	"github.com/jmgilman/go/svcerr/telemetry"
)

// Handler classifies failures, renders their messages and help, and retains
// the most recent error for later interactions.
//
// A Handler is meant to be used from a single goroutine. Its State and
// configuration carry no locks.
type Handler struct {
	registry *Registry
	tr       i18n.Translator
	sink     telemetry.Sink
	async    *telemetry.Async
	logger   *slog.Logger
	cfg      config.Config
	state    State
}

// Option configures a Handler.
type Option func(*Handler)

// WithRegistry replaces the default pattern registry.
func WithRegistry(r *Registry) Option {
	return func(h *Handler) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithTranslator sets the translator used for every user-facing string.
func WithTranslator(tr i18n.Translator) Option {
	return func(h *Handler) {
		if tr != nil {
			h.tr = tr
		}
	}
}

// WithSink sets the telemetry sink. New places it behind a telemetry.Async
// dispatcher unless it already is one, so events never block the caller.
func WithSink(s telemetry.Sink) Option {
	return func(h *Handler) {
		if s != nil {
			h.sink = s
		}
	}
}

// WithLogger sets the logger used by LogAndClassify.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithConfig sets the platform and guided help configuration.
func WithConfig(cfg config.Config) Option {
	return func(h *Handler) {
		h.cfg = cfg
	}
}

var defaultTranslator = sync.OnceValue(func() i18n.Translator {
	b, err := i18n.Default()
	if err != nil {
		slog.Warn("failed to load message catalogs, rendering keys", "error", err)
		return i18n.TranslatorFunc(func(key string, _ i18n.Params) string { return key })
	}
	return b.Localizer()
})

// New creates a Handler. Without options it uses the default registry, the
// embedded English catalog, no telemetry, slog.Default() and config.Default().
// Call Close to deliver pending telemetry when a sink is configured.
//
// Example:
//
//	h := svcerr.New(
//	    svcerr.WithConfig(cfg),
//	    svcerr.WithSink(telemetry.NewNATSSink(conn, cfg.Telemetry.Subject)),
//	)
//	defer h.Close()
func New(opts ...Option) *Handler {
	h := &Handler{
		registry: defaultRegistry,
		sink:     telemetry.Noop{},
		logger:   slog.Default(),
		cfg:      config.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.tr == nil {
		h.tr = defaultTranslator()
	}
	h.wrapSink()
	return h
}

func (h *Handler) wrapSink() {
	switch h.sink.(type) {
	case telemetry.Noop, *telemetry.Async:
		return
	}
	h.async = telemetry.NewAsync(h.sink,
		telemetry.WithBuffer(h.cfg.Telemetry.BufferSize),
		telemetry.WithAsyncLogger(h.logger),
	)
	h.sink = h.async
}

// Flush waits until telemetry emitted so far has reached the sink.
func (h *Handler) Flush() {
	if a, ok := h.sink.(*telemetry.Async); ok {
		a.Flush()
	}
}

// Close delivers pending telemetry and stops the dispatcher started by New.
// A dispatcher passed in through WithSink is left open. Close is safe to call
// more than once.
func (h *Handler) Close() {
	if h.async != nil {
		h.async.Close()
	}
}

// Config returns the handler configuration.
func (h *Handler) Config() config.Config {
	return h.cfg
}

// State returns the handler's retained error.
func (h *Handler) State() *State {
	return &h.state
}

// Classify returns the kind of f.
func (h *Handler) Classify(f Failure) ErrorKind {
	return h.registry.Classify(f)
}

// IsCertificateError reports whether v classifies into the certificate family.
func (h *Handler) IsCertificateError(v any) bool {
	return h.registry.Classify(Raw(v)).IsCertificate()
}

// MessageForKind renders the message of kind. An optional raw failure is
// interpolated into templates that describe it.
func (h *Handler) MessageForKind(kind ErrorKind, raw ...any) string {
	var r any
	if len(raw) > 0 {
		r = raw[0]
	}
	return Message(h.tr, kind, r)
}

func (h *Handler) describe(f Failure) (ErrorKind, string) {
	kind := h.Classify(f)
	return kind, Message(h.tr, kind, f.raw)
}

// LogOption configures LogAndClassify.
type LogOption func(*logOptions)

type logOptions struct {
	context string
	retain  bool
}

// WithContextMessage logs msg instead of the generated message.
func WithContextMessage(msg string) LogOption {
	return func(o *logOptions) {
		o.context = msg
	}
}

// WithoutRetain leaves the handler state untouched.
func WithoutRetain() LogOption {
	return func(o *logOptions) {
		o.retain = false
	}
}

// LogAndClassify classifies f, logs one error record and returns the
// end-user message. The error is retained as the current error unless
// WithoutRetain is given.
func (h *Handler) LogAndClassify(f Failure, opts ...LogOption) string {
	o := logOptions{retain: true}
	for _, opt := range opts {
		opt(&o)
	}

	kind, msg := h.describe(f)

	logMsg := msg
	if o.context != "" {
		logMsg = o.context
	}
	attrs := []any{kindAttr(kind)}
	if !f.known {
		attrs = append(attrs, valueAttr(f.raw))
	}
	h.logger.Error(logMsg, attrs...)

	if o.retain {
		h.state.Record(kind, msg, true)
	}
	return msg
}

// CurrentMessage returns the message for f when given, otherwise the
// retained message, otherwise the message of fallback when it is not empty.
// With reset the retained error is cleared afterwards.
func (h *Handler) CurrentMessage(f *Failure, reset bool, fallback ErrorKind) (string, bool) {
	if reset {
		defer h.state.Clear()
	}
	if f != nil {
		_, msg := h.describe(*f)
		return msg, true
	}
	if msg, ok := h.state.Read(); ok {
		return msg, true
	}
	if fallback != "" {
		return Message(h.tr, fallback, nil), true
	}
	return "", false
}

// HelpFor resolves help for f, or for the retained error when f is nil.
// When dest is given the kind is first refined with the destination. With
// reset the retained error is cleared afterwards. The second result is false
// when there is neither f nor a retained error.
func (h *Handler) HelpFor(f *Failure, reset bool, dest *Destination) (HelpResult, bool) {
	if reset {
		defer h.state.Clear()
	}

	var (
		kind ErrorKind
		msg  string
		raw  any
	)
	switch {
	case f != nil:
		kind, msg = h.describe(*f)
		raw = f.raw
	default:
		k, ok := h.state.ReadKind(false)
		if !ok {
			return HelpResult{}, false
		}
		kind = k
		msg, _ = h.state.Read()
	}

	if dest != nil {
		r := Refine(kind, *dest, h.cfg, h.tr, h.sink)
		switch {
		case r.Message != "":
			msg = r.Message
		case r.Kind != kind:
			msg = Message(h.tr, r.Kind, raw)
		}
		kind = r.Kind
	}

	return ResolveHelp(kind, msg, h.cfg, h.tr, h.sink), true
}
