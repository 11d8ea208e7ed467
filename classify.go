package svcerr

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// noMatch is cached for values that no entry accepts.
const noMatch ErrorKind = ""

// Registry is an ordered pattern table. The first entry whose matchers accept
// a value determines its kind.
type Registry struct {
	entries []PatternEntry
	cache   *lru.Cache[string, ErrorKind]
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCache memoizes up to size match results. Non-positive sizes disable
// the cache.
func WithCache(size int) RegistryOption {
	return func(r *Registry) {
		if size <= 0 {
			r.cache = nil
			return
		}
		c, err := lru.New[string, ErrorKind](size)
		if err != nil {
			return
		}
		r.cache = c
	}
}

// NewRegistry creates a registry that evaluates entries in the given order.
// The slice is copied.
func NewRegistry(entries []PatternEntry, opts ...RegistryOption) *Registry {
	r := &Registry{entries: make([]PatternEntry, len(entries))}
	copy(r.entries, entries)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry(DefaultPatterns(), WithCache(512))

// DefaultRegistry returns the shared registry built from DefaultPatterns.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Entries returns a copy of the registry's entries in evaluation order.
func (r *Registry) Entries() []PatternEntry {
	out := make([]PatternEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Match returns the first kind whose matchers accept value.
// The second result is false when no entry matches.
func (r *Registry) Match(value string) (ErrorKind, bool) {
	if r.cache != nil {
		if kind, ok := r.cache.Get(value); ok {
			return kind, kind != noMatch
		}
	}

	kind := noMatch
	for _, e := range r.entries {
		if e.Matches(value) {
			kind = e.Kind
			break
		}
	}

	if r.cache != nil {
		r.cache.Add(value, kind)
	}
	return kind, kind != noMatch
}

// Failure is the input to classification: either a raw failure value whose
// kind must be derived, or a kind the caller already knows.
type Failure struct {
	raw   any
	kind  ErrorKind
	known bool
}

// Raw wraps an arbitrary failure value (string, number, error, *HTTPError...).
// An ErrorKind value is treated as Known.
func Raw(v any) Failure {
	if k, ok := v.(ErrorKind); ok {
		return Known(k)
	}
	return Failure{raw: v}
}

// Known wraps a kind that needs no classification.
func Known(k ErrorKind) Failure {
	return Failure{kind: k, known: true}
}

// Kind returns the wrapped kind for failures built with Known.
func (f Failure) Kind() (ErrorKind, bool) {
	return f.kind, f.known
}

// Value returns the raw value for failures built with Raw, nil otherwise.
func (f Failure) Value() any {
	return f.raw
}

// Classify resolves f with r. Known kinds pass through unchanged, as do
// errors wrapping a *ClassifiedError. Other raw values are extracted and
// matched, defaulting to KindUnknown.
func (r *Registry) Classify(f Failure) ErrorKind {
	if f.known {
		return f.kind
	}
	if err, ok := f.raw.(error); ok {
		var ce *ClassifiedError
		if As(err, &ce) && ce != nil {
			return ce.kind
		}
	}
	if kind, ok := r.Match(Extract(f.raw)); ok {
		return kind
	}
	return KindUnknown
}

// Classify resolves f with the default registry.
func Classify(f Failure) ErrorKind {
	return defaultRegistry.Classify(f)
}

// ClassifyValue is shorthand for Classify(Raw(v)).
func ClassifyValue(v any) ErrorKind {
	return defaultRegistry.Classify(Raw(v))
}

// IsCertificateError reports whether v classifies into the certificate family.
func IsCertificateError(v any) bool {
	return ClassifyValue(v).IsCertificate()
}
