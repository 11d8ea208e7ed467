// Package svcerr classifies failures raised while talking to remote OData and
// ABAP services and turns them into end-user messages and guided help.
//
// A failure can be almost anything: a transport error code such as
// ECONNREFUSED, an HTTP status, an *HTTPError carrying a response body, a Go
// network or TLS error, or a plain string. The package reduces each of these
// to a single string (Extract), matches it against an ordered pattern table
// (Registry) and yields one ErrorKind from a closed taxonomy.
//
// # Features
//
//   - Closed ErrorKind taxonomy with a certificate family (IsCertificate)
//   - Ordered, first-match-wins pattern table with memoized lookups
//   - Precedence-based value extraction from HTTP errors and Go errors
//   - Localized messages backed by YAML catalogs (package i18n)
//   - Destination-aware refinement of kinds
//   - Guided help links with optional launch commands
//   - Fire-and-forget telemetry (package telemetry)
//   - Retention of the most recent error for later interactions
//   - ClassifiedError values compatible with errors.Is, errors.As and errors.Unwrap
//
// # Quick Start
//
// Classifying a failure:
//
//	kind := svcerr.ClassifyValue("DEPTH_ZERO_SELF_SIGNED_CERT")
//	// kind == svcerr.KindCertSelfSigned
//
//	kind = svcerr.ClassifyValue(&svcerr.HTTPError{Response: &svcerr.Response{Status: 404}})
//	// kind == svcerr.KindNotFound
//
// Logging and rendering with a Handler:
//
//	h := svcerr.New(svcerr.WithConfig(cfg), svcerr.WithSink(sink))
//	msg := h.LogAndClassify(svcerr.Raw(err))
//
// Resolving help for the retained error, refined with a destination:
//
//	help, ok := h.HelpFor(nil, true, &svcerr.Destination{Name: "S4H", OnPremise: true})
//	if ok && help.IsLink() {
//	    open(help.Link.URL)
//	}
//
// Wrapping errors:
//
//	resp, err := client.Do(req)
//	if err != nil {
//	    return h.Wrap(err)
//	}
//
// # Pattern Precedence
//
// Entries are evaluated in declaration order and the first match wins. More
// specific kinds are declared before general ones, so "503" classifies as
// KindServiceUnavailable and never reaches the KindServerHTTPError fallback.
// Matching is case-sensitive.
//
// # Extraction
//
// Extract picks the first available value in this order: an error code in the
// response body, the response status, the response body, the error code, the
// error name unless it is generic, the error message, the value itself.
//
// # Concurrency
//
// Registry and the package-level functions are safe for concurrent use. A
// Handler and its State are meant for a single goroutine.
package svcerr
