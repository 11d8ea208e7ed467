package svcerr

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/svcerr/config"
	"github.com/jmgilman/go/svcerr/telemetry"
)

type handlerFixture struct {
	h    *Handler
	rec  *telemetry.Recorder
	logs *bytes.Buffer
}

func newHandler(t *testing.T, opts ...Option) handlerFixture {
	t.Helper()
	rec := &telemetry.Recorder{}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	base := []Option{
		WithTranslator(newTranslator(t)),
		WithSink(rec),
		WithLogger(logger),
	}
	h := New(append(base, opts...)...)
	t.Cleanup(h.Close)
	return handlerFixture{h: h, rec: rec, logs: logs}
}

func (f handlerFixture) records(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(f.logs)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	h := New()
	assert.Equal(t, config.Default(), h.Config())
	assert.Equal(t, "URL not found", h.MessageForKind(KindNotFound))
	assert.False(t, h.State().Has(false))
}

func TestHandler_Classify(t *testing.T) {
	f := newHandler(t)

	assert.Equal(t, KindCertSelfSigned, f.h.Classify(Raw("DEPTH_ZERO_SELF_SIGNED_CERT")))
	assert.True(t, f.h.IsCertificateError("DEPTH_ZERO_SELF_SIGNED_CERT"))
	assert.Equal(t, KindAuth, f.h.Classify(Raw(401)))
	assert.False(t, f.h.IsCertificateError(401))
	assert.Equal(t, KindNoV4Services, f.h.Classify(Known(KindNoV4Services)))
}

func TestHandler_WithRegistry(t *testing.T) {
	r := NewRegistry([]PatternEntry{{Kind: KindTokenFetchFailed, Matchers: []Matcher{Literal("401")}}})
	f := newHandler(t, WithRegistry(r))
	assert.Equal(t, KindTokenFetchFailed, f.h.Classify(Raw(401)))
}

func TestHandler_MessageForKind(t *testing.T) {
	f := newHandler(t)
	assert.Equal(t, "Authentication incorrect: Auth", f.h.MessageForKind(KindAuth))
	assert.Equal(t, "Authentication incorrect: 401", f.h.MessageForKind(KindAuth, 401))
}

func TestHandler_LogAndClassify(t *testing.T) {
	f := newHandler(t)

	msg := f.h.LogAndClassify(Raw(&HTTPError{Response: &Response{Status: 404}}))
	assert.Equal(t, "URL not found", msg)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "URL not found", records[0]["msg"])
	assert.Equal(t, "NotFound", records[0][logKeyKind])
	assert.Equal(t, "404", records[0][logKeyValue])

	retained, ok := f.h.State().Read()
	require.True(t, ok)
	assert.Equal(t, msg, retained)
	kind, _ := f.h.State().ReadKind(false)
	assert.Equal(t, KindNotFound, kind)
}

func TestHandler_LogAndClassify_Options(t *testing.T) {
	f := newHandler(t)

	msg := f.h.LogAndClassify(Known(KindNoV2Services), WithContextMessage("listing services"), WithoutRetain())
	assert.Equal(t, "No OData V2 services are available on the selected system.", msg)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "listing services", records[0]["msg"])
	assert.Equal(t, "NoV2Services", records[0][logKeyKind])
	assert.NotContains(t, records[0], logKeyValue)

	assert.False(t, f.h.State().Has(false))
}

func TestHandler_CurrentMessage(t *testing.T) {
	f := newHandler(t)

	_, ok := f.h.CurrentMessage(nil, false, "")
	assert.False(t, ok)

	msg, ok := f.h.CurrentMessage(nil, false, KindNoV4Services)
	assert.True(t, ok)
	assert.Equal(t, "No OData V4 services are available on the selected system.", msg)

	f.h.LogAndClassify(Raw("ETIMEDOUT"))
	msg, ok = f.h.CurrentMessage(nil, false, KindNoV4Services)
	assert.True(t, ok)
	assert.Equal(t, "A connection timeout error occurred: ETIMEDOUT", msg)

	failure := Raw(403)
	msg, ok = f.h.CurrentMessage(&failure, true, "")
	assert.True(t, ok)
	assert.Equal(t, "You are not authorized to access this resource: 403", msg)
	assert.False(t, f.h.State().Has(false))
}

func TestHandler_HelpFor_RetainedError(t *testing.T) {
	f := newHandler(t)

	_, ok := f.h.HelpFor(nil, false, nil)
	assert.False(t, ok)

	f.h.LogAndClassify(Raw(&HTTPError{Response: &Response{Status: 404}}))

	// Not found has no help node.
	help, ok := f.h.HelpFor(nil, false, nil)
	require.True(t, ok)
	assert.False(t, help.IsLink())
	assert.Equal(t, "URL not found", help.Text)
	f.h.Flush()
	assert.Zero(t, f.rec.Len())

	// Refined through a destination it becomes DestinationNotFound, which has help.
	dest := &Destination{Name: "S4H", SupportsDynamicDiscovery: true, Authentication: NoAuthentication}
	help, ok = f.h.HelpFor(nil, true, dest)
	require.True(t, ok)
	require.True(t, help.IsLink())
	assert.Equal(t, "The destination could not be found. Check that it exists and is reachable.", help.Link.Message)
	assert.Contains(t, help.Link.URL, "/actions/48365/")

	f.h.Flush()
	events := f.rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, telemetry.EventDestinationError, events[0].Name)
	assert.Equal(t, telemetry.EventHelpLinkCreated, events[1].Name)

	// Reset cleared the retained error.
	_, ok = f.h.HelpFor(nil, false, nil)
	assert.False(t, ok)
}

func TestHandler_HelpFor_ExplicitFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Platform = config.PlatformCloudIDE
	f := newHandler(t, WithConfig(cfg))

	failure := Raw(504)
	help, ok := f.h.HelpFor(&failure, false, nil)
	require.True(t, ok)
	require.True(t, help.IsLink())
	assert.Equal(t, "An error was returned by the server: Gateway timeout: 504", help.Link.Message)
	f.h.Flush()
	assert.Equal(t, 1, f.rec.Len())
}

func TestHandler_HelpFor_RefinedKindMessage(t *testing.T) {
	f := newHandler(t)

	// Service unavailable on premise refines without a replacement message.
	failure := Raw(503)
	dest := &Destination{SupportsDynamicDiscovery: true, OnPremise: true}
	help, ok := f.h.HelpFor(&failure, false, dest)
	require.True(t, ok)
	require.True(t, help.IsLink())
	assert.Equal(t, Message(newTranslator(t), KindDestinationServiceUnavailable, nil), help.Link.Message)
}

func TestHandler_Wrap(t *testing.T) {
	f := newHandler(t)

	assert.NoError(t, f.h.Wrap(nil))

	cause := &HTTPError{Response: &Response{Status: 401}}
	err := f.h.Wrap(cause)

	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindAuth, ce.Kind())
	assert.Equal(t, "Authentication incorrect: 401", ce.Message())
	assert.ErrorIs(t, err, cause)

	// Already classified errors are returned untouched.
	assert.Same(t, err, f.h.Wrap(err))
}

func TestHandler_TelemetryDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan string, 4)
	sink := telemetry.SinkFunc(func(event string, _ telemetry.Properties) {
		<-release
		delivered <- event
	})
	h := New(WithTranslator(newTranslator(t)), WithSink(sink))

	done := make(chan HelpResult, 1)
	go func() {
		failure := Raw(404)
		help, _ := h.HelpFor(&failure, false, &Destination{SupportsDynamicDiscovery: true})
		done <- help
	}()

	select {
	case help := <-done:
		assert.True(t, help.IsLink())
	case <-time.After(2 * time.Second):
		t.Fatal("HelpFor waited on the telemetry sink")
	}

	close(release)
	h.Close()
	require.Len(t, delivered, 2)
	assert.Equal(t, telemetry.EventDestinationError, <-delivered)
	assert.Equal(t, telemetry.EventHelpLinkCreated, <-delivered)
}

func TestHandler_KeepsCallerDispatcher(t *testing.T) {
	rec := &telemetry.Recorder{}
	async := telemetry.NewAsync(rec)
	defer async.Close()

	h := New(WithTranslator(newTranslator(t)), WithSink(async))
	h.Close()

	failure := Raw("SELF_SIGNED_CERT_IN_CHAIN")
	_, ok := h.HelpFor(&failure, false, nil)
	require.True(t, ok)

	h.Flush()
	assert.Equal(t, 1, rec.Len())
	assert.Zero(t, async.Dropped())
}
