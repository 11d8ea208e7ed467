package svcerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ClassifiedError
		want string
	}{
		{
			name: "without cause",
			err:  NewError(KindNoV4Services, "no services"),
			want: "[NoV4Services] no services",
		},
		{
			name: "formatted",
			err:  NewErrorf(KindTimeout, "gave up after %d attempts", 3),
			want: "[Timeout] gave up after 3 attempts",
		},
		{
			name: "with cause",
			err:  &ClassifiedError{kind: KindConnection, message: "dial failed", cause: errors.New("ECONNREFUSED")},
			want: "[Connection] dial failed: ECONNREFUSED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassifiedError_Is(t *testing.T) {
	err := fmt.Errorf("load: %w", NewError(KindAuth, "denied"))

	assert.True(t, Is(err, NewError(KindAuth, "other message")))
	assert.False(t, Is(err, NewError(KindForbidden, "denied")))

	var ce *ClassifiedError
	require.True(t, As(err, &ce))
	assert.Equal(t, "denied", ce.Message())
}

func TestClassifiedError_WithContext(t *testing.T) {
	base := NewError(KindDestinationNotFound, "missing")
	withDest := base.WithContext("destination", "S4H")
	withBoth := withDest.WithContext("platform", "cli")

	assert.Nil(t, base.Context())
	assert.Equal(t, map[string]any{"destination": "S4H"}, withDest.Context())
	assert.Equal(t, map[string]any{"destination": "S4H", "platform": "cli"}, withBoth.Context())

	ctx := withBoth.Context()
	ctx["destination"] = "changed"
	assert.Equal(t, "S4H", withBoth.Context()["destination"])
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "classified", err: NewError(KindNoAbapEnvironments, "none"), want: KindNoAbapEnvironments},
		{name: "wrapped classified", err: fmt.Errorf("ctx: %w", NewError(KindRedirect, "moved")), want: KindRedirect},
		{name: "raw error", err: errors.New("socket hang up"), want: KindConnection},
		{name: "http error", err: &HTTPError{Response: &Response{Status: 502}}, want: KindBadGateway},
		{name: "unmatched", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(errors.New("CERT_HAS_EXPIRED"), KindCertExpired))
	assert.False(t, IsKind(nil, KindUnknown))
	assert.False(t, IsKind(NewError(KindAuth, "x"), KindForbidden))
}

func TestToJSON(t *testing.T) {
	assert.Nil(t, ToJSON(nil))

	resp := ToJSON(NewError(KindCertSelfSigned, "self signed").WithContext("host", "s4h.example"))
	assert.Equal(t, &ErrorResponse{
		Kind:        "CertSelfSigned",
		Message:     "self signed",
		Certificate: true,
		Context:     map[string]any{"host": "s4h.example"},
	}, resp)

	resp = ToJSON(errors.New("ENOTFOUND"))
	assert.Equal(t, &ErrorResponse{Kind: "NoSuchHost", Message: "ENOTFOUND"}, resp)
}

func TestClassifiedError_MarshalJSON(t *testing.T) {
	err := &ClassifiedError{kind: KindAuth, message: "denied", cause: errors.New("secret detail")}

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"kind":"Auth","message":"denied"}`, string(data))
}
