package svcerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	var s State

	_, ok := s.Read()
	assert.False(t, ok)
	assert.False(t, s.Has(false))

	s.Record(KindAuth, "first", true)
	msg, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, "first", msg)

	// Without replace the recorded error is kept.
	s.Record(KindTimeout, "second", false)
	kind, ok := s.ReadKind(false)
	assert.True(t, ok)
	assert.Equal(t, KindAuth, kind)

	s.Record(KindTimeout, "second", true)
	msg, _ = s.Read()
	assert.Equal(t, "second", msg)

	// Reset clears after reporting.
	assert.True(t, s.Has(true))
	assert.False(t, s.Has(false))
}

func TestState_ReadKindReset(t *testing.T) {
	var s State
	s.Record(KindNotFound, "URL not found", true)

	kind, ok := s.ReadKind(true)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)

	_, ok = s.ReadKind(false)
	assert.False(t, ok)
	_, ok = s.Read()
	assert.False(t, ok)
}

func TestState_EmptyMessageIsRecorded(t *testing.T) {
	var s State
	s.Record(KindUnknown, "", true)
	msg, ok := s.Read()
	assert.True(t, ok)
	assert.Empty(t, msg)
}
