package svcerr

// State retains the most recent error of a Handler so that later
// interactions can show it again without classifying it twice.
//
// State is not safe for concurrent use.
type State struct {
	message *string
	kind    *ErrorKind
}

// Record stores kind and message. When replace is false an already recorded
// error is kept.
func (s *State) Record(kind ErrorKind, message string, replace bool) {
	if !replace && s.message != nil {
		return
	}
	s.kind = &kind
	s.message = &message
}

// Read returns the recorded message.
func (s *State) Read() (string, bool) {
	if s.message == nil {
		return "", false
	}
	return *s.message, true
}

// ReadKind returns the recorded kind, clearing the state afterwards when reset is set.
func (s *State) ReadKind(reset bool) (ErrorKind, bool) {
	if reset {
		defer s.Clear()
	}
	if s.kind == nil {
		return "", false
	}
	return *s.kind, true
}

// Has reports whether a message is recorded, clearing the state afterwards
// when reset is set.
func (s *State) Has(reset bool) bool {
	if reset {
		defer s.Clear()
	}
	return s.message != nil
}

// Clear forgets the recorded error.
func (s *State) Clear() {
	s.message = nil
	s.kind = nil
}
