package svcerr

import (
	"encoding/json"
)

// ErrorResponse is the serializable form of a classified error. The wrapped
// cause is not included.
type ErrorResponse struct {
	Kind        string         `json:"kind"`
	Message     string         `json:"message"`
	Certificate bool           `json:"certificate,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// ToJSON converts err to an ErrorResponse. Returns nil if err is nil.
// Errors that are not classified are reported with their kind from the
// default registry and their raw error text.
//
// Example:
//
//	if err := discover(ctx); err != nil {
//	    w.WriteHeader(http.StatusBadGateway)
//	    _ = json.NewEncoder(w).Encode(svcerr.ToJSON(err))
//	}
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	var ce *ClassifiedError
	if As(err, &ce) {
		return ce.response()
	}
	kind := ClassifyValue(err)
	return &ErrorResponse{
		Kind:        string(kind),
		Message:     err.Error(),
		Certificate: kind.IsCertificate(),
	}
}

func (e *ClassifiedError) response() *ErrorResponse {
	return &ErrorResponse{
		Kind:        string(e.kind),
		Message:     e.message,
		Certificate: e.kind.IsCertificate(),
		Context:     e.context,
	}
}

// MarshalJSON implements json.Marshaler.
func (e *ClassifiedError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.response())
}
