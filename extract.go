package svcerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Response is the server reply attached to an HTTPError.
type Response struct {
	// Status is the HTTP status code. Zero means absent.
	Status int

	// Data is the decoded or raw response body: a string, []byte,
	// json.RawMessage or a map[string]any produced by a JSON decoder.
	Data any
}

// HTTPError describes a failed request the way HTTP client libraries report
// it: an optional response plus the error name, code and message.
type HTTPError struct {
	Name     string
	Message  string
	Code     string
	Response *Response
	Cause    error
}

// Error implements error.
func (e *HTTPError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Response != nil && e.Response.Status != 0:
		return "request failed with status code " + strconv.Itoa(e.Response.Status)
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return "request failed"
	}
}

// Unwrap returns the transport error that caused the failure, if any.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ErrorCoder is implemented by errors that carry a symbolic code.
type ErrorCoder interface {
	ErrorCode() string
}

// Namer is implemented by errors that carry a type name.
type Namer interface {
	ErrorName() string
}

// genericNames are error names too vague to classify on; the message is used instead.
var genericNames = map[string]struct{}{
	"TypeError": {},
	"Error":     {},
}

// candidates holds the candidate values found on a failure, in extraction order.
type candidates struct {
	dataCode string
	status   string
	data     string
	code     string
	name     string
	message  string
	self     string
}

func (p candidates) value() string {
	if p.name != "" {
		if _, generic := genericNames[p.name]; generic {
			p.name = p.message
		}
	}
	for _, v := range []string{p.dataCode, p.status, p.data, p.code, p.name, p.message} {
		if v != "" {
			return v
		}
	}
	return p.self
}

// Extract derives the scalar value used for pattern matching. Strings and
// numbers are returned as-is. For structured failures the first present value
// wins, in this order: response error code, response status, response body,
// error code, specific error name (generic names defer to the message),
// message, and finally the value itself. Error objects decoded from JSON
// into a map[string]any are read the same way. Extract never panics.
func Extract(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case ErrorKind:
		return string(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	case *HTTPError:
		if t == nil {
			return ""
		}
		return httpErrorCandidates(t).value()
	case error:
		return errorCandidates(t).value()
	case map[string]any:
		return mapCandidates(t).value()
	default:
		return fmt.Sprint(v)
	}
}

func httpErrorCandidates(e *HTTPError) candidates {
	p := candidates{
		code:    e.Code,
		name:    e.Name,
		message: e.Message,
		self:    e.Error(),
	}
	if e.Response != nil {
		p.dataCode = responseErrorCode(e.Response.Data)
		if e.Response.Status != 0 {
			p.status = strconv.Itoa(e.Response.Status)
		}
		p.data = stringifyData(e.Response.Data)
	}
	if p.code == "" && e.Cause != nil {
		p.code, _ = nativeCode(e.Cause)
	}
	return p
}

func errorCandidates(err error) candidates {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErrorCandidates(httpErr)
	}

	p := candidates{message: err.Error(), self: err.Error()}

	var sc StatusCoder
	if errors.As(err, &sc) {
		if status := sc.StatusCode(); status != 0 {
			p.status = strconv.Itoa(status)
		}
	}

	var ec ErrorCoder
	if errors.As(err, &ec) {
		p.code = ec.ErrorCode()
	}
	if p.code == "" {
		p.code, _ = nativeCode(err)
	}

	var n Namer
	if errors.As(err, &n) {
		p.name = n.ErrorName()
	}
	return p
}

// mapCandidates reads an error object decoded from JSON, e.g.
// {"name": "...", "code": "...", "response": {"status": 404, "data": {...}}}.
func mapCandidates(m map[string]any) candidates {
	p := candidates{
		code:    scalar(m["code"]),
		name:    scalar(m["name"]),
		message: scalar(m["message"]),
		self:    stringifyData(m),
	}
	if resp, ok := m["response"].(map[string]any); ok {
		p.dataCode = responseErrorCode(resp["data"])
		p.status = scalar(resp["status"])
		p.data = stringifyData(resp["data"])
	}
	return p
}

// scalar stringifies strings and numbers, ignoring anything else.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64, json.Number:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// responseErrorCode returns body.error.code from a JSON-like response body.
func responseErrorCode(data any) string {
	switch d := data.(type) {
	case map[string]any:
		inner, ok := d["error"].(map[string]any)
		if !ok {
			return ""
		}
		if code, ok := inner["code"]; ok && code != nil {
			return fmt.Sprint(code)
		}
	case []byte:
		return jsonErrorCode(d)
	case json.RawMessage:
		return jsonErrorCode(d)
	case string:
		if strings.HasPrefix(strings.TrimSpace(d), "{") {
			return jsonErrorCode([]byte(d))
		}
	}
	return ""
}

func jsonErrorCode(raw []byte) string {
	var body struct {
		Error struct {
			Code any `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Code == nil {
		return ""
	}
	return fmt.Sprint(body.Error.Code)
}

func stringifyData(data any) string {
	switch d := data.(type) {
	case nil:
		return ""
	case string:
		return d
	case []byte:
		return string(d)
	case json.RawMessage:
		return string(d)
	case map[string]any, []any:
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return string(b)
	default:
		return fmt.Sprint(d)
	}
}
