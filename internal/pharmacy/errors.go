package pharmacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindTransport means no HTTP response was received.
	KindTransport ErrorKind = "transport"
	// KindValidation is a 4xx response, usually with a structured body.
	KindValidation ErrorKind = "validation"
	// KindServer is a 5xx response.
	KindServer ErrorKind = "server"
)

// Error is returned by every Client method on failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Payload    json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pharmacy: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("pharmacy: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Message reduces err to something fit for a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports a 401 from the backend, typically an expired token.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

func responseError(status int, body []byte) *Error {
	kind := KindValidation
	if status >= 500 {
		kind = KindServer
	}
	e := &Error{Kind: kind, StatusCode: status}
	if len(body) > 0 && json.Valid(body) {
		e.Payload = json.RawMessage(body)
	}
	e.Message = payloadMessage(body)
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed with status %d", status)
	}
	return e
}

// payloadMessage extracts "message" (string or list of strings) or "error"
// from a JSON error body.
func payloadMessage(body []byte) string {
	var p struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		var s string
		if json.Unmarshal(body, &s) == nil {
			return s
		}
		return ""
	}
	if m := rawText(p.Message); m != "" {
		return m
	}
	return rawText(p.Error)
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, ", ")
	}
	return ""
}
