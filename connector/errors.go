package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind classifies connector failures.
type Kind int

const (
	// KindInvalidPath means the path does not resolve against the base URL.
	KindInvalidPath Kind = iota + 1
	// KindInvalidRequest means the request could not be assembled
	// (unencodable body, invalid method).
	KindInvalidRequest
	// KindAuthentication means the auth provider could not produce a header.
	KindAuthentication
	// KindTransport means the request or body read failed at network level.
	KindTransport
	// KindClassification means the upstream answered with a non-success status.
	KindClassification
	// KindDeserialization means a success body did not match the expected type.
	KindDeserialization
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid_path"
	case KindInvalidRequest:
		return "invalid_request"
	case KindAuthentication:
		return "authentication"
	case KindTransport:
		return "transport"
	case KindClassification:
		return "classification"
	case KindDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// Error is a structured connector error. Classification and
// deserialization failures carry the upstream status, headers and raw body.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Connector is the name of the connector that produced the error.
	Connector string
	// Method and URL identify the call; URL may be empty for path errors.
	Method string
	URL    string
	// StatusCode is the HTTP status (0 when no response was received).
	StatusCode int
	// Header holds the response headers, if any.
	Header http.Header
	// Body is the raw response body, if any.
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := "connector"
	if e.Connector != "" {
		prefix = "connector " + e.Connector
	}
	target := ""
	if e.Method != "" {
		target = fmt.Sprintf(" %s %s", e.Method, e.URL)
	}
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s (HTTP %d)%s: %v", prefix, e.Kind, e.StatusCode, target, e.Err)
	case e.StatusCode > 0:
		msg := e.UpstreamMessage()
		if msg == "" {
			msg = http.StatusText(e.StatusCode)
		}
		return fmt.Sprintf("%s: %s (HTTP %d)%s: %s", prefix, e.Kind, e.StatusCode, target, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s%s: %v", prefix, e.Kind, target, e.Err)
	default:
		return fmt.Sprintf("%s: %s%s", prefix, e.Kind, target)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether a transport failure was a timeout or deadline.
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// errorMessagePaths are tried in order against JSON error bodies.
var errorMessagePaths = []string{
	"error.message",
	"error_description",
	"error",
	"message",
	"detail",
	"errors.0.message",
	"title",
}

// UpstreamMessage extracts a human-readable message from a JSON error body.
// Returns "" if the body is empty, not JSON, or has no recognised field.
func (e *Error) UpstreamMessage() string {
	if len(e.Body) == 0 || !gjson.ValidBytes(e.Body) {
		return ""
	}
	for _, path := range errorMessagePaths {
		r := gjson.GetBytes(e.Body, path)
		if r.Exists() && r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsInvalidPath checks if err is an invalid-path error.
func IsInvalidPath(err error) bool { return isKind(err, KindInvalidPath) }

// IsInvalidRequest checks if err is a request assembly error.
func IsInvalidRequest(err error) bool { return isKind(err, KindInvalidRequest) }

// IsAuthentication checks if err is an authentication-provider failure.
func IsAuthentication(err error) bool { return isKind(err, KindAuthentication) }

// IsTransport checks if err is a network-level failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsClassification checks if err is a non-success status failure.
func IsClassification(err error) bool { return isKind(err, KindClassification) }

// IsDeserialization checks if err is a response decoding failure.
func IsDeserialization(err error) bool { return isKind(err, KindDeserialization) }

// IsTimeout checks if err is a transport timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Timeout()
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
