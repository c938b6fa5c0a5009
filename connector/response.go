package connector

import "net/http"

// Response is the raw upstream response, body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Result pairs a decoded payload with the response it came from.
// It is only returned for classified successes.
type Result[T any] struct {
	// Data is the decoded body. It is the zero value when Empty is true.
	Data T
	// Empty is true for 204 responses and 2xx responses without a body.
	Empty bool
	// Response is the raw response (status, headers, body).
	Response *Response
}

// StatusCode is shorthand for r.Response.StatusCode.
func (r *Result[T]) StatusCode() int {
	return r.Response.StatusCode
}
