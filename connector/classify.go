package connector

import "net/http"

// Classification is the success/failure decision for one response.
type Classification struct {
	Success bool
	// Empty marks a success that carries no payload.
	Empty bool
}

// Classify decides whether a response is a success and whether it has a
// payload to decode. It never retries and never returns an error.
func Classify(statusCode int, body []byte) Classification {
	switch {
	case statusCode == http.StatusNoContent:
		return Classification{Success: true, Empty: true}
	case statusCode >= 200 && statusCode < 300:
		return Classification{Success: true, Empty: len(body) == 0}
	default:
		return Classification{}
	}
}
