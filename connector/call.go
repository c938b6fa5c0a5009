package connector

// CallConfig describes the optional parts of one call. The zero value
// sends no query string, no body, no extra headers and no Accept header.
type CallConfig struct {
	// URLParams become the query string. A nil value encodes as "key=".
	// A non-nil empty map still produces a trailing "?".
	URLParams map[string]*string
	// PostParams is JSON-encoded as the body of POST, PUT and PATCH calls.
	// A nil pointer, map or slice counts as absent and sends no body.
	PostParams any
	// Headers are added to the request. They never replace Authorization.
	Headers map[string]string
	// Accept sets the Accept header when non-empty.
	Accept string
}

// Param returns a pointer to v for use in URLParams.
func Param(v string) *string {
	return &v
}

// Params builds URLParams from plain strings.
func Params(kv map[string]string) map[string]*string {
	out := make(map[string]*string, len(kv))
	for k, v := range kv {
		out[k] = Param(v)
	}
	return out
}
