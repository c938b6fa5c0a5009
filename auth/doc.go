// Package auth supplies the Authorization header a connector attaches to
// every outbound request.
//
// A Provider is asked for a header value once per request and must be safe
// for concurrent use. Variants cover the common cases:
//
//	auth.Bearer("static-token")
//	auth.Basic("user", "pass")
//	auth.Static("Token abc")                 // verbatim value
//	p, _ := auth.OAuth(auth.Config{...})      // refresh-token grant, cached
//	p, _ := auth.JWT(auth.JWTConfig{...})     // self-signed service token
//
// Custom schemes implement Provider directly or use ProviderFunc.
package auth
