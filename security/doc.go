// Package security holds the TLS settings a connector applies to its
// shared transport: custom CA bundles (file or inline PEM), client
// certificates for mTLS, and server-name overrides.
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/partner-ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
