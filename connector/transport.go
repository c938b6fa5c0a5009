package connector

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// newHTTPClient builds the pooled client shared by every call of a
// connector. http.Client and http.Transport are safe for concurrent use.
func newHTTPClient(cfg Config) (*http.Client, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.Transport.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("connector: %w", err)
	}
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}

	if cfg.Transport.DisableHTTP2 {
		// A non-nil empty map turns off the automatic h2 upgrade.
		t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	} else {
		h2, err := http2.ConfigureTransports(t)
		if err != nil {
			return nil, fmt.Errorf("connector: configure http2: %w", err)
		}
		h2.ReadIdleTimeout = cfg.Transport.HTTP2ReadIdleTimeout
		h2.PingTimeout = cfg.Transport.HTTP2PingTimeout
	}

	return &http.Client{
		Transport: t,
		Timeout:   cfg.Timeout,
	}, nil
}
