package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kdg/connector/component"
)

// RecordedRequest is a request received by an Upstream.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type routeKey struct {
	method string
	path   string
}

type upstreamState struct {
	routes   map[routeKey]gin.HandlerFunc
	requests []RecordedRequest
}

// Upstream is a fake REST API backed by gin and httptest.
type Upstream struct {
	name string
	tls  bool

	mu       sync.RWMutex
	state    upstreamState
	server   *httptest.Server
	received chan struct{}
}

var _ TestComponent = (*Upstream)(nil)

// NewUpstream creates a fake upstream. Call Start (or T(t).Setup) before use.
func NewUpstream(name string) *Upstream {
	return &Upstream{
		name:     name,
		state:    upstreamState{routes: make(map[routeKey]gin.HandlerFunc)},
		received: make(chan struct{}, 1024),
	}
}

// NewTLSUpstream creates a fake upstream served over HTTPS with a
// self-signed certificate. Use Client to trust it.
func NewTLSUpstream(name string) *Upstream {
	u := NewUpstream(name)
	u.tls = true
	return u
}

// Name returns the component name.
func (u *Upstream) Name() string { return u.name }

// Start begins serving on a random local port.
func (u *Upstream) Start(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.server != nil {
		return fmt.Errorf("upstream %s already started", u.name)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), u.record)
	engine.NoRoute(u.dispatch)

	if u.tls {
		u.server = httptest.NewTLSServer(engine)
	} else {
		u.server = httptest.NewServer(engine)
	}
	return nil
}

// Stop shuts the server down.
func (u *Upstream) Stop(_ context.Context) error {
	u.mu.Lock()
	srv := u.server
	u.server = nil
	u.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Health reports healthy while the server is running.
func (u *Upstream) Health(_ context.Context) component.Health {
	h := component.Health{Name: u.name, Status: component.StatusHealthy}
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.server == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Reset clears routes and recorded requests.
func (u *Upstream) Reset(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = upstreamState{routes: make(map[routeKey]gin.HandlerFunc)}
	return nil
}

// Snapshot captures routes and recorded requests.
func (u *Upstream) Snapshot(_ context.Context) (interface{}, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state.clone(), nil
}

// Restore replaces routes and recorded requests with a snapshot.
func (u *Upstream) Restore(_ context.Context, snapshot interface{}) error {
	s, ok := snapshot.(upstreamState)
	if !ok {
		return fmt.Errorf("upstream %s: invalid snapshot type %T", u.name, snapshot)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = s.clone()
	return nil
}

// URL returns the server base URL, e.g. "http://127.0.0.1:53121".
func (u *Upstream) URL() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.server == nil {
		return ""
	}
	return u.server.URL
}

// Client returns a client that trusts the server certificate.
func (u *Upstream) Client() *http.Client {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.server == nil {
		return nil
	}
	return u.server.Client()
}

// Handle routes method and exact path to h. Routes may be changed while
// the server is running.
func (u *Upstream) Handle(method, path string, h gin.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.routes[routeKey{method: method, path: path}] = h
}

// JSON answers method and path with a fixed status and JSON body.
// A nil body sends no content.
func (u *Upstream) JSON(method, path string, status int, body any) {
	u.Handle(method, path, func(c *gin.Context) {
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	})
}

// Raw answers method and path with a fixed status, content type and body.
func (u *Upstream) Raw(method, path string, status int, contentType string, body []byte) {
	u.Handle(method, path, func(c *gin.Context) {
		c.Data(status, contentType, body)
	})
}

// TokenEndpoint serves an OAuth2 refresh-token grant at path, issuing
// accessToken with the given lifetime.
func (u *Upstream) TokenEndpoint(path, accessToken string, expiresIn time.Duration) {
	u.Handle(http.MethodPost, path, func(c *gin.Context) {
		if c.PostForm("grant_type") != "refresh_token" || c.PostForm("refresh_token") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   int(expiresIn.Seconds()),
		})
	})
}

// Requests returns a copy of all recorded requests.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]RecordedRequest(nil), u.state.requests...)
}

// RequestsTo returns recorded requests for path.
func (u *Upstream) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range u.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the most recent request, or the zero value.
func (u *Upstream) LastRequest() RecordedRequest {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if len(u.state.requests) == 0 {
		return RecordedRequest{}
	}
	return u.state.requests[len(u.state.requests)-1]
}

// WaitForRequests blocks until n requests have been recorded since the
// last Reset or ctx is done.
func (u *Upstream) WaitForRequests(ctx context.Context, n int) error {
	for {
		u.mu.RLock()
		got := len(u.state.requests)
		u.mu.RUnlock()
		if got >= n {
			return nil
		}
		select {
		case <-u.received:
		case <-ctx.Done():
			return fmt.Errorf("upstream %s: got %d of %d requests: %w", u.name, got, n, ctx.Err())
		}
	}
}

func (u *Upstream) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	u.mu.Lock()
	u.state.requests = append(u.state.requests, RecordedRequest{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	u.mu.Unlock()

	select {
	case u.received <- struct{}{}:
	default:
	}
	c.Next()
}

func (u *Upstream) dispatch(c *gin.Context) {
	u.mu.RLock()
	h, ok := u.state.routes[routeKey{method: c.Request.Method, path: c.Request.URL.Path}]
	u.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path),
		})
		return
	}
	h(c)
}

func (s upstreamState) clone() upstreamState {
	out := upstreamState{
		routes:   make(map[routeKey]gin.HandlerFunc, len(s.routes)),
		requests: append([]RecordedRequest(nil), s.requests...),
	}
	for k, v := range s.routes {
		out.routes[k] = v
	}
	return out
}
