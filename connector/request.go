package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/kdg/connector/logger"
)

const (
	// HeaderRequestID carries a per-call id, generated unless the caller set one.
	HeaderRequestID = "X-Request-ID"
	// ContentTypeJSON is the Content-Type of encoded request bodies.
	ContentTypeJSON = "application/json; charset=utf-8"
)

// hasBody reports whether method carries a JSON body when PostParams is set.
func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// BuildRequest assembles an authenticated request for u. The provider is
// always consulted; its failure is returned as a KindAuthentication error
// and nothing is sent.
func (c *Connector) BuildRequest(ctx context.Context, method string, u *url.URL, call CallConfig) (*http.Request, error) {
	req, _, err := c.buildRequest(ctx, method, u, call)
	return req, err
}

// buildRequest also returns the encoded body, nil when the request has none.
func (c *Connector) buildRequest(ctx context.Context, method string, u *url.URL, call CallConfig) (*http.Request, []byte, error) {
	method = strings.ToUpper(method)

	var body []byte
	if hasBody(method) && !isNil(call.PostParams) {
		var err error
		body, err = json.Marshal(call.PostParams)
		if err != nil {
			return nil, nil, c.requestError(KindInvalidRequest, method, u, fmt.Errorf("encode body: %w", err))
		}
	}

	authz, err := c.provider.AuthorizationHeader(ctx)
	if err != nil {
		return nil, nil, c.requestError(KindAuthentication, method, u, err)
	}

	var rdr io.Reader = http.NoBody
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, nil, c.requestError(KindInvalidRequest, method, u, err)
	}

	c.applyHeaders(ctx, req, c.cfg.Headers)
	c.applyHeaders(ctx, req, call.Headers)
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}
	if call.Accept != "" {
		req.Header.Set("Accept", call.Accept)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		id := logger.RequestIDFromContext(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(HeaderRequestID, id)
	}
	req.Header.Set("Authorization", authz)

	return req, body, nil
}

func (c *Connector) applyHeaders(ctx context.Context, req *http.Request, headers map[string]string) {
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			c.log.WithContext(ctx).Warn("ignoring Authorization header from config", logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL.Redacted(),
			))
			continue
		}
		req.Header.Set(k, v)
	}
}

func (c *Connector) requestError(kind Kind, method string, u *url.URL, err error) *Error {
	return &Error{
		Kind:      kind,
		Connector: c.cfg.Name,
		Method:    method,
		URL:       u.Redacted(),
		Err:       err,
	}
}
