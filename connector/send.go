package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kdg/connector/logger"
)

// SendOption adjusts a single Send call.
type SendOption func(*sendOptions)

type sendOptions struct {
	baseURL          string
	surroundSlashes  bool
	responseBodySens *Sensitivity
}

// WithBaseURL resolves the path against base instead of the connector's base URL.
func WithBaseURL(base string) SendOption {
	return func(o *sendOptions) { o.baseURL = base }
}

// WithSurroundingSlashes wraps the path in "/" before resolution.
func WithSurroundingSlashes() SendOption {
	return func(o *sendOptions) { o.surroundSlashes = true }
}

// WithoutResponseBodyLogging replaces the logged response body with
// RedactionMarker.
func WithoutResponseBodyLogging() SendOption {
	s := Redacted
	return func(o *sendOptions) { o.responseBodySens = &s }
}

// WithResponseBodyLogging logs the response body even when the connector
// is configured to redact response bodies.
func WithResponseBodyLogging() SendOption {
	s := Visible
	return func(o *sendOptions) { o.responseBodySens = &s }
}

// Send performs one authenticated call and decodes a successful JSON
// response into T. Non-2xx responses are returned as KindClassification
// errors carrying the status, headers and body. Send is safe for
// concurrent use on the same connector.
func Send[T any](ctx context.Context, c *Connector, method, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	o := sendOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	respSens := Visible
	if c.cfg.RedactResponseBodies {
		respSens = Redacted
	}
	if o.responseBodySens != nil {
		respSens = *o.responseBodySens
	}
	method = strings.ToUpper(method)

	start := time.Now()
	ctx, span := c.tel.start(ctx, c.cfg.Name, method)
	res, status, err := send[T](ctx, c, method, path, call, o, respSens)
	c.tel.finish(ctx, span, c.cfg.Name, method, status, err, time.Since(start))
	return res, err
}

func send[T any](ctx context.Context, c *Connector, method, path string, call CallConfig, o sendOptions, respSens Sensitivity) (*Result[T], int, error) {
	u, err := c.BuildURL(o.baseURL, path, o.surroundSlashes)
	if err != nil {
		return nil, 0, err
	}
	if call.URLParams != nil {
		u = BuildQuery(u, call.URLParams)
	}

	req, reqBody, err := c.buildRequest(ctx, method, u, call)
	if err != nil {
		return nil, 0, err
	}
	target := u.Redacted()
	lctx := logger.ContextWithRequestID(ctx, req.Header.Get(HeaderRequestID))
	log := c.log.WithContext(lctx)
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		log = log.WithFields(logger.Fields(logger.FieldTraceID, sc.TraceID().String()))
	}

	log.Info(fmt.Sprintf("Sending %s request to %s", method, target), logger.HTTPFields(method, target, 0))
	if reqBody != nil {
		c.bodyLog.LogBody(lctx, BodyEvent{
			Connector: c.cfg.Name,
			Direction: Outgoing,
			Method:    method,
			URL:       target,
			Body:      reqBody,
		}, Visible)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", logger.ErrorFields("send", err))
		return nil, 0, &Error{Kind: KindTransport, Connector: c.cfg.Name, Method: method, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("reading response body failed", logger.ErrorFields("send", err))
		return nil, resp.StatusCode, &Error{
			Kind:       KindTransport,
			Connector:  c.cfg.Name,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Err:        fmt.Errorf("read response body: %w", err),
		}
	}

	raw := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	class := Classify(resp.StatusCode, body)

	fields := logger.MergeFields(
		logger.HTTPFields(method, target, resp.StatusCode),
		logger.DurationFields("send", time.Since(start)),
	)
	if len(body) > 0 {
		c.bodyLog.LogBody(lctx, BodyEvent{
			Connector:  c.cfg.Name,
			Direction:  Incoming,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       body,
		}, respSens)
	}

	if !class.Success {
		log.Warn("upstream returned non-success status", fields)
		return nil, resp.StatusCode, &Error{
			Kind:       KindClassification,
			Connector:  c.cfg.Name,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
	}
	log.Debug("request completed", fields)

	result := &Result[T]{Empty: class.Empty, Response: raw}
	if class.Empty {
		return result, resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, &result.Data); err != nil {
		return nil, resp.StatusCode, &Error{
			Kind:       KindDeserialization,
			Connector:  c.cfg.Name,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			Err:        err,
		}
	}
	return result, resp.StatusCode, nil
}

// Get sends a GET request. See Send.
func Get[T any](ctx context.Context, c *Connector, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	return Send[T](ctx, c, http.MethodGet, path, call, opts...)
}

// Post sends a POST request with call.PostParams as the JSON body.
func Post[T any](ctx context.Context, c *Connector, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	return Send[T](ctx, c, http.MethodPost, path, call, opts...)
}

// Put sends a PUT request with call.PostParams as the JSON body.
func Put[T any](ctx context.Context, c *Connector, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	return Send[T](ctx, c, http.MethodPut, path, call, opts...)
}

// Patch sends a PATCH request with call.PostParams as the JSON body.
func Patch[T any](ctx context.Context, c *Connector, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	return Send[T](ctx, c, http.MethodPatch, path, call, opts...)
}

// Delete sends a DELETE request.
func Delete[T any](ctx context.Context, c *Connector, path string, call CallConfig, opts ...SendOption) (*Result[T], error) {
	return Send[T](ctx, c, http.MethodDelete, path, call, opts...)
}
