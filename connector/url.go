package connector

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	return u, nil
}

// BuildURL resolves pathToAppend against baseOverride, or against the
// connector's base URL when baseOverride is empty. With
// addSurroundingSlashes the path is wrapped in "/" before resolution, so
// "items" becomes "/items/". An empty path returns the base unchanged.
//
// Resolution follows RFC 3986: a path without a leading slash replaces
// the last segment of the base path.
func (c *Connector) BuildURL(baseOverride, pathToAppend string, addSurroundingSlashes bool) (*url.URL, error) {
	base := c.base
	if baseOverride != "" {
		var err error
		if base, err = parseBase(baseOverride); err != nil {
			return nil, &Error{Kind: KindInvalidPath, Connector: c.cfg.Name, Err: err}
		}
	}
	u, err := ResolvePath(base, pathToAppend, addSurroundingSlashes)
	if err != nil {
		return nil, &Error{Kind: KindInvalidPath, Connector: c.cfg.Name, Err: err}
	}
	return u, nil
}

// ResolvePath is the connector-independent form of BuildURL.
func ResolvePath(base *url.URL, pathToAppend string, addSurroundingSlashes bool) (*url.URL, error) {
	if pathToAppend == "" {
		u := *base
		return &u, nil
	}
	if addSurroundingSlashes {
		if !strings.HasPrefix(pathToAppend, "/") {
			pathToAppend = "/" + pathToAppend
		}
		if !strings.HasSuffix(pathToAppend, "/") {
			pathToAppend += "/"
		}
	}
	ref, err := url.Parse(pathToAppend)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", pathToAppend, err)
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("path %q resolves to unsupported scheme %q", pathToAppend, u.Scheme)
	}
	return u, nil
}

// BuildQuery returns a copy of u with params appended to its query.
// Keys are sorted and written verbatim, so reserved characters such as
// "$" or "[]" reach the server unchanged; values are query-escaped and a
// nil value encodes as "key=". An empty params map still yields a
// trailing "?".
func BuildQuery(u *url.URL, params map[string]*string) *url.URL {
	out := *u
	out.ForceQuery = true

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		if v := params[k]; v != nil {
			sb.WriteString(url.QueryEscape(*v))
		}
	}
	out.RawQuery = sb.String()
	return &out
}
