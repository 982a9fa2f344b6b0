// Package apiclient dispatches HTTP requests against a fixed base URL with
// default headers, JSON encoding/decoding, and typed error surfacing.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Config describes an API target: the base URL every endpoint resolves
// against, default headers applied to every request, and optional transport
// and logger overrides.
type Config struct {
	// BaseURL is required and must be absolute. A trailing slash is appended
	// if missing so endpoint resolution never drops or doubles the separator.
	BaseURL string

	// Headers are applied to every request. Per-call headers override them.
	Headers map[string]string

	// HTTPClient performs the actual request. Defaults to a plain
	// *http.Client. Timeouts, proxies, and TLS settings belong here; the
	// dispatcher imposes none of its own.
	HTTPClient Doer

	// Logger receives a debug line per dispatched request. Defaults to a
	// no-op logger.
	Logger *zap.SugaredLogger
}

// Client dispatches requests against one API target. It is immutable after
// New and safe for concurrent use; it keeps no cache or connection state of
// its own.
type Client struct {
	base    *url.URL
	headers map[string]string
	http    Doer
	log     *zap.SugaredLogger
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("base URL is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", cfg.BaseURL)
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{base: base, headers: headers, http: doer, log: log}, nil
}

// result holds one raw response before decoding.
type result struct {
	resp   *http.Response
	raw    []byte
	isJSON bool
}

// decoded returns the response body as a generic JSON value when the
// response declared application/json, or as the raw text otherwise.
func (r *result) decoded() (any, error) {
	if !r.isJSON {
		return string(r.raw), nil
	}
	if len(r.raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.raw, &v); err != nil {
		return nil, fmt.Errorf("decode JSON response: %w", err)
	}
	return v, nil
}

// dispatch performs one request: endpoint resolution, query and header
// merging, body encoding, the network call, and the body read.
func (c *Client) dispatch(ctx context.Context, endpoint string, opts Options) (*result, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	u := c.base.ResolveReference(ref)

	if len(opts.Query) > 0 {
		var q strings.Builder
		for i, p := range opts.Query {
			if i > 0 {
				q.WriteByte('&')
			}
			q.WriteString(url.QueryEscape(p.Key))
			q.WriteByte('=')
			q.WriteString(url.QueryEscape(p.Value))
		}
		if u.RawQuery != "" {
			u.RawQuery += "&" + q.String()
		} else {
			u.RawQuery = q.String()
		}
	}

	var payload io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Merge precedence: built-in content type < client defaults < per-call.
	// Each layer is applied with Set, so later layers win on collision.
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.Modify != nil {
		opts.Modify(req)
	}

	c.log.Debugw("dispatching request", "method", method, "url", u.String())

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures surface unchanged.
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	res := &result{
		resp:   resp,
		raw:    raw,
		isJSON: strings.Contains(resp.Header.Get("Content-Type"), "application/json"),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		body, err := res.decoded()
		if err != nil {
			return nil, err
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       body,
			RawBody:    raw,
			Response:   resp,
		}
	}

	return res, nil
}

// Do performs one request and returns the decoded response body: a generic
// JSON value when the response declares application/json, the raw text
// string otherwise.
func (c *Client) Do(ctx context.Context, endpoint string, opts Options) (any, error) {
	res, err := c.dispatch(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return res.decoded()
}

// Do performs one request and unmarshals a JSON response into T. Responses
// without a JSON content type decode only when T is string or []byte. The
// type is a caller-supplied hint; no validation beyond json.Unmarshal is
// performed against it.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts Options) (T, error) {
	var out T
	res, err := c.dispatch(ctx, endpoint, opts)
	if err != nil {
		return out, err
	}
	if !res.isJSON {
		switch v := any(&out).(type) {
		case *string:
			*v = string(res.raw)
			return out, nil
		case *[]byte:
			*v = res.raw
			return out, nil
		default:
			return out, fmt.Errorf("response content type %q is not JSON", res.resp.Header.Get("Content-Type"))
		}
	}
	if len(res.raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(res.raw, &out); err != nil {
		return out, fmt.Errorf("decode JSON response: %w", err)
	}
	return out, nil
}
