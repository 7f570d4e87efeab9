// Package client talks to the repository manager REST backend using the
// {"data": ...} envelope. Loads decode the data member; saves send the
// envelope and interpret 400 responses carrying an {"errors": [...]} body
// as validation failures rather than connection errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/errormap"
)

// DefaultTimeout applies when no timeout has been configured or synced.
const DefaultTimeout = 60 * time.Second

// statusNoContentIE is the status some browsers report for 204 responses.
const statusNoContentIE = 1223

// Client issues load and save requests.
type Client struct {
	http     *http.Client
	base     *url.URL
	timeout  time.Duration
	username string
	password string
	headers  http.Header
	logger   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the transport. The client is copied so timeouts set
// later do not leak into the caller's instance.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithBaseURL resolves relative request URIs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base == "" {
			return
		}
		if u, err := url.Parse(strings.TrimRight(base, "/") + "/"); err == nil {
			c.base = u
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithBasicAuth sends credentials on every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHeader adds a static request header.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithLogger enables request logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New constructs a Client.
func New(options ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		headers: make(http.Header),
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Timeout returns the active request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Response is a successful save outcome. Data is nil for 204 responses.
type Response struct {
	Status int
	Data   any
}

// Load fetches uri and returns its data object.
func (c *Client) Load(ctx context.Context, uri string) (map[string]any, error) {
	status, body, err := c.do(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, c.statusError(http.MethodGet, uri, status, body)
	}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDecode, http.MethodGet, uri, err)
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrLoadFailure, http.MethodGet, uri)
	}
	return data, nil
}

// Save sends payload wrapped in the data envelope using method (POST or PUT).
// A 400 response, or any 2xx response, carrying an error envelope yields a
// *ValidationError.
func (c *Client) Save(ctx context.Context, method, uri string, payload any) (Response, error) {
	body, err := json.Marshal(map[string]any{"data": payload})
	if err != nil {
		return Response{}, fmt.Errorf("client: encode payload: %w", err)
	}

	status, respBody, err := c.do(ctx, method, uri, body)
	if err != nil {
		return Response{}, err
	}

	switch {
	case status == http.StatusNoContent || status == statusNoContentIE:
		return Response{Status: status}, nil
	case status == http.StatusBadRequest:
		if entries, ok := errormap.Decode(respBody); ok {
			return Response{Status: status}, &ValidationError{Status: status, Entries: entries}
		}
		return Response{Status: status}, c.statusError(method, uri, status, respBody)
	case status < 200 || status > 299:
		return Response{Status: status}, c.statusError(method, uri, status, respBody)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return Response{Status: status}, nil
	}
	var envelope map[string]any
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return Response{Status: status}, fmt.Errorf("%w: %s %s: %v", ErrDecode, method, uri, err)
	}
	if data, ok := envelope["data"]; ok && data != nil {
		return Response{Status: status, Data: data}, nil
	}
	if entries, ok := errormap.Decode(respBody); ok && len(entries) > 0 {
		return Response{Status: status}, &ValidationError{Status: status, Entries: entries}
	}
	return Response{Status: status}, nil
}

// Delete removes the resource at uri.
func (c *Client) Delete(ctx context.Context, uri string) error {
	status, body, err := c.do(ctx, http.MethodDelete, uri, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return c.statusError(http.MethodDelete, uri, status, body)
	}
	return nil
}

// SyncTimeout reads the backend UI settings at uri and adopts its uiTimeout
// (seconds) as the request timeout. On failure the timeout falls back to
// DefaultTimeout and the error is returned.
func (c *Client) SyncTimeout(ctx context.Context, uri string) (time.Duration, error) {
	data, err := c.Load(ctx, uri)
	if err != nil {
		c.timeout = DefaultTimeout
		return c.timeout, fmt.Errorf("client: retrieve rest timeout: %w", err)
	}
	secs, ok := data["uiTimeout"].(float64)
	if !ok || secs <= 0 {
		c.timeout = DefaultTimeout
		return c.timeout, nil
	}
	c.timeout = time.Duration(secs * float64(time.Second))
	return c.timeout, nil
}

func (c *Client) resolve(uri string) (string, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("client: invalid uri %q: %w", uri, err)
	}
	if ref.IsAbs() || c.base == nil {
		return ref.String(), nil
	}
	return c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref.Path, "/"), RawQuery: ref.RawQuery}).String(), nil
}

func (c *Client) do(ctx context.Context, method, uri string, body []byte) (int, []byte, error) {
	target, err := c.resolve(uri)
	if err != nil {
		return 0, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Str("method", method).Str("url", target).Err(err).Msg("request failed")
		return 0, nil, &ConnectionError{
			Method:  method,
			URL:     target,
			Status:  StatusNoResponse,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &ConnectionError{
			Method:  method,
			URL:     target,
			Status:  StatusNoResponse,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request complete")
	return resp.StatusCode, data, nil
}

func (c *Client) statusError(method, uri string, status int, body []byte) error {
	return &ConnectionError{
		Method:     method,
		URL:        uri,
		Status:     status,
		StatusText: http.StatusText(status),
		Detail:     serverDetail(body),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
