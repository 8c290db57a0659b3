// Package apiclient is the single HTTP entry point to the donation backend.
// It attaches the stored bearer credential to every request and turns a 401
// into a credential purge plus an UnauthorizedEvent for subscribers.
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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 15 * time.Second
	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 4 << 20
)

// Credentials is the source of the bearer token.
type Credentials interface {
	Read() (string, bool)
	Clear() error
}

// Recorder receives per-request measurements.
type Recorder interface {
	RecordRequest(method string, statusCode int, d time.Duration)
	RecordUnauthorized()
}

// UnauthorizedEvent is emitted after a 401 has cleared the credential.
type UnauthorizedEvent struct {
	Method string
	Path   string
}

// Request describes one call. Retry marks a request that is itself a
// repeat of an earlier one; a 401 on it does not purge the credential again.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Retry  bool
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	recorder   Recorder
	log        *logrus.Entry

	mu           sync.RWMutex
	unauthorized []func(UnauthorizedEvent)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the client's own http.Client.
// Apply it after WithHTTPClient if both are used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		var hc http.Client
		if c.httpClient != nil {
			hc = *c.httpClient
		}
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = logrus.NewEntry(l).WithField("component", "apiclient") }
}

// New builds a client rooted at baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute, got %q", baseURL)
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		log:        logrus.WithField("component", "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c, nil
}

// OnUnauthorized registers fn to run after a 401 purged the credential.
// Handlers run synchronously, before the failing call returns.
func (c *Client) OnUnauthorized(fn func(UnauthorizedEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unauthorized = append(c.unauthorized, fn)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Do sends req and decodes a successful JSON response into out (if non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.record(req.Method, 0, elapsed)
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.Path,
		}).WithError(err).Warn("api request failed")
		return &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()
	c.record(req.Method, resp.StatusCode, elapsed)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, StatusCode: resp.StatusCode, Err: err}
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"status":     resp.StatusCode,
		"duration":   elapsed,
		"request_id": httpReq.Header.Get("X-Request-ID"),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Kind:       kindForStatus(resp.StatusCode),
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
		entry.WithField("message", apiErr.Message).Info("api request rejected")
		if apiErr.Kind == KindAuth && !req.Retry {
			c.handleUnauthorized(req)
		}
		return apiErr
	}
	entry.Debug("api request ok")

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Method: req.Method, Path: req.Path, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if tok, ok := c.creds.Read(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return httpReq, nil
}

// handleUnauthorized clears the credential and notifies subscribers.
func (c *Client) handleUnauthorized(req Request) {
	if c.creds != nil {
		if err := c.creds.Clear(); err != nil {
			c.log.WithError(err).Error("failed to clear credential after 401")
		}
	}
	if c.recorder != nil {
		c.recorder.RecordUnauthorized()
	}

	c.mu.RLock()
	handlers := make([]func(UnauthorizedEvent), len(c.unauthorized))
	copy(handlers, c.unauthorized)
	c.mu.RUnlock()

	ev := UnauthorizedEvent{Method: req.Method, Path: req.Path}
	for _, fn := range handlers {
		fn(ev)
	}
}

func (c *Client) record(method string, status int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordRequest(method, status, d)
	}
}

// serverMessage pulls {"message": ...} or {"error": ...} out of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if s, ok := payload.Error.(string); ok {
		return s
	}
	return ""
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}
