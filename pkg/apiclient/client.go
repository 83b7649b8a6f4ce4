package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/golid-ai/dashkit/pkg/broadcast"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
	"github.com/golid-ai/dashkit/pkg/tokens"
)

const (
	APIVersion = "v1"

	maxErrorBody = 64 << 10
)

// Client calls the versioned JSON API. It injects the bearer token, decodes
// responses, translates failures into *Error or *TransportError and
// refreshes the access token once when an authenticated call gets a 401.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	timeout      time.Duration
	tokens       tokens.Store
	logger       *slog.Logger
	expired      *broadcast.MemoryBroadcaster[SessionExpired]
	refreshes    singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. WithTimeout is ignored
// when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds regular calls. Event streams are not affected.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithTokenStore(s tokens.Store) Option {
	return func(c *Client) {
		if s != nil {
			c.tokens = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API served at baseURL (without the /api/v1
// prefix). Tokens default to an in-memory store.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens.NewMemoryStore(),
		logger:  logger.Discard(),
		expired: broadcast.NewMemoryBroadcaster[SessionExpired](1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	c.streamClient = &http.Client{
		Transport:     c.httpClient.Transport,
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}
	c.logger = c.logger.With(logger.Component("apiclient"))
	return c
}

// Options describes a single API call.
type Options struct {
	Method   string
	Body     any
	Header   http.Header
	SkipAuth bool
}

// CallOption adjusts the Options used by the Get/Post/... helpers.
type CallOption func(*Options)

// SkipAuth sends the call without the Authorization header and disables the
// refresh-on-401 handling.
func SkipAuth() CallOption {
	return func(o *Options) { o.SkipAuth = true }
}

func WithHeader(key, value string) CallOption {
	return func(o *Options) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Set(key, value)
	}
}

// Tokens returns the store the client reads bearer tokens from.
func (c *Client) Tokens() tokens.Store {
	return c.tokens
}

// AccessToken returns the stored access token, or "" when there is none or
// the store cannot be read.
func (c *Client) AccessToken(ctx context.Context) string {
	return c.loadTokens(ctx).Access
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionExpired subscribes to session-expired signals.
func (c *Client) SessionExpired(ctx context.Context) broadcast.Subscriber[SessionExpired] {
	return c.expired.Subscribe(ctx)
}

// Close stops session-expired delivery.
func (c *Client) Close() error {
	return c.expired.Close()
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.Do(ctx, path, buildOptions(http.MethodGet, nil, opts), out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, path, buildOptions(http.MethodPost, body, opts), out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, path, buildOptions(http.MethodPut, body, opts), out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, path, buildOptions(http.MethodPatch, body, opts), out)
}

func (c *Client) Delete(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.Do(ctx, path, buildOptions(http.MethodDelete, nil, opts), out)
}

func buildOptions(method string, body any, opts []CallOption) Options {
	o := Options{Method: method, Body: body}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Do performs a call against path (relative to /api/v1) and decodes a JSON
// response into out when out is non-nil. A 204 leaves out untouched.
func (c *Client) Do(ctx context.Context, path string, opts Options, out any) error {
	return c.do(ctx, path, opts, out, false)
}

func (c *Client) do(ctx context.Context, path string, opts Options, out any, retried bool) error {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}

	req, err := c.newRequest(ctx, path, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.WarnContext(ctx, "api call failed",
			logger.Endpoint(opts.Method, path),
			logger.Error(err),
		)
		return &TransportError{Err: err}
	}
	defer closeBody(resp.Body)

	c.logger.DebugContext(ctx, "api call",
		logger.Endpoint(opts.Method, path),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized && !opts.SkipAuth {
		if !retried && c.loadTokens(ctx).Refresh != "" {
			if err := c.RefreshTokens(ctx); err == nil {
				closeBody(resp.Body)
				return c.do(ctx, path, opts, out, true)
			}
		}
		c.expireSession(ctx, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseError(resp)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.logger.WarnContext(ctx, "api error",
				logger.Endpoint(opts.Method, path),
				logger.Status(apiErr.Status),
				logger.RequestID(apiErr.RequestID),
				slog.String("code", apiErr.Code),
			)
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string, opts Options) (*http.Request, error) {
	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, errors.Join(ErrEncodeBody, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}

	for k, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !opts.SkipAuth {
		if access := c.loadTokens(ctx).Access; access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}
	requestid.Apply(req)

	return req, nil
}

// OpenStream issues an unauthenticated GET for a long-lived event stream.
// The caller owns the returned body. Non-200 responses are translated like
// any other failed call.
func (c *Client) OpenStream(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.endpoint(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	requestid.Apply(req)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer closeBody(resp.Body)
		return nil, parseError(resp)
	}
	return resp, nil
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + "/api/" + APIVersion + path
}

func (c *Client) loadTokens(ctx context.Context) tokens.Pair {
	pair, err := c.tokens.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to load tokens", logger.Error(err))
		return tokens.Pair{}
	}
	return pair
}

// parseError reads the body once and never fails: anything unparseable
// degrades to the status text message.
func parseError(resp *http.Response) *Error {
	apiErr := &Error{
		Message:   "Request failed: " + http.StatusText(resp.StatusCode),
		Code:      CodeUnknown,
		Status:    resp.StatusCode,
		RequestID: requestid.FromResponse(resp),
	}

	// An unreadable or unparsable body with a status outside the standard
	// set usually comes from a proxy or CDN in front of the API.
	unreadable := func() *Error {
		if http.StatusText(resp.StatusCode) == "" {
			apiErr.Message = MessageServerUnreachable
			apiErr.Code = CodeServerUnreachable
		}
		return apiErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return unreadable()
	}
	text := strings.TrimSpace(string(raw))

	switch {
	case strings.Contains(resp.Header.Get("Content-Type"), "application/json") && text != "":
		var payload struct {
			Message string            `json:"message"`
			Error   string            `json:"error"`
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return unreadable()
		}
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
		if payload.Code != "" {
			apiErr.Code = payload.Code
		}
		apiErr.Details = payload.Details
	case looksLikeHTML(text):
		apiErr.Message = MessageServerUnreachable
		apiErr.Code = CodeServerUnreachable
	}

	return apiErr
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text[:min(len(text), 16)])
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

func closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
