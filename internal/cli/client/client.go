package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/lvyanru/coractl/internal/cli/storage"
)

// APIClient wraps Hertz Client for HTTP communication with the Cora backend
type APIClient struct {
	client  *client.Client // bounded by timeout
	stream  *client.Client // no read deadline; /generate answers run long
	server  string
	store   storage.Storage
	device  DeviceContext
	timeout time.Duration
}

// Option configures an APIClient
type Option func(*APIClient)

// WithStorage sets where the access/refresh token pair is kept. Without it
// tokens live only as long as the client.
func WithStorage(s storage.Storage) Option {
	return func(c *APIClient) { c.store = s }
}

// WithDevice sets the device context attached to /generate requests
func WithDevice(d DeviceContext) Option {
	return func(c *APIClient) { c.device = d }
}

// WithTimeout bounds every request except the /generate answer stream
func WithTimeout(d time.Duration) Option {
	return func(c *APIClient) { c.timeout = d }
}

// NewAPIClient creates a new API client
func NewAPIClient(server string, opts ...Option) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c := &APIClient{
		server:  normalizedServer,
		store:   storage.NewMemoryStorage(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc, err := newHertzClient(client.WithClientReadTimeout(c.timeout))
	if err != nil {
		return nil, err
	}
	c.client = hc

	// netpoll panics on streamed bodies; /generate needs the standard dialer
	sc, err := newHertzClient(client.WithResponseBodyStream(true))
	if err != nil {
		return nil, err
	}
	c.stream = sc

	return c, nil
}

func newHertzClient(opts ...config.ClientOption) (*client.Client, error) {
	opts = append([]config.ClientOption{
		client.WithDialTimeout(10 * time.Second),
		client.WithMaxIdleConnDuration(60 * time.Second),
		client.WithDialer(standard.NewDialer()),
	}, opts...)
	hc, err := client.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	hc.Use(requestLogger)
	return hc, nil
}

// Server returns the normalized backend base URL
func (c *APIClient) Server() string {
	return c.server
}

// normalizeServerURL adds a missing scheme and strips the trailing slash. The
// path is kept so the backend can live under a prefix.
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/")), nil
}

// requestLogger stamps each request with an X-Request-ID and logs the outcome
func requestLogger(next client.Endpoint) client.Endpoint {
	return func(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
		requestID := uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		err := next(ctx, req, resp)
		attrs := []any{
			"request_id", requestID,
			"method", string(req.Method()),
			"path", string(req.URI().Path()),
			"latency", time.Since(start),
		}

		switch status := resp.StatusCode(); {
		case err != nil:
			slog.ErrorContext(ctx, "request failed", append(attrs, "error", err)...)
		case status >= 500:
			slog.ErrorContext(ctx, "request completed", append(attrs, "status", status)...)
		case status >= 400:
			slog.WarnContext(ctx, "request completed", append(attrs, "status", status)...)
		default:
			slog.DebugContext(ctx, "request completed", append(attrs, "status", status)...)
		}
		return err
	}
}

type errorMode int

const (
	// detailOrDefault reads the JSON detail field, else the call's default
	detailOrDefault errorMode = iota
	// defaultOnly always reports the call's default message
	defaultOnly
	// bodyText reports the raw response body, else the call's default
	bodyText
)

// call describes one backend round trip
type call struct {
	op       string // "fetch users"; used for transport failures
	method   string
	path     string
	query    url.Values
	json     any
	form     *formBody
	auth     bool
	mode     errorMode
	fallback string

	// inspect sees the 2xx response before it is released
	inspect func(resp *protocol.Response)
}

// prepare builds the request; the caller releases req
func (c *APIClient) prepare(cl *call, req *protocol.Request) error {
	uri := c.server + cl.path
	if len(cl.query) > 0 {
		uri += "?" + cl.query.Encode()
	}
	req.SetMethod(cl.method)
	req.SetRequestURI(uri)

	switch {
	case cl.form != nil:
		body, contentType, err := cl.form.encode()
		if err != nil {
			return err
		}
		req.Header.SetContentTypeBytes([]byte(contentType))
		req.SetBody(body)
	case cl.json != nil:
		body, err := sonic.Marshal(cl.json)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationJSON))
		req.SetBody(body)
	default:
		req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationJSON))
	}

	if cl.auth {
		c.attachCookies(req)
	}
	return nil
}

// send performs the call and returns the raw 2xx body with its content type
func (c *APIClient) send(ctx context.Context, cl *call) ([]byte, string, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	if err := c.prepare(cl, req); err != nil {
		return nil, "", &RequestError{Op: cl.op, Err: err}
	}
	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, "", &RequestError{Op: cl.op, Err: err}
	}

	body := append([]byte(nil), resp.Body()...)
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return nil, "", newAPIError(status, body, cl.mode, cl.fallback)
	}
	if cl.inspect != nil {
		cl.inspect(resp)
	}
	return body, string(resp.Header.ContentType()), nil
}

// do performs the call and decodes a JSON body into out when out is non-nil
func (c *APIClient) do(ctx context.Context, cl *call, out any) error {
	body, _, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return &RequestError{Op: cl.op, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return nil
}

// attachCookies sends the stored token pair the way a browser sends its
// credentials on include-credentials requests
func (c *APIClient) attachCookies(req *protocol.Request) {
	for _, key := range []string{storage.KeyAccessToken, storage.KeyRefreshToken} {
		v, err := c.store.Get(key)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Warn("failed to read token", "key", key, "error", err)
			}
			continue
		}
		req.Header.SetCookie(key, v)
	}
}

// cookieTokens returns the token pair found in Set-Cookie headers
func cookieTokens(resp *protocol.Response) map[string]string {
	tokens := make(map[string]string, 2)
	for _, key := range []string{storage.KeyAccessToken, storage.KeyRefreshToken} {
		ck := protocol.AcquireCookie()
		ck.SetKey(key)
		if resp.Header.Cookie(ck) && len(ck.Value()) > 0 {
			tokens[key] = string(ck.Value())
		}
		protocol.ReleaseCookie(ck)
	}
	return tokens
}

func (c *APIClient) saveTokens(tokens map[string]string) {
	for key, value := range tokens {
		if value == "" {
			continue
		}
		if err := c.store.Set(key, value); err != nil {
			slog.Warn("failed to store token", "key", key, "error", err)
		}
	}
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
