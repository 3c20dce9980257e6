package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/logging"
)

const (
	DefaultBaseURL = "https://api.beefboard.mooo.com/v1"
	DefaultTimeout = 3 * time.Second

	TokenHeader     = "x-access-token"
	RequestIDHeader = "X-Request-Id"

	maxBodySize = 32 << 20
)

// HTTPClient implements Client over net/http. It is safe for concurrent use.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenStore
	timeout time.Duration
	log     logging.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option { return func(c *HTTPClient) { c.http = hc } }

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option { return func(c *HTTPClient) { c.log = l } }

func WithMetrics(m *Metrics) Option { return func(c *HTTPClient) { c.metrics = m } }

func WithTracer(t trace.Tracer) Option { return func(c *HTTPClient) { c.tracer = t } }

// NewHTTPClient creates a client for the API rooted at baseURL, which
// includes the version segment (".../v1").
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, baseURL)
	}

	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}

	c := &HTTPClient{
		base:    u,
		http:    &http.Client{},
		tokens:  tokens,
		timeout: DefaultTimeout,
		log:     logging.Nop(),
		tracer:  otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	accept      string
	auth        bool
	progress    *progressReader
}

func jsonRequest(op, method, path string, auth bool, v any) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("%s: encode body: %w", op, err)
	}
	return request{op: op, method: method, path: path, body: b, contentType: "application/json", auth: auth}, nil
}

func (c *HTTPClient) endpoint(segments ...string) string {
	u := *c.base
	raw := u.EscapedPath()
	for _, s := range segments {
		u.Path += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.RawPath = raw
	return u.String()
}

// call sends r and hands a 2xx body to decode. Metrics and the span cover the
// round trip and decoding.
func (c *HTTPClient) call(ctx context.Context, r request, decode func([]byte) error) (err error) {
	reqID := uuid.NewString()
	log := c.log.With("op", r.op, "request_id", reqID)

	ctx, span := c.tracer.Start(ctx, "beefboard."+r.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.method),
			attribute.String("http.path", r.path),
			attribute.String("request.id", reqID),
		))
	start := time.Now()

	defer func() {
		c.metrics.observe(r.op, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Kind(err).Error())
			log.Debug(ctx, "api call failed", "error", err)
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
		if r.progress != nil {
			body = r.progress
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.path, body)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", r.op, ErrUnsupportedURL, err)
	}
	if r.body != nil {
		req.ContentLength = int64(len(r.body))
		req.Header.Set("Content-Type", r.contentType)
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set(RequestIDHeader, reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if r.auth && c.tokens != nil {
		token, terr := c.tokens.Token(ctx)
		if terr != nil {
			log.Warn(ctx, "token unavailable, sending unauthenticated", "error", terr)
		} else if token != "" {
			req.Header.Set(TokenHeader, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", r.op, transportError(err), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: %w: %w", r.op, transportError(err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w (status %d)", r.op, statusError(resp.StatusCode), resp.StatusCode)
	}

	if decode == nil {
		return nil
	}
	if err := decode(payload); err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	return nil
}

func decodeJSON(v any) func([]byte) error {
	return func(b []byte) error {
		if err := json.Unmarshal(b, v); err != nil {
			return invalidResponse(err)
		}
		return nil
	}
}

// Login exchanges credentials for a session token and stores it. Any
// previously stored token is discarded first.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	if err := c.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("login: clear token: %w", err)
	}

	r, err := jsonRequest("login", http.MethodPut, c.endpoint("me"), false,
		credentialsBody{Username: username, Password: password})
	if err != nil {
		return err
	}

	var body tokenBody
	if err := c.call(ctx, r, decodeJSON(&body)); err != nil {
		return err
	}
	if body.Token == nil || *body.Token == "" {
		return fmt.Errorf("login: %w", invalidResponse(missing("token")))
	}

	if err := c.tokens.SetToken(ctx, *body.Token); err != nil {
		return fmt.Errorf("login: store token: %w", err)
	}
	return nil
}

// Logout ends the server session when a token is stored. The local token is
// cleared whatever the outcome; the returned error is informational.
func (c *HTTPClient) Logout(ctx context.Context) error {
	token, err := c.tokens.Token(ctx)
	if err != nil || token == "" {
		return c.tokens.ClearToken(ctx)
	}

	callErr := c.call(ctx, request{op: "logout", method: http.MethodDelete, path: c.endpoint("me"), auth: true}, nil)
	if err := c.tokens.ClearToken(ctx); err != nil {
		return errors.Join(callErr, fmt.Errorf("logout: clear token: %w", err))
	}
	return callErr
}

func (c *HTTPClient) GetAuth(ctx context.Context) (*models.User, error) {
	var u *models.User
	err := c.call(ctx, request{op: "get_auth", method: http.MethodGet, path: c.endpoint("me"), auth: true},
		func(b []byte) (err error) {
			u, err = decodeUser(b)
			return err
		})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u *models.User
	err := c.call(ctx, request{op: "get_user", method: http.MethodGet, path: c.endpoint("accounts", username), auth: true},
		func(b []byte) (err error) {
			u, err = decodeUser(b)
			return err
		})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.call(ctx, request{op: "get_posts", method: http.MethodGet, path: c.endpoint("posts"), auth: true},
		func(b []byte) (err error) {
			posts, err = decodePosts(b)
			return err
		})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p *models.Post
	err := c.call(ctx, request{op: "get_post", method: http.MethodGet, path: c.endpoint("posts", id), auth: true},
		func(b []byte) (err error) {
			p, err = decodePost(b)
			return err
		})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Register creates an account. The boolean is the server's success flag.
func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (bool, error) {
	r, err := jsonRequest("register", http.MethodPost, c.endpoint("accounts"), false, reg)
	if err != nil {
		return false, err
	}

	var body successBody
	if err := c.call(ctx, r, decodeJSON(&body)); err != nil {
		return false, err
	}
	if body.Success == nil {
		return false, fmt.Errorf("register: %w", invalidResponse(missing("success")))
	}
	return *body.Success, nil
}

// SetPinned pins or unpins a post. When the response carries a token it
// replaces the stored one.
func (c *HTTPClient) SetPinned(ctx context.Context, id string, pinned bool) error {
	r, err := jsonRequest("set_pinned", http.MethodPut, c.endpoint("posts", id), true, pinBody{Pinned: pinned})
	if err != nil {
		return err
	}

	var body tokenBody
	if err := c.call(ctx, r, decodeJSON(&body)); err != nil {
		return err
	}
	if body.Token != nil && *body.Token != "" {
		if err := c.tokens.SetToken(ctx, *body.Token); err != nil {
			return fmt.Errorf("set_pinned: store token: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	return c.call(ctx, request{op: "delete_post", method: http.MethodDelete, path: c.endpoint("posts", id), auth: true}, nil)
}

// FetchImage downloads the n-th image of a post. Images are public, so no
// token is sent.
func (c *HTTPClient) FetchImage(ctx context.Context, postID string, n int) ([]byte, error) {
	var data []byte
	err := c.call(ctx, request{op: "fetch_image", method: http.MethodGet, path: c.ImageURL(postID, n), accept: "image/*"},
		func(b []byte) error {
			data = b
			return nil
		})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) ImageURL(postID string, n int) string {
	return c.endpoint("posts", postID, "images", strconv.Itoa(n))
}
