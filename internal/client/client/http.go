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

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 << 10

// HTTPClient talks to the penguin backend over its JSON REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

type Option func(*HTTPClient)

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithRateLimit paces outbound requests to rps per second. rps <= 0 means
// unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type authResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &models.Session{AccessToken: resp.AccessToken, User: resp.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/users", "", nil, in, &resp); err != nil {
		return nil, err
	}
	return &models.Session{AccessToken: resp.AccessToken, User: resp.User}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return &APIError{Status: http.StatusOK, Message: "health status " + resp.Status, Err: ErrUnavailable}
	}
	return nil
}

func (c *HTTPClient) ListPenguins(ctx context.Context, token string, q models.Query) (*models.Page, error) {
	q = q.Normalize()

	params := url.Values{}
	if q.SearchQuery != "" {
		params.Set("search", q.SearchQuery)
	}
	params.Set("gender", string(q.Gender))
	params.Set("sortField", q.SortField)
	params.Set("sortDirection", string(q.SortDirection))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))

	var page models.Page
	if err := c.do(ctx, http.MethodGet, "/penguins", token, params, nil, &page); err != nil {
		return nil, err
	}
	if page.Penguins == nil {
		page.Penguins = []models.Penguin{}
	}
	return &page, nil
}

func (c *HTTPClient) CreatePenguin(ctx context.Context, token string, in models.PenguinInput) (*models.Penguin, error) {
	var p models.Penguin
	if err := c.do(ctx, http.MethodPost, "/penguins", token, nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdatePenguin(ctx context.Context, token string, id int64, in models.PenguinInput) (*models.Penguin, error) {
	var p models.Penguin
	if err := c.do(ctx, http.MethodPatch, penguinPath(id), token, nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePenguin(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, penguinPath(id), token, nil, nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func penguinPath(id int64) string {
	return "/penguins/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) endpoint(path string, params url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// do performs one exchange. body (if not nil) is sent as JSON; a 2xx
// response is decoded into out (if not nil). Anything else becomes an
// *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, params url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err), Err: ErrBackend}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var e errorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		e.Message = ""
	}
	return statusError(resp.StatusCode, strings.TrimSpace(e.Message))
}
