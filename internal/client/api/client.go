package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// TokenSource yields the stored bearer token, or "" when signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    logging.Logger
}

type Client struct {
	http   *resty.Client
	tokens TokenSource
	log    logging.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)

	Auth          *AuthClient
	Users         *UsersClient
	Drifts        *DriftsClient
	Comments      *CommentsClient
	Notifications *NotificationsClient
	Health        *HealthClient
}

func New(opts Options, tokens TokenSource) *Client {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	c := &Client{tokens: tokens, log: log}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		OnBeforeRequest(c.authorize).
		OnAfterResponse(c.inspect)

	if opts.Timeout > 0 {
		c.http.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		c.http.SetHeader("User-Agent", opts.UserAgent)
	}

	c.Auth = &AuthClient{c: c}
	c.Users = &UsersClient{c: c}
	c.Drifts = &DriftsClient{c: c}
	c.Comments = &CommentsClient{c: c}
	c.Notifications = &NotificationsClient{c: c}
	c.Health = &HealthClient{c: c}

	return c
}

// OnUnauthorized registers the handler run on every 401 response.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.SetAuthToken(token)
		}
	}

	req.SetHeader(RequestIDHeader, uuid.NewString())
	return nil
}

func (c *Client) inspect(_ *resty.Client, resp *resty.Response) error {
	ctx := resp.Request.Context()

	c.log.Debug(ctx, "api call",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"request_id", resp.Request.Header.Get(RequestIDHeader),
		"took", resp.Time(),
	)

	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()

	if fn != nil {
		c.log.Info(ctx, "session rejected by server")
		fn(ctx)
	}
	return nil
}

// do issues one request. A nil body or out is skipped.
func (c *Client) do(ctx context.Context, method, path string, body any, query map[string]string, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if resp != nil && resp.IsError() {
		return fromResponse(resp)
	}
	if err != nil {
		return fromFailure(err)
	}
	return nil
}
