package claims

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the API answers 404 for a single claim.
var ErrNotFound = errors.New("claim not found")

// Source defines how claims are fetched. *Client and *CachedSource both
// implement it.
type Source interface {
	FetchClaims(ctx context.Context) ([]Claim, error)
	FetchClaim(ctx context.Context, id string) (Claim, error)
}

var _ Source = (*Client)(nil)

// Client talks to the claims HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	DefaultAPIURL    = "http://localhost:8001"
	defaultUserAgent = "claimdeck/0.1"
	requestTimeout   = 5 * time.Second
	claimsPath       = "/api/v1/claims"
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithLogger routes request diagnostics to logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API rooted at apiURL. A bare host:port
// is accepted and assumed to be plain http.
func NewClient(apiURL string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL reports the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchClaims retrieves the full claims collection.
func (c *Client) FetchClaims(ctx context.Context) ([]Claim, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Claim
	if err := c.do(ctx, http.MethodGet, claimsPath, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []Claim{}
	}
	return payload, nil
}

// FetchClaim retrieves one claim by id.
func (c *Client) FetchClaim(ctx context.Context, id string) (Claim, error) {
	if c == nil {
		return Claim{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Claim{}, fmt.Errorf("claim id required")
	}
	var payload Claim
	if err := c.do(ctx, http.MethodGet, claimsPath+"/"+url.PathEscape(id), &payload); err != nil {
		return Claim{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
