// Package customhostnames provides a certprovider.Provider backed by a SaaS
// custom-hostname API: the platform's edge terminates TLS for tenant hostnames
// and issues their certificates once the hostname points at it.
package customhostnames

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"domainctl/pkg/certprovider"
	"domainctl/pkg/domain"
	"domainctl/pkg/logger"
	"domainctl/pkg/serrors"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Options configures the client.
type Options struct {
	BaseURL string
	ZoneID  string
	Token   string
}

// Client talks to the custom-hostname REST API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient must carry an explicit timeout
	baseURL    string
	zoneID     string
	token      string
	limiter    certprovider.Limiter // limiter is optional
}

// Ensure Client conforms to the certprovider.Provider interface at compile time.
var _ certprovider.Provider = (*Client)(nil)

// New constructs a Client. limiter may be nil.
func New(httpClient *http.Client, options Options, limiter certprovider.Limiter) *Client {
	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		zoneID:     options.ZoneID,
		token:      options.Token,
		limiter:    limiter,
	}
}

// ParseRateLimit extracts the rate-limit budget from response headers. A
// response without rate-limit headers yields the zero status.
func ParseRateLimit(h http.Header) (certprovider.RateLimitStatus, error) {
	resetStr := h.Get("X-RateLimit-Reset")
	if resetStr == "" {
		return certprovider.RateLimitStatus{}, nil
	}

	atoi := func(s string) int {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}

		return 0
	}

	reset, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return certprovider.RateLimitStatus{}, fmt.Errorf("could not parse reset at: %w", err)
	}

	return certprovider.RateLimitStatus{
		Limit:     atoi(h.Get("X-RateLimit-Limit")),
		Remaining: atoi(h.Get("X-RateLimit-Remaining")),
		ResetAt:   time.Unix(reset, 0).UTC(),
	}, nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

func (e envelope) message(body []byte) string {
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}

	return strings.TrimSpace(string(body))
}

type customHostname struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	SSL      struct {
		Status           string `json:"status"`
		ValidationErrors []struct {
			Message string `json:"message"`
		} `json:"validation_errors"`
	} `json:"ssl"`
}

func (c *Client) Name() domain.SSLProvider { return domain.SSLProviderPrimary }

// CreateHostname registers hostname with DV certificate issuance over HTTP
// validation. When the hostname already exists in the zone (a previous attempt
// succeeded but its handle was lost) the existing binding is returned.
func (c *Client) CreateHostname(ctx context.Context, hostname string) (domain.ProviderHandle, error) {
	type sslReq struct {
		Method string `json:"method"`
		Type   string `json:"type"`
	}
	body, err := json.Marshal(struct {
		Hostname string `json:"hostname"`
		SSL      sslReq `json:"ssl"`
	}{Hostname: hostname, SSL: sslReq{Method: "http", Type: "dv"}})
	if err != nil {
		return domain.ProviderHandle{}, fmt.Errorf("could not marshal request: %w", err)
	}

	code, env, raw, err := c.do(ctx, http.MethodPost, c.zonePath(), body)
	if err != nil {
		return domain.ProviderHandle{}, err
	}

	switch {
	case code == http.StatusConflict:
		return c.existing(ctx, hostname)
	case code == http.StatusBadRequest, code == http.StatusForbidden, code == http.StatusUnprocessableEntity:
		return domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "hostname rejected: %s", env.message(raw))
	case code < 200 || code >= 300:
		return domain.ProviderHandle{}, fmt.Errorf("create failed with %d: %s", code, env.message(raw))
	}

	var ch customHostname
	if err := json.Unmarshal(env.Result, &ch); err != nil {
		return domain.ProviderHandle{}, fmt.Errorf("could not decode response: %w", err)
	}
	if ch.ID == "" {
		return domain.ProviderHandle{}, fmt.Errorf("create returned no id: %s", env.message(raw))
	}

	return domain.ProviderHandle{Provider: c.Name(), ID: ch.ID}, nil
}

func (c *Client) existing(ctx context.Context, hostname string) (domain.ProviderHandle, error) {
	code, env, raw, err := c.do(ctx, http.MethodGet, c.zonePath()+"?hostname="+url.QueryEscape(hostname), nil)
	if err != nil {
		return domain.ProviderHandle{}, err
	}
	if code < 200 || code >= 300 {
		return domain.ProviderHandle{}, fmt.Errorf("lookup failed with %d: %s", code, env.message(raw))
	}

	var found []customHostname
	if err := json.Unmarshal(env.Result, &found); err != nil {
		return domain.ProviderHandle{}, fmt.Errorf("could not decode response: %w", err)
	}
	for _, ch := range found {
		if strings.EqualFold(ch.Hostname, hostname) {
			return domain.ProviderHandle{Provider: c.Name(), ID: ch.ID}, nil
		}
	}

	return domain.ProviderHandle{}, serrors.With(serrors.ErrRejected, "hostname %s is bound to another zone", hostname)
}

// QueryStatus maps the binding's certificate status. A binding that vanished
// upstream is reported as an error state.
func (c *Client) QueryStatus(ctx context.Context, handle domain.ProviderHandle) (certprovider.Status, error) {
	code, env, raw, err := c.do(ctx, http.MethodGet, c.zonePath()+"/"+url.PathEscape(handle.ID), nil)
	if err != nil {
		return certprovider.Status{}, err
	}
	if code == http.StatusNotFound {
		return certprovider.Status{State: certprovider.StateError, Message: "custom hostname not found"}, nil
	}
	if code < 200 || code >= 300 {
		return certprovider.Status{}, fmt.Errorf("status query failed with %d: %s", code, env.message(raw))
	}

	var ch customHostname
	if err := json.Unmarshal(env.Result, &ch); err != nil {
		return certprovider.Status{}, fmt.Errorf("could not decode response: %w", err)
	}

	return sslStatus(ch), nil
}

func sslStatus(ch customHostname) certprovider.Status {
	s := ch.SSL.Status
	switch {
	case s == "active":
		return certprovider.Status{State: certprovider.StateActive}
	case strings.HasSuffix(s, "_timed_out"), s == "deleted", s == "pending_deletion", s == "expired":
		msg := s
		if len(ch.SSL.ValidationErrors) > 0 {
			msg = s + ": " + ch.SSL.ValidationErrors[0].Message
		}

		return certprovider.Status{State: certprovider.StateError, Message: msg}
	default:
		// initializing, pending_validation, pending_issuance, pending_deployment...
		return certprovider.Status{State: certprovider.StatePending}
	}
}

func (c *Client) DeleteHostname(ctx context.Context, handle domain.ProviderHandle) error {
	code, env, raw, err := c.do(ctx, http.MethodDelete, c.zonePath()+"/"+url.PathEscape(handle.ID), nil)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return nil
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("delete failed with %d: %s", code, env.message(raw))
	}

	return nil
}

func (c *Client) zonePath() string {
	return "/zones/" + url.PathEscape(c.zoneID) + "/custom_hostnames"
}

// do sends one request inside the rate-limit budget. 429 responses surface as
// serrors.ErrRateLimited; other statuses are returned to the caller.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, envelope, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, envelope{}, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Reserve(ctx); err != nil {
			return 0, envelope{}, nil, fmt.Errorf("could not reserve rate limit: %w", err)
		}
	}

	var rl certprovider.RateLimitStatus
	defer func() {
		if c.limiter != nil {
			c.limiter.Release(ctx, rl)
		}
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, envelope{}, nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	rl, err = ParseRateLimit(resp.Header)
	if err != nil {
		logger.Warn(ctx, "could not parse rate limit headers", zap.Error(err))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, envelope{}, nil, fmt.Errorf("could not read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// non-JSON error pages still carry a useful status code
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return resp.StatusCode, env, raw, serrors.With(serrors.ErrRateLimited, "rate limited: %s", env.message(raw))
	}

	return resp.StatusCode, env, raw, nil
}
