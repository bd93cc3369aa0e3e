package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clbanning/mxj/v2"

	"circleops_backend/internals/configs"
)

const (
	standardTimeout = 30 * time.Second
	extendedTimeout = 60 * time.Second

	// Unfiltered profile listings are expensive on CCB's side; memoize them
	// briefly so back-to-back discovery calls share one response.
	profileCacheKey = "ccb:event_profiles:all"
	profileCacheTTL = 5 * time.Minute

	maxResponseBytes = 32 << 20
)

// RetryPolicy is the explicit retry value applied to every request.
// Backoff is BaseDelay × 2^(attempt-1).
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: 500 * time.Millisecond}

func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}

// Config carries the CCB endpoint + credentials. Either a full BaseURL or a
// bare Subdomain must be present.
type Config struct {
	BaseURL   string
	Subdomain string
	Username  string
	Password  string
}

// ConfigFromEnv builds a Config from the loaded environment.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:   configs.CCBBaseURL,
		Subdomain: configs.CCBSubdomain,
		Username:  configs.CCBUsername,
		Password:  configs.CCBPassword,
	}
}

// Client is the low-level CCB API client: one GET endpoint, basic auth,
// XML-to-map parsing, typed errors, explicit retry policy. Stateless per call.
type Client struct {
	endpoint *url.URL
	username string
	password string
	policy   RetryPolicy
	cache    Cache
	httpc    *http.Client
	sleep    func(time.Duration)
}

type Option func(*Client)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, &ConfigError{Msg: "missing CCB_API_USER / CCB_API_PASSWORD"}
	}

	endpoint, err := deriveEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint: endpoint,
		username: cfg.Username,
		password: cfg.Password,
		policy:   DefaultRetryPolicy,
		cache:    NewMemoryCache(),
		httpc:    &http.Client{},
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// deriveEndpoint accepts either a full URL (scheme optional) or a bare
// subdomain, and fails fast when neither yields something usable.
func deriveEndpoint(cfg Config) (*url.URL, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		sub := strings.TrimSpace(cfg.Subdomain)
		if sub == "" {
			return nil, &ConfigError{Msg: "no usable endpoint — set CCB_API_URL or CCB_SUBDOMAIN"}
		}
		raw = fmt.Sprintf("https://%s.ccbchurch.com/api.php", sub)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, &ConfigError{Msg: "CCB_API_URL does not parse to a usable URL: " + raw}
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api.php"
	}
	return u, nil
}

// LinkBase is the stable base for user-facing deep links into CCB.
func (c *Client) LinkBase() string {
	return c.endpoint.Scheme + "://" + c.endpoint.Host
}

// Request issues one authenticated GET against the CCB API and parses the XML
// response into a generic map. Transient failures are retried per the policy;
// a timeout on an already-extended (60s) listing call is surfaced immediately.
func (c *Client) Request(ctx context.Context, params map[string]string) (mxj.Map, error) {
	extended := isUnfilteredListing(params)
	timeout := standardTimeout
	if extended {
		timeout = extendedTimeout
	}

	if extended && c.cache != nil {
		if v, ok := c.cache.Get(profileCacheKey); ok {
			if m, ok := v.(mxj.Map); ok {
				return m, nil
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(c.policy.Backoff(attempt))
		}

		m, err := c.do(ctx, params, timeout, extended)
		if err == nil {
			if extended && c.cache != nil {
				c.cache.Set(profileCacheKey, m, profileCacheTTL)
			}
			return m, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, params map[string]string, timeout time.Duration, extended bool) (mxj.Map, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := *c.endpoint
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ConnError{Err: err}
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, classifyTransport(err, timeout, extended, u.Host)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode >= 500:
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(err, timeout, extended, u.Host)
	}

	// Anything in [200,500) is parsed so API-level error bodies stay
	// inspectable; a non-XML 4xx body falls back to a status error.
	m, err := mxj.NewMapXml(body)
	if err != nil {
		if resp.StatusCode >= 400 {
			return nil, &UpstreamError{Status: resp.StatusCode}
		}
		return nil, &ParseError{Err: err}
	}
	return m, nil
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			return d
		}
	}
	return 0
}

func classifyTransport(err error, timeout time.Duration, extended bool, host string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Extended: extended}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DNSError{Host: host, Err: dnsErr}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: timeout, Extended: extended}
	}
	return &ConnError{Err: err}
}

func retryable(err error) bool {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return !timeoutErr.Extended
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Retryable()
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return false
	}
	// rate limit, dns, connection
	return true
}

// isUnfilteredListing reports whether params describe an "all events" profile
// listing, which gets the longer timeout and the no-retry-on-timeout rule.
func isUnfilteredListing(params map[string]string) bool {
	if params["srv"] != "event_profiles" {
		return false
	}
	for k := range params {
		if k != "srv" {
			return false
		}
	}
	return true
}
