package client

import (
	"fmt"
	"time"
)

// Error taxonomy for CCB API calls. Controllers and the orchestrator convert
// these into counters and summary fields, never into crashes.

// ConfigError means the client cannot even be constructed (missing endpoint or
// credentials). Fatal before any call is made.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "ccb config: " + e.Msg }

// AuthError covers 401/403 responses. Retrying cannot help.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("ccb auth rejected (status %d)", e.Status)
}

func (e *AuthError) Hint() string {
	return "check CCB_API_USER / CCB_API_PASSWORD and that the API user has the needed services enabled"
}

// RateLimitError covers 429 responses.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return "ccb rate limit hit (429)" }

// TimeoutError marks a request that ran out its deadline. Extended requests
// (the 60s unfiltered listings) are never retried after timing out.
type TimeoutError struct {
	Timeout  time.Duration
	Extended bool
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ccb request timed out after %s", e.Timeout)
}

// DNSError marks a name-resolution failure.
type DNSError struct {
	Host string
	Err  error
}

func (e *DNSError) Error() string {
	return fmt.Sprintf("ccb dns lookup failed for %s: %v", e.Host, e.Err)
}

func (e *DNSError) Unwrap() error { return e.Err }

func (e *DNSError) Hint() string {
	return "CCB_SUBDOMAIN or CCB_API_URL likely points at a host that does not exist"
}

// ConnError marks any other transport-level failure.
type ConnError struct {
	Err error
}

func (e *ConnError) Error() string { return fmt.Sprintf("ccb connection failed: %v", e.Err) }
func (e *ConnError) Unwrap() error { return e.Err }

// UpstreamError covers non-auth 4xx and all 5xx responses.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ccb upstream error (status %d)", e.Status)
}

func (e *UpstreamError) Hint() string {
	switch {
	case e.Status == 404:
		return "404 from CCB usually means the base URL is misconfigured (wrong path or subdomain)"
	case e.Status >= 500:
		return "CCB is having a bad day upstream; the call was retried and still failed"
	default:
		return "unexpected CCB response; inspect the request parameters"
	}
}

// Retryable reports whether the 5xx retry path applies.
func (e *UpstreamError) Retryable() bool { return e.Status >= 500 }

// ParseError marks malformed or unexpectedly shaped XML. Callers degrade to
// "no data found" rather than failing the run.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("ccb xml parse failed: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
