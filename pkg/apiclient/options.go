package apiclient

import (
	"net/http"
	"time"
)

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient sets a custom underlying HTTP client, for custom
// transports or tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets the bearer-credential source consulted at each
// dispatch.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// WithTimeout sets the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheTTL sets how long successful read responses are served from
// cache.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// WithTenantKey partitions the cache and coalescing space by tenant,
// so one tenant's cached data is never served to a request resolved to
// a different tenant.
func WithTenantKey(key string) Option {
	return func(c *Client) {
		c.tenantKey = key
	}
}

// requestConfig holds per-call overrides.
type requestConfig struct {
	timeout   time.Duration
	cacheTTL  time.Duration
	tenantKey string
	skipCache bool
}

// RequestOption configures one call.
type RequestOption func(*requestConfig)

// WithCallTimeout overrides the per-call timeout, e.g. the shorter
// bound used for lightweight config fetches.
func WithCallTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		if d > 0 {
			rc.timeout = d
		}
	}
}

// WithCallTenant overrides the tenant partition for one call.
func WithCallTenant(key string) RequestOption {
	return func(rc *requestConfig) {
		rc.tenantKey = key
	}
}

// WithCallCacheTTL overrides the cache TTL for one read call.
func WithCallCacheTTL(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		if d > 0 {
			rc.cacheTTL = d
		}
	}
}

// NoCache bypasses the read cache for one call, both for lookup and
// store. The call still coalesces with identical in-flight calls.
func NoCache() RequestOption {
	return func(rc *requestConfig) {
		rc.skipCache = true
	}
}
