package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenSource supplies the current bearer credential. It is consulted
// fresh at every dispatch, never cached at construction, so a token
// refreshed mid-session is honored on the next call.
type TokenSource func() string

// Client is the single chokepoint through which the application issues
// backend calls. It coalesces concurrent identical calls into one
// physical exchange, serves unexpired read responses from a short-TTL
// cache, and bounds every dispatched call with a per-call timeout.
//
// A Client is safe for concurrent use. Construct one per process (or
// one per test) rather than sharing hidden global state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	timeout    time.Duration
	cacheTTL   time.Duration
	tenantKey  string

	cache   *responseCache
	group   singleflight.Group
	pending atomic.Int64
}

const (
	// DefaultTimeout bounds generic calls.
	DefaultTimeout = 10 * time.Second
	// DefaultConfigTimeout bounds lightweight config fetches.
	DefaultConfigTimeout = 5 * time.Second
	// DefaultCacheTTL is how long successful read responses are served
	// from cache.
	DefaultCacheTTL = 5 * time.Minute
)

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		timeout:  DefaultTimeout,
		cacheTTL: DefaultCacheTTL,
		cache:    newResponseCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return c
}

// Close releases the cache's background resources. Pending calls are
// unaffected.
func (c *Client) Close() error {
	c.cache.close()
	return nil
}

// Pending reports the number of physical calls currently in flight.
// Cache hits never count. Polled by diagnostic surfaces; purely
// observational.
func (c *Client) Pending() int {
	return int(c.pending.Load())
}

// Request issues one logical call and decodes the response into out
// (pass nil to discard the body).
//
// GET calls are served from cache when an unexpired entry exists for
// the same fingerprint; otherwise the call coalesces with any
// identical call already in flight, so at most one physical exchange
// exists per fingerprint at any instant. Write verbs are deduplicated
// but never cached, and never invalidate cache entries; callers
// trigger their own refresh after mutations.
func (c *Client) Request(ctx context.Context, verb Verb, path string, body any, out any, opts ...RequestOption) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = marshalBody(body); err != nil {
			return err
		}
	}
	return c.dispatch(ctx, verb, path, payload, nil, out, opts)
}

// Get issues a cached, coalesced read call.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.dispatch(ctx, Get, path, nil, nil, out, opts)
}

// Post issues a write call. Never cached.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, Post, path, body, out, opts...)
}

// Put issues a write call. Never cached.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, Put, path, body, out, opts...)
}

// Patch issues a write call. Never cached.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Request(ctx, Patch, path, body, out, opts...)
}

// Delete issues a write call. Never cached.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.dispatch(ctx, Delete, path, nil, nil, out, opts)
}

// UploadFile sends a multipart upload. The multipart boundary is set
// by the transport, never overridden. Deduplicated by file content,
// never cached.
func (c *Client) UploadFile(ctx context.Context, path string, file UploadFile, out any, opts ...RequestOption) error {
	fingerprint := fmt.Appendf(nil, "%s\x00%s\x00%d\x00", file.Field, file.FileName, len(file.Content))
	fingerprint = append(fingerprint, file.Content...)
	return c.dispatch(ctx, Upload, path, fingerprint, &file, out, opts)
}

// dispatch runs the per-key state machine: serve from cache, join an
// in-flight call, or perform a new physical exchange. The in-flight
// slot clears on every terminal state (success, failure, timeout), so
// a timed-out key never blocks a later call.
func (c *Client) dispatch(ctx context.Context, verb Verb, path string, payload []byte, up *UploadFile, out any, opts []RequestOption) error {
	rc := requestConfig{
		timeout:   c.timeout,
		cacheTTL:  c.cacheTTL,
		tenantKey: c.tenantKey,
	}
	for _, opt := range opts {
		opt(&rc)
	}

	key := callKey(rc.tenantKey, verb, path, payload)

	if verb.isRead() && !rc.skipCache {
		if raw, ok := c.cache.get(key); ok {
			return decode(raw, out)
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.pending.Add(1)
		defer c.pending.Add(-1)

		// The physical call is detached from any single waiter's
		// cancellation: all waiters share its one fate, bounded only
		// by the per-call timeout.
		raw, err := c.exchange(context.WithoutCancel(ctx), verb, path, payload, up, rc.timeout)
		if err != nil {
			return nil, err
		}
		if verb.isRead() && !rc.skipCache {
			c.cache.set(key, raw, rc.cacheTTL)
		}
		return raw, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return decode(res.Val.([]byte), out)
	case <-ctx.Done():
		// This waiter abandoned; the physical call and the remaining
		// waiters are unaffected.
		return ctx.Err()
	}
}
