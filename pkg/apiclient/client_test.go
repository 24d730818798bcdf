package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuekit/venuekit/pkg/apiclient"
)

func TestCoalescing(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]any{"bookings": []int{1, 2, 3}})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	const callers = 10
	results := make([]map[string]any, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/api/bookings?org=1", &results[i])
		}(i)
	}

	// Give every caller time to attach to the in-flight call, then
	// let the single physical exchange complete.
	time.Sleep(300 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load(), "identical concurrent calls must coalesce into one physical call")
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i], "every waiter must receive the same result")
	}
}

func TestCoalescingWriteVerb(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := client.Post(context.Background(), "/api/bookings", map[string]any{"hall": 7}, nil)
			assert.NoError(t, err)
		}()
	}

	time.Sleep(300 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load())
}

func TestCacheTTLBoundary(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "Acme"})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, apiclient.WithCacheTTL(150*time.Millisecond))
	defer client.Close()

	var out map[string]string
	require.NoError(t, client.Get(context.Background(), "/api/org/1", &out))
	require.Equal(t, int64(1), hits.Load())

	// Within TTL: served from cache, no new physical call.
	require.NoError(t, client.Get(context.Background(), "/api/org/1", &out))
	assert.Equal(t, int64(1), hits.Load())
	assert.Equal(t, "Acme", out["name"])

	// Past TTL: fresh physical call.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, client.Get(context.Background(), "/api/org/1", &out))
	assert.Equal(t, int64(2), hits.Load())
}

func TestWriteVerbsNeverCached(t *testing.T) {
	t.Parallel()

	var gets, posts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets.Add(1)
		default:
			posts.Add(1)
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"n": 1})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	ctx := context.Background()

	// Sequential identical writes each hit the network.
	require.NoError(t, client.Post(ctx, "/api/halls", map[string]string{"name": "A"}, nil))
	require.NoError(t, client.Post(ctx, "/api/halls", map[string]string{"name": "A"}, nil))
	assert.Equal(t, int64(2), posts.Load())

	// A write does not invalidate or populate the read cache.
	require.NoError(t, client.Get(ctx, "/api/halls", nil))
	require.NoError(t, client.Put(ctx, "/api/halls", map[string]string{"name": "B"}, nil))
	require.NoError(t, client.Get(ctx, "/api/halls", nil))
	assert.Equal(t, int64(1), gets.Load(), "read must still be served from cache after a write")
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	var slow atomic.Bool
	slow.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			time.Sleep(2 * time.Second)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	const bound = 100 * time.Millisecond

	t.Run("every waiter receives the timeout", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = client.Get(context.Background(), "/api/slow", nil,
					apiclient.WithCallTimeout(bound))
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			var te *apiclient.TimeoutError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, bound, te.Elapsed)
		}
	})

	t.Run("no permanent lock-out after timeout", func(t *testing.T) {
		slow.Store(false)
		var out map[string]bool
		err := client.Get(context.Background(), "/api/slow", &out,
			apiclient.WithCallTimeout(bound))
		require.NoError(t, err, "a fresh call must issue a new physical exchange")
		assert.True(t, out["ok"])
	})
}

func TestPendingCount(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]int{"n": 1})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	assert.Equal(t, 0, client.Pending())

	done := make(chan error, 1)
	go func() {
		done <- client.Get(context.Background(), "/api/halls", nil)
	}()

	<-arrived
	assert.Equal(t, 1, client.Pending())

	close(release)
	require.NoError(t, <-done)
	assert.Eventually(t, func() bool { return client.Pending() == 0 },
		time.Second, 10*time.Millisecond)

	// A cache hit performs no physical call and never touches the count.
	require.NoError(t, client.Get(context.Background(), "/api/halls", nil))
	assert.Equal(t, 0, client.Pending())
}

func TestTenantPartitionedCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]int64{"hit": hits.Load()})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	ctx := context.Background()
	var a, b, a2 map[string]int64

	require.NoError(t, client.Get(ctx, "/api/org/profile", &a, apiclient.WithCallTenant("org-1")))
	require.NoError(t, client.Get(ctx, "/api/org/profile", &b, apiclient.WithCallTenant("org-2")))
	require.NoError(t, client.Get(ctx, "/api/org/profile", &a2, apiclient.WithCallTenant("org-1")))

	assert.Equal(t, int64(2), hits.Load(), "each tenant partition needs its own physical call")
	assert.Equal(t, a, a2, "same tenant must be served from its own cache entry")
	assert.NotEqual(t, a, b, "one tenant's cache entry must never serve another tenant")
}

func TestAbandonedWaiterDoesNotAbortCall(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan error, 1)
	go func() {
		abandoned <- client.Get(ctx, "/api/halls", nil)
	}()

	survivor := make(chan error, 1)
	go func() {
		survivor <- client.Get(context.Background(), "/api/halls", nil)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-abandoned, context.Canceled)

	close(release)
	require.NoError(t, <-survivor, "remaining waiters share the physical call's fate")
	assert.Equal(t, int64(1), hits.Load())
}
