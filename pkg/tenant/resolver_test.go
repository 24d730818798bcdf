package tenant_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuekit/venuekit/pkg/tenant"
)

// faultyDirectory simulates a backing store outage.
type faultyDirectory struct {
	err error
}

func (d *faultyDirectory) Lookup(ctx context.Context, host string) (*tenant.Tenant, error) {
	return nil, d.err
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	acme := newTestTenant("Acme", "acme.platform.com", "")
	beta := newTestTenant("Beta", "beta.platform.com", "beta.example.com")
	dir := tenant.NewMemoryDirectory([]tenant.Tenant{acme, beta})
	resolver := tenant.NewResolver(dir)

	t.Run("resolves custom domain to its owner", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://beta.example.com/api/halls", nil)
		req.Host = "beta.example.com"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		require.True(t, tc.IsResolved())
		assert.Equal(t, beta.ID, tc.ID)
		assert.Equal(t, []string{"beta.example.com", "beta.platform.com"}, tc.Domains)
	})

	t.Run("resolves default domain", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://beta.platform.com/", nil)
		req.Host = "beta.platform.com"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, beta.ID, tc.ID)
	})

	t.Run("ignores scheme path and query", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "https://acme.platform.com/api/bookings?org=1", nil)
		req.Host = "acme.platform.com:443"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, acme.ID, tc.ID)
	})

	t.Run("unknown host resolves to Empty without error", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://unknown.platform.com/", nil)
		req.Host = "unknown.platform.com"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.False(t, tc.IsResolved())
	})
}

func TestResolverInactiveTenant(t *testing.T) {
	t.Parallel()

	suspended := newTestTenant("Gone", "gone.platform.com", "")
	suspended.Active = false
	dir := tenant.NewMemoryDirectory([]tenant.Tenant{suspended})

	t.Run("inactive resolves to Empty by default", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(dir)
		req := httptest.NewRequest("GET", "http://gone.platform.com/", nil)
		req.Host = "gone.platform.com"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.False(t, tc.IsResolved())
	})

	t.Run("AllowInactive resolves suspended tenants", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(dir, tenant.AllowInactive())
		req := httptest.NewRequest("GET", "http://gone.platform.com/", nil)
		req.Host = "gone.platform.com"

		tc, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.True(t, tc.IsResolved())
	})
}

func TestResolverDirectoryFault(t *testing.T) {
	t.Parallel()

	storeDown := errors.New("store unavailable")
	dir := &faultyDirectory{err: storeDown}
	resolver := tenant.NewResolver(dir)

	req := httptest.NewRequest("GET", "http://acme.platform.com/", nil)
	req.Host = "acme.platform.com"

	tc, err := resolver.Resolve(req)
	assert.False(t, tc.IsResolved())
	require.Error(t, err)
	assert.ErrorIs(t, err, tenant.ErrResolutionFailed)
	assert.ErrorIs(t, err, storeDown)
}
