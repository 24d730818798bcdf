package tenant

import (
	"context"
	"strings"
	"sync"
)

// MemoryDirectory is an in-memory Directory over a read-mostly tenant
// set. Lookups are safe to run concurrently with Replace; a refresh
// swaps the whole index atomically under the write lock.
type MemoryDirectory struct {
	mu        sync.RWMutex
	byCustom  map[string]*Tenant
	byDefault map[string]*Tenant
}

// NewMemoryDirectory builds a directory indexed over the given tenants.
func NewMemoryDirectory(tenants []Tenant) *MemoryDirectory {
	d := &MemoryDirectory{}
	d.Replace(tenants)
	return d
}

// Replace swaps the directory contents with a fresh tenant set.
// Called by the data-service reload path; lookups in flight keep
// reading the old index until the swap completes.
func (d *MemoryDirectory) Replace(tenants []Tenant) {
	byCustom := make(map[string]*Tenant, len(tenants))
	byDefault := make(map[string]*Tenant, len(tenants))

	for i := range tenants {
		t := tenants[i]
		byDefault[strings.ToLower(t.DefaultDomain)] = &t
		if t.CustomDomain != "" {
			byCustom[strings.ToLower(t.CustomDomain)] = &t
		}
	}

	d.mu.Lock()
	d.byCustom = byCustom
	d.byDefault = byDefault
	d.mu.Unlock()
}

// Lookup resolves a host to its owning tenant. Custom domains win over
// default domains: a paying tenant's vanity domain takes precedence
// over the platform's own default-domain slot for the same name.
func (d *MemoryDirectory) Lookup(ctx context.Context, host string) (*Tenant, error) {
	key := NormalizeHost(host)
	if key == "" {
		return nil, ErrTenantNotFound
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if t, ok := d.byCustom[key]; ok {
		return t, nil
	}
	if t, ok := d.byDefault[key]; ok {
		return t, nil
	}
	return nil, ErrTenantNotFound
}

// Len reports the number of indexed tenants.
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byDefault)
}

// NormalizeHost lowercases a host header value and strips any port,
// producing the canonical form used for directory matching.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)

	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}

	return strings.ToLower(strings.TrimSuffix(host, "."))
}
