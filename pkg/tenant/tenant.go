package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is one organization on the platform, carrying the minimal
// identity needed for request-scoped operations and UI display.
type Tenant struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DefaultDomain string    `json:"default_domain"`
	CustomDomain  string    `json:"custom_domain,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Domains returns every domain the tenant answers on.
// The default domain is always present; the custom domain is optional.
func (t Tenant) Domains() []string {
	if t.CustomDomain == "" {
		return []string{t.DefaultDomain}
	}
	return []string{t.CustomDomain, t.DefaultDomain}
}

// Directory looks tenants up by the domain they answer on.
// Implementations must match case-insensitively and give custom
// domains precedence over default domains.
type Directory interface {
	// Lookup resolves a host name (port allowed, stripped before
	// matching) to the owning tenant. Returns ErrTenantNotFound
	// when no tenant owns the host.
	Lookup(ctx context.Context, host string) (*Tenant, error)
}
