package tenant

import (
	"errors"
	"net/http"
)

// Resolver maps an inbound request's host to a tenant context using a
// Directory. A miss is not an error: unresolved tenancy is a valid
// state (platform routes, health checks, DNS still propagating).
type Resolver struct {
	directory     Directory
	failClosed    bool
	allowInactive bool
}

// NewResolver creates a resolver over the given directory.
func NewResolver(directory Directory, opts ...ResolverOption) *Resolver {
	r := &Resolver{directory: directory}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the tenant context for one inbound request.
//
// A directory miss yields Empty with no error. An infrastructure fault
// from the directory fails open by default: unauthenticated public
// routes must keep working even when tenant lookup is degraded, so the
// fault is reported (wrapped in ErrResolutionFailed) alongside Empty
// and the caller keeps going. With FailClosed the caller is expected
// to abort instead.
func (r *Resolver) Resolve(req *http.Request) (Context, error) {
	t, err := r.directory.Lookup(req.Context(), req.Host)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return Empty, nil
		}
		return Empty, errors.Join(ErrResolutionFailed, err)
	}

	if !t.Active && !r.allowInactive {
		return Empty, nil
	}

	return Resolved(t), nil
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// FailClosed makes resolution faults abort the request instead of
// degrading to an empty context. Strict tenancy enforcement only;
// the platform default is fail open.
func FailClosed() ResolverOption {
	return func(r *Resolver) {
		r.failClosed = true
	}
}

// AllowInactive lets suspended tenants resolve. Useful for admin
// surfaces that must still address a deactivated organization.
func AllowInactive() ResolverOption {
	return func(r *Resolver) {
		r.allowInactive = true
	}
}

// FailsClosed reports whether the resolver was configured for strict
// tenancy enforcement.
func (r *Resolver) FailsClosed() bool {
	return r.failClosed
}
