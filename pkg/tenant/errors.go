package tenant

import "errors"

var (
	// ErrTenantNotFound is returned by Directory.Lookup when no tenant
	// owns the requested host.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrResolutionFailed wraps infrastructure faults from the backing
	// directory (store unreachable, reload in a bad state). It is
	// distinguishable from a plain miss so callers can choose between
	// failing open and failing closed.
	ErrResolutionFailed = errors.New("tenant resolution failed")

	// ErrNoTenantInContext is returned by RequireTenant when a route
	// demands a resolved tenant and the request carries none.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
