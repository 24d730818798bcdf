// Package tenant resolves the organization behind each inbound request
// from its host name and carries that identity through the request
// context.
//
// The package is built around three pieces:
//
//  1. Directory - maps a domain (default or custom) to a tenant record
//  2. Resolver - turns one request's Host header into a tenant Context
//  3. Middleware - runs resolution and deposits the context before
//     authentication and data services execute
//
// Resolution never treats a miss as an error: an Empty context is a
// legitimate state for platform-level routes, health checks, or a
// domain whose DNS is still propagating. Directory infrastructure
// faults fail open by default so public routes keep working while the
// tenant store is degraded.
//
// # Usage
//
//	dir := tenant.NewMemoryDirectory(records)
//	resolver := tenant.NewResolver(dir)
//
//	router.Use(tenant.Middleware(resolver,
//		tenant.WithSkipPaths("/health", "/static"),
//	))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		tc := tenant.FromContext(r.Context())
//		if !tc.IsResolved() {
//			// platform-level request
//		}
//	}
//
// Custom domains take precedence over default domains when both match
// a host: a paying tenant's vanity domain wins over the platform slot.
package tenant
