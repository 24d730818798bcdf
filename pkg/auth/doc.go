// Package auth consumes the platform's bearer credentials: it
// validates the token, deposits the caller's identity into the request
// context, and optionally checks that the caller belongs to the tenant
// the request resolved to. Token issuance is the identity service's
// concern, not this package's.
package auth
