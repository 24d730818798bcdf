package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context is the tenant identity resolved for one inbound request.
// The zero value is Empty: resolution found no match, was ambiguous,
// or never ran. Empty is a legitimate state, not an error; consumers
// decide whether it is fatal for their operation.
type Context struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Domains []string  `json:"domains"`
}

// Empty is the unresolved tenant context.
var Empty = Context{}

// IsResolved reports whether the context identifies a tenant.
func (c Context) IsResolved() bool {
	return c.ID != uuid.Nil
}

// Resolved builds a Context from a directory record.
func Resolved(t *Tenant) Context {
	return Context{
		ID:      t.ID,
		Name:    t.Name,
		Domains: t.Domains(),
	}
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithContext deposits the resolved tenant context into the request
// context. Called exactly once per inbound request, before any
// tenant-aware logic runs.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the tenant context for the current request.
// Returns Empty when resolution never ran, so every data service can
// call it unconditionally instead of null-checking a dependency.
func FromContext(ctx context.Context) Context {
	if tc, ok := ctx.Value(contextKey{}).(Context); ok {
		return tc
	}
	return Empty
}

// IDFromContext retrieves just the tenant ID.
// Returns the zero UUID and false for an unresolved context.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tc := FromContext(ctx)
	return tc.ID, tc.IsResolved()
}

// LoggerExtractor returns a context extractor for the logger that
// annotates records with the resolved tenant ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
