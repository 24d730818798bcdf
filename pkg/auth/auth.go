package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/venuekit/venuekit/pkg/tenant"
)

var (
	// ErrMissingToken is returned when no bearer credential is present.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when the credential fails validation.
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrTenantMismatch is returned when the authenticated user does
	// not belong to the tenant the request resolved to.
	ErrTenantMismatch = errors.New("user does not belong to tenant")
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	TenantID uuid.UUID
}

// claims is the platform token shape. Issuance lives in the identity
// service; this middleware only consumes it.
type claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	TenantID string `json:"org,omitempty"`
}

type identityKey struct{}

// WithIdentity attaches an authenticated identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the authenticated identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Middleware validates the bearer credential and deposits the caller's
// identity. Mount it after tenant.Middleware: the tenant-membership
// check below depends on the tenant context already being present.
func Middleware(signingKey []byte, enforceTenant bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, ErrInvalidToken
				}
				return signingKey, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			id := Identity{Email: c.Email}
			if userID, err := uuid.Parse(c.Subject); err == nil {
				id.UserID = userID
			}
			if tenantID, err := uuid.Parse(c.TenantID); err == nil {
				id.TenantID = tenantID
			}

			if enforceTenant {
				tc := tenant.FromContext(r.Context())
				if tc.IsResolved() && tc.ID != id.TenantID {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
