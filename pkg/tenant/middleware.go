package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorHandler handles resolution faults when the resolver is
// configured to fail closed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithErrorHandler sets a custom handler for fail-closed resolution faults.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution
// entirely (health checks, platform-level routes).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithLogger sets the logger used for degraded-lookup visibility.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Middleware resolves the inbound request's tenant and deposits the
// resulting context before the next handler runs. Mount it ahead of
// authentication: authorization decisions depend on tenant identity
// already being present.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			tc, err := resolver.Resolve(r)
			if err != nil {
				if resolver.FailsClosed() {
					cfg.errorHandler(w, r, err)
					return
				}
				// Fail open: keep serving with an empty context so
				// public routes survive a degraded tenant store.
				cfg.logger.WarnContext(r.Context(), "tenant resolution degraded",
					"host", r.Host, "error", err)
			}

			ctx := WithContext(r.Context(), tc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant guards routes that cannot operate without a resolved
// tenant. Mount after Middleware.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).IsResolved() {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	case errors.Is(err, ErrNoTenantInContext):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	default:
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
	}
}
