package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/venuekit/venuekit/pkg/logger"
	"github.com/venuekit/venuekit/pkg/tenant"
)

// Lister is the slice of the repository the service needs: a full
// tenant listing for directory loads.
type Lister interface {
	List(ctx context.Context) ([]tenant.Tenant, error)
}

// Service keeps an in-memory tenant directory loaded from the backing
// store and refreshes it on an interval. Request-path lookups never
// touch the store; they read the swapped-in index, so a slow or down
// store degrades refresh, not resolution.
type Service struct {
	repo     Lister
	dir      *tenant.MemoryDirectory
	interval time.Duration
	log      *slog.Logger
}

// Config holds directory service configuration.
type Config struct {
	RefreshInterval time.Duration `env:"DIRECTORY_REFRESH_INTERVAL" envDefault:"1m"` // RefreshInterval is the period between directory reloads.
}

// NewService creates the service with an empty directory; call Load
// before serving traffic.
func NewService(repo Lister, interval time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		dir:      tenant.NewMemoryDirectory(nil),
		interval: interval,
		log:      log,
	}
}

// Directory exposes the read side consumed by the resolver.
func (s *Service) Directory() *tenant.MemoryDirectory {
	return s.dir
}

// Load replaces the directory with the current store contents.
func (s *Service) Load(ctx context.Context) error {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load tenant directory: %w", err)
	}
	s.dir.Replace(tenants)
	s.log.InfoContext(ctx, "tenant directory loaded", "tenants", len(tenants))
	return nil
}

// Run refreshes the directory on the configured interval until the
// context is cancelled. A failed refresh keeps the previous index and
// is retried on the next tick.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.log.ErrorContext(ctx, "tenant directory refresh failed", logger.Error(err))
			}
		}
	}
}
