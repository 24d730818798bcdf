package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/venuekit/venuekit/migrations"
	"github.com/venuekit/venuekit/pkg/auth"
	"github.com/venuekit/venuekit/pkg/config"
	"github.com/venuekit/venuekit/pkg/httpserver"
	"github.com/venuekit/venuekit/pkg/logger"
	"github.com/venuekit/venuekit/pkg/pg"
	"github.com/venuekit/venuekit/pkg/redis"
	"github.com/venuekit/venuekit/pkg/tenant"
	"github.com/venuekit/venuekit/svc/directory"
)

type appConfig struct {
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	AuthSigningKey string        `env:"AUTH_SIGNING_KEY,required"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	RedisEnabled   bool          `env:"REDIS_ENABLED" envDefault:"false"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg   appConfig
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		dirCfg   directory.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&dirCfg)

	log := logger.New(
		logger.WithLevel(appCfg.LogLevel),
		logger.WithFormat(logger.Format(appCfg.LogFormat)),
		logger.WithAttrs(slog.String("service", "venuekit")),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	slog.SetDefault(log)

	if err := run(ctx, log, appCfg, httpCfg, pgCfg, redisCfg, dirCfg); err != nil {
		log.ErrorContext(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, appCfg appConfig, httpCfg httpserver.Config, pgCfg pg.Config, redisCfg redis.Config, dirCfg directory.Config) error {
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	dirSvc := directory.NewService(directory.NewRepository(pool), dirCfg.RefreshInterval, log)
	if err := dirSvc.Load(ctx); err != nil {
		return err
	}
	go dirSvc.Run(ctx)

	// The request path resolves against the in-memory index; the Redis
	// layer sits in front only when a cache shared across instances is
	// wanted.
	var dir tenant.Directory = dirSvc.Directory()
	readiness := []func(context.Context) error{pg.Healthcheck(pool)}
	if appCfg.RedisEnabled {
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		dir = directory.NewCachedDirectory(dir, client, appCfg.TenantCacheTTL, log)
		readiness = append(readiness, redis.Healthcheck(client))
	}

	resolver := tenant.NewResolver(dir)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Tenant resolution runs before authentication so authorization
	// can check tenant membership.
	r.Use(tenant.Middleware(resolver,
		tenant.WithSkipPaths("/health", "/ready"),
		tenant.WithLogger(log),
	))

	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, readiness...))

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware([]byte(appCfg.AuthSigningKey), true))
		r.Use(tenant.RequireTenant(nil))

		r.Get("/org", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(tenant.FromContext(req.Context()))
		})
	})

	srv := httpserver.New(append(httpserver.FromConfig(httpCfg), httpserver.WithLogger(log))...)
	return srv.Run(ctx, r)
}
