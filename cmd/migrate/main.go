package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/venuekit/venuekit/migrations"
	"github.com/venuekit/venuekit/pkg/config"
	"github.com/venuekit/venuekit/pkg/logger"
	"github.com/venuekit/venuekit/pkg/pg"
)

func main() {
	ctx := context.Background()
	log := logger.New(logger.WithFormat(logger.FormatText))

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
		log.ErrorContext(ctx, "migration failed", logger.Error(err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "migrations complete", slog.String("db", "postgres"))
}
