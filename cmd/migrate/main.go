package main

import (
	"context"
	"flag"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	migration "github.com/muhammadchandra19/exchange/pkg/migration-pg"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
)

type config struct {
	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
	Migration  migration.Config  `envPrefix:"MIGRATION_"`
	LogLevel   string            `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
		dir       = flag.String("dir", "", "Migration directory (overrides MIGRATION_DIR)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}
	if *dir != "" {
		cfg.Migration.MigrationDir = *dir
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_postgresql"})
		return
	}
	defer pgClient.Close()

	runner := migration.NewRunner(pgClient, log, cfg.Migration)

	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "ensure_migration_table"})
		return
	}

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		err = runner.MigrateDown(ctx, *steps)
	default:
		log.Warn("invalid direction, use 'up' or 'down'", logger.Field{Key: "direction", Value: *direction})
		return
	}
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate_" + *direction})
		return
	}

	log.Info("migration completed", logger.Field{Key: "direction", Value: *direction})
}
