package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vegthaliclub/catering-backend/internal/cron"
	"github.com/vegthaliclub/catering-backend/internal/requests"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/db"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	"github.com/vegthaliclub/catering-backend/pkg/migrate"
	"github.com/vegthaliclub/catering-backend/pkg/redis"
)

// cron-worker prunes the relay request log on its own schedule, for
// deployments that keep maintenance out of the API process.
func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeAutoRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisLock, err := cron.NewRedisLock(redisClient, cron.LockKey("request-log-prune", cfg.App.Env), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
		lock = redisLock
	}

	prune, err := cron.NewRequestLogPruneJob(cron.RequestLogPruneJobParams{
		Logger:     logg,
		Repository: requests.NewRepository(dbClient.DB()),
		Retention:  cfg.Relay.LogRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create prune job", err)
		os.Exit(1)
	}
	registry, err := cron.NewRegistry(prune)
	if err != nil {
		logg.Error(context.Background(), "failed to build job registry", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Name:     "cron-worker",
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Relay.PruneInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
