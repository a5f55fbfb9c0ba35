package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/vegthaliclub/catering-backend/api/routes"
	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/configurator"
	"github.com/vegthaliclub/catering-backend/internal/cron"
	"github.com/vegthaliclub/catering-backend/internal/pricing"
	"github.com/vegthaliclub/catering-backend/internal/relay"
	"github.com/vegthaliclub/catering-backend/internal/requests"
	"github.com/vegthaliclub/catering-backend/internal/snapshot"
	"github.com/vegthaliclub/catering-backend/internal/submission"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/db"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	"github.com/vegthaliclub/catering-backend/pkg/migrate"
	"github.com/vegthaliclub/catering-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var redisClient *redis.Client
	var snapshotRedis snapshot.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		closers = append(closers, redisClient.Close)
		snapshotRedis = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; idempotency and shared rate limits disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cateringMetrics := metrics.NewCateringMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	store, err := snapshot.Open(cfg.Snapshot.Backend, cfg.Snapshot.Path, snapshotRedis, cfg.Snapshot.RedisTTL)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	writer := snapshot.NewWriter(store, logg, cateringMetrics, snapshot.WriterOptions{
		QueueSize: cfg.Snapshot.QueueSize,
		OpTimeout: cfg.Snapshot.OpTimeout,
	})
	// Close drains the queue, then closes the store.
	closers = append(closers, writer.Close)

	requestLog := requests.NewRepository(dbClient.DB())
	relaySvc, err := relay.NewService(relay.ServiceParams{
		Mailer:   relay.NewSMTPMailer(cfg.SMTP),
		Recorder: requestLog,
		SMTP:     cfg.SMTP,
		Logger:   logg,
		Metrics:  cateringMetrics,
	})
	if err != nil {
		return fmt.Errorf("create relay service: %w", err)
	}

	policy := pricing.Policy{AddOnFee: cfg.Pricing.AddOnFee, TaxRate: cfg.Pricing.TaxRate}
	var relayClient submission.RelayClient = submission.RelayFunc(relaySvc.RelayCatering)
	if cfg.Relay.URL != "" {
		relayClient = submission.NewHTTPRelayClient(cfg.Relay.URL, cfg.Relay.Timeout)
	}
	gateway, err := submission.NewGateway(submission.Params{
		Relay:        relayClient,
		Policy:       policy,
		MinPartySize: cfg.Order.MinPartySize,
		Logger:       logg,
		Metrics:      cateringMetrics,
	})
	if err != nil {
		return fmt.Errorf("create submission gateway: %w", err)
	}

	cat := catalog.Default()
	orders, err := configurator.NewService(configurator.ServiceParams{
		Catalog: cat,
		Machine: wizard.NewMachine(wizard.Options{
			MinPartySize:    cfg.Order.MinPartySize,
			MinWeightKg:     cfg.Order.MinWeightKg,
			DefaultWeightKg: cfg.Order.DefaultWeightKg,
		}),
		Policy:    policy,
		Snapshots: writer,
		Submitter: gateway,
		Logger:    logg,
		Metrics:   cateringMetrics,
		IdleTTL:   cfg.Order.SessionIdleTTL,
	})
	if err != nil {
		return fmt.Errorf("create configurator: %w", err)
	}

	maintenance, err := maintenanceRunners(cfg, logg, redisClient, orders, requestLog, jobMetrics)
	if err != nil {
		return err
	}
	for _, runner := range maintenance {
		go func(s *cron.Service) {
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "maintenance runner stopped", err)
			}
		}(runner)
	}

	router := routes.NewRouter(routes.Params{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Gatherer:     registry,
		Catalog:      cat,
		Configurator: orders,
		Relay:        relaySvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"snapshot": cfg.Snapshot.Backend,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// maintenanceRunners builds the in-process eviction runner and the request
// log prune runner. Pruning is shared across instances through redis when
// it is configured.
func maintenanceRunners(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	orders configurator.Service,
	requestLog *requests.Repository,
	jobMetrics *metrics.JobMetrics,
) ([]*cron.Service, error) {
	eviction, err := cron.NewSessionEvictionJob(orders)
	if err != nil {
		return nil, err
	}
	evictRegistry, err := cron.NewRegistry(eviction)
	if err != nil {
		return nil, err
	}
	evictRunner, err := cron.NewService(cron.ServiceParams{
		Name:     "session-eviction",
		Logger:   logg,
		Registry: evictRegistry,
		Metrics:  jobMetrics,
		Interval: cfg.Order.EvictInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("create eviction runner: %w", err)
	}

	prune, err := cron.NewRequestLogPruneJob(cron.RequestLogPruneJobParams{
		Logger:     logg,
		Repository: requestLog,
		Retention:  cfg.Relay.LogRetention,
	})
	if err != nil {
		return nil, err
	}
	pruneRegistry, err := cron.NewRegistry(prune)
	if err != nil {
		return nil, err
	}
	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, cron.LockKey("request-log-prune", cfg.App.Env), 0)
		if err != nil {
			return nil, fmt.Errorf("create prune lock: %w", err)
		}
		lock = redisLock
	}
	pruneRunner, err := cron.NewService(cron.ServiceParams{
		Name:     "request-log-prune",
		Logger:   logg,
		Registry: pruneRegistry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Relay.PruneInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("create prune runner: %w", err)
	}
	return []*cron.Service{evictRunner, pruneRunner}, nil
}
