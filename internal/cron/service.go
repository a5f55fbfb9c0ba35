package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// ServiceParams configure a runner.
type ServiceParams struct {
	Name     string
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
	// JobTimeout bounds each job run. Defaults to Interval so a slow job
	// cannot overlap the next cycle.
	JobTimeout time.Duration
}

// Service runs the registered jobs on a fixed cadence.
type Service struct {
	name     string
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
	timeout  time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	lock := params.Lock
	if lock == nil {
		lock = &LocalLock{}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := params.JobTimeout
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	name := params.Name
	if name == "" {
		name = "maintenance"
	}
	return &Service{
		name:     name,
		logg:     params.Logger,
		registry: params.Registry,
		lock:     lock,
		metrics:  params.Metrics,
		interval: interval,
		timeout:  timeout,
	}, nil
}

// Run executes a cycle immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithField(ctx, "runner", s.name)
	if err := s.RunOnce(ctx); err != nil {
		s.logg.Error(ctx, "scheduled run failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "runner stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logg.Error(ctx, "scheduled run failed", err)
			}
		}
	}
}

// RunOnce runs every job once. A failing job does not stop the others.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Debug(ctx, "another runner holds the lock; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release runner lock", relErr)
		}
	}()

	for _, job := range s.registry.Jobs() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.runJob(ctx, job)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	jobCtx, cancel := context.WithTimeout(jobCtx, s.timeout)
	defer cancel()
	start := time.Now()
	err := job.Run(jobCtx)
	s.metrics.Track(job.Name(), start, err)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		return
	}
	s.logg.Debug(jobCtx, "job completed")
}
