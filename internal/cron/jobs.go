package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

const defaultLogRetention = 90 * 24 * time.Hour

type sessionEvicter interface {
	EvictIdle(ctx context.Context) (int, error)
}

// NewSessionEvictionJob drops idle in-memory order sessions.
func NewSessionEvictionJob(evicter sessionEvicter) (Job, error) {
	if evicter == nil {
		return nil, fmt.Errorf("session evicter required")
	}
	return &sessionEvictionJob{evicter: evicter}, nil
}

type sessionEvictionJob struct {
	evicter sessionEvicter
}

func (j *sessionEvictionJob) Name() string { return "session-eviction" }

func (j *sessionEvictionJob) Run(ctx context.Context) error {
	_, err := j.evicter.EvictIdle(ctx)
	return err
}

type requestLogPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type RequestLogPruneJobParams struct {
	Logger     *logger.Logger
	Repository requestLogPruner
	Retention  time.Duration
}

// NewRequestLogPruneJob deletes settled relay request rows past retention.
func NewRequestLogPruneJob(params RequestLogPruneJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("request log repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultLogRetention
	}
	return &requestLogPruneJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type requestLogPruneJob struct {
	logg      *logger.Logger
	repo      requestLogPruner
	retention time.Duration
	now       func() time.Time
}

func (j *requestLogPruneJob) Name() string { return "request-log-prune" }

func (j *requestLogPruneJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		}), "request log pruned")
	}
	return nil
}
