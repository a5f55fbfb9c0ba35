package cron

import (
	"context"
	"fmt"
	"sync"
)

// Job is a unit of periodic maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in registration order. Names are unique.
type Registry struct {
	mu   sync.RWMutex
	jobs []Job
}

// NewRegistry builds a registry preloaded with jobs; nil jobs are skipped.
func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register appends job. A nil job is ignored.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.jobs {
		if existing.Name() == job.Name() {
			return fmt.Errorf("job %q already registered", job.Name())
		}
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) Jobs() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
