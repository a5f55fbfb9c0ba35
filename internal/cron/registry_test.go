package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	registry, err := NewRegistry(jobA, nil, jobB)
	require.NoError(t, err)

	jobs := registry.Jobs()
	require.Equal(t, []Job{jobA, jobB}, jobs)

	jobs[0] = nil
	require.NotNil(t, registry.Jobs()[0])
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	registry, err := NewRegistry(&stubJob{name: "a"})
	require.NoError(t, err)
	require.Error(t, registry.Register(&stubJob{name: "a"}))

	_, err = NewRegistry(&stubJob{name: "x"}, &stubJob{name: "x"})
	require.Error(t, err)
}
