package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/nflepa/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	failures int32 // fail this many times before succeeding
	err      error
	calls    atomic.Int32
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		if j.err != nil {
			return j.err
		}
		return errors.New("upstream unavailable")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop(), WithRetry(2, time.Millisecond))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "export", schedule: "0 0 9 * * 2"}))
	assert.Error(t, s.AddJob(&stubJob{name: "export", schedule: "0 0 9 * * 2"}), "duplicate name")
	assert.Error(t, s.AddJob(&stubJob{name: "bad", schedule: "not a cron spec"}))

	assert.Equal(t, []string{"export"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "b", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@hourly"}))
	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RetriesThenSucceeds(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "export", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "export")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), job.calls.Load())

	stats := s.GetJobStats()["export"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunJob_GivesUp(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "export", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "export")
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "upstream unavailable", result.Error)

	history, err := s.GetJobHistory("export")
	require.NoError(t, err)
	assert.Equal(t, 1, history.Failures())
	assert.Equal(t, 0.0, history.SuccessRate())
}

func TestRunJob_PermanentNotRetried(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "export", schedule: "@daily", failures: 10, err: Permanent(errors.New("no plays"))}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "export")
	require.Error(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestRunJob_ContextCanceled(t *testing.T) {
	s := New(logger.Nop(), WithRetry(5, time.Hour))
	job := &stubJob{name: "export", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := s.RunJob(ctx, "export")
	require.Error(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Contains(t, result.Error, context.DeadlineExceeded.Error())
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler().RunJob(context.Background(), "missing")
	assert.Error(t, err)

	_, err = newTestScheduler().GetJobHistory("missing")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "export", schedule: "0 0 9 * * 2"}))
	assert.True(t, s.NextRun("missing").IsZero())
	assert.Equal(t, time.Tuesday, s.NextRun("export").Weekday(), "computed before Start")

	s.Start()
	defer s.Stop()

	next := s.NextRun("export")
	require.False(t, next.IsZero())
	assert.Equal(t, time.Tuesday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	_, ok := h.Last()
	assert.False(t, ok)
	assert.Empty(t, h.Latest(5))

	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{Attempts: i, Success: i%2 == 0})
	}
	assert.Equal(t, historyLimit, h.Len())
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)

	latest := h.Latest(3)
	require.Len(t, latest, 3)
	assert.Equal(t, []int{historyLimit + 7, historyLimit + 8, historyLimit + 9},
		[]int{latest[0].Attempts, latest[1].Attempts, latest[2].Attempts}, "oldest first")

	last, ok := h.Last()
	require.True(t, ok)
	assert.False(t, last.Success)
	assert.Equal(t, historyLimit+9, last.Attempts)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(errors.New("timeout")))
	assert.False(t, Retryable(Permanent(errors.New("no plays"))))
	assert.Nil(t, Permanent(nil))

	inner := errors.New("inner")
	assert.ErrorIs(t, Permanent(inner), inner)
}
