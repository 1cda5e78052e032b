package scheduler

import (
	"context"
	"errors"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: the scheduled job interface is defined only here
type Job interface {
	// Name returns the job name used by `scheduler run <job>`
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron spec with seconds, e.g. "0 0 9 * * 2"
	Schedule() string
}

// permanentError marks a failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the scheduler does not retry it
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retryable reports whether a job failure is worth another attempt
func Retryable(err error) bool {
	var p *permanentError
	return !errors.As(err, &p)
}

// JobResult is the outcome of one job invocation, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyLimit bounds the results kept per job
const historyLimit = 100

// JobHistory keeps the most recent results of one job.
// Not safe for concurrent use; the Scheduler guards it.
type JobHistory struct {
	ring  [historyLimit]JobResult
	next  int
	count int

	lastSuccess time.Time
	lastFailure time.Time
}

// Add records a result, evicting the oldest once full
func (h *JobHistory) Add(r JobResult) {
	h.ring[h.next] = r
	h.next = (h.next + 1) % historyLimit
	if h.count < historyLimit {
		h.count++
	}
	if r.Success {
		h.lastSuccess = r.StartTime
	} else {
		h.lastFailure = r.StartTime
	}
}

// Len is the number of retained results
func (h *JobHistory) Len() int { return h.count }

// Last returns the most recent result
func (h *JobHistory) Last() (JobResult, bool) {
	if h.count == 0 {
		return JobResult{}, false
	}
	return h.ring[(h.next+historyLimit-1)%historyLimit], true
}

// Latest returns up to n results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > h.count {
		n = h.count
	}
	out := make([]JobResult, 0, max(n, 0))
	for i := n; i > 0; i-- {
		out = append(out, h.ring[(h.next+historyLimit-i)%historyLimit])
	}
	return out
}

// Failures counts failed results among those retained
func (h *JobHistory) Failures() int {
	failed := 0
	for _, r := range h.Latest(h.count) {
		if !r.Success {
			failed++
		}
	}
	return failed
}

// SuccessRate is the retained success ratio in [0, 1]
func (h *JobHistory) SuccessRate() float64 {
	if h.count == 0 {
		return 0
	}
	return float64(h.count-h.Failures()) / float64(h.count)
}
