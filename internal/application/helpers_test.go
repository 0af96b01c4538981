package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/jobgate/internal/domain"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeJobService lets tests control timing of individual calls, which the generated mocks cannot.
type fakeJobService struct {
	listCalls   atomic.Int32
	launchCalls atomic.Int32
	stopCalls   atomic.Int32

	list   func(ctx context.Context, call int) ([]domain.Job, error)
	launch func(ctx context.Context, req domain.LaunchRequest) (domain.Job, error)
	stop   func(ctx context.Context, jobID domain.JobID) error
}

func (f *fakeJobService) ListJobs(ctx context.Context, _ domain.AccountID) ([]domain.Job, error) {
	call := int(f.listCalls.Add(1))
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, call)
}

func (f *fakeJobService) LaunchJob(ctx context.Context, _ domain.AccountID, req domain.LaunchRequest) (domain.Job, error) {
	f.launchCalls.Add(1)
	if f.launch == nil {
		return domain.Job{}, nil
	}
	return f.launch(ctx, req)
}

func (f *fakeJobService) StopJob(ctx context.Context, _ domain.AccountID, jobID domain.JobID) error {
	f.stopCalls.Add(1)
	if f.stop == nil {
		return nil
	}
	return f.stop(ctx, jobID)
}

func runningJob(id domain.JobID, expiresAt time.Time) domain.Job {
	return domain.Job{
		ID:              id,
		Target:          "192.0.2.1",
		Port:            53,
		Method:          "dns",
		DurationSeconds: 60,
		Status:          domain.JobStatusRunning,
		ExpiresAt:       expiresAt,
	}
}

func validRequest() domain.LaunchRequest {
	return domain.LaunchRequest{Target: "1.1.1.1", Port: 443, DurationSeconds: 30, Method: "udp"}
}
