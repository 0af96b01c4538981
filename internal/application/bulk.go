package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

const DefaultStopConcurrency = 4

type StopFailure struct {
	JobID domain.JobID
	Err   error
}

type BulkResult struct {
	Succeeded int
	Failed    int
	Failures  []StopFailure
}

// Empty reports that there was nothing to stop, as opposed to every stop succeeding.
func (r BulkResult) Empty() bool {
	return r.Succeeded == 0 && r.Failed == 0
}

type BulkCanceller struct {
	accountID   domain.AccountID
	jobs        ports.JobService
	snapshots   *JobSnapshotStore
	timeout     time.Duration
	concurrency int
	metrics     *Metrics
}

func NewBulkCanceller(accountID domain.AccountID, jobs ports.JobService, snapshots *JobSnapshotStore, timeout time.Duration, concurrency int, metrics *Metrics) *BulkCanceller {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if concurrency < 1 {
		concurrency = DefaultStopConcurrency
	}

	return &BulkCanceller{
		accountID:   accountID,
		jobs:        jobs,
		snapshots:   snapshots,
		timeout:     timeout,
		concurrency: concurrency,
		metrics:     metrics,
	}
}

// StopAll stops every job the snapshot counts as active. Individual failures are collected,
// not fatal. The snapshot is refreshed exactly once after all stops settle; the returned error
// is non-nil only when that refresh fails, and the result is valid either way.
func (b *BulkCanceller) StopAll(ctx context.Context) (BulkResult, error) {
	if !b.snapshots.Loaded() {
		if err := b.snapshots.Refresh(ctx); err != nil {
			return BulkResult{}, err
		}
	}

	active := b.snapshots.ActiveJobs()
	if len(active) == 0 {
		return BulkResult{}, nil
	}

	errs := make([]error, len(active))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, job := range active {
		i, job := i, job
		g.Go(func() error {
			stopCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			errs[i] = b.jobs.StopJob(stopCtx, b.accountID, job.ID)
			b.metrics.observeStop(errs[i])
			return nil
		})
	}
	_ = g.Wait()

	var result BulkResult
	for i, err := range errs {
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, StopFailure{JobID: active[i].ID, Err: err})
			log.WithError(err).WithField("job", active[i].ID).Warn("stop job failed")
			continue
		}
		result.Succeeded++
	}

	b.snapshots.Invalidate()
	if err := b.snapshots.Refresh(ctx); err != nil {
		return result, fmt.Errorf("refresh jobs after stop all: %w", err)
	}

	return result, nil
}
