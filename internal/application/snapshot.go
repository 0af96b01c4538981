package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

const DefaultRequestTimeout = 10 * time.Second

// Snapshot is an immutable copy of the account's job list as last fetched.
type Snapshot struct {
	Jobs      []domain.Job
	FetchedAt time.Time
	// Sequence orders fetches by start time. Generation is the invalidation epoch the fetch began in.
	Sequence   uint64
	Generation uint64
}

// JobSnapshotStore caches the job list for one account. Readers never block on a fetch and
// always observe a whole snapshot.
type JobSnapshotStore struct {
	jobs      ports.JobService
	accountID domain.AccountID
	clock     ports.Clock
	timeout   time.Duration
	metrics   *Metrics

	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	sequence   atomic.Uint64
	storeMu    sync.Mutex
	group      singleflight.Group
}

func NewJobSnapshotStore(jobs ports.JobService, accountID domain.AccountID, clock ports.Clock, timeout time.Duration, metrics *Metrics) *JobSnapshotStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &JobSnapshotStore{
		jobs:      jobs,
		accountID: accountID,
		clock:     clock,
		timeout:   timeout,
		metrics:   metrics,
	}
}

// Refresh fetches the job list and replaces the snapshot. Callers in the same generation share
// one in-flight fetch. On failure the previous snapshot is kept and the error wraps domain.ErrFetch.
func (s *JobSnapshotStore) Refresh(ctx context.Context) error {
	generation := s.generation.Load()
	key := strconv.FormatUint(generation, 10)

	// The shared fetch must outlive any single caller that gives up waiting.
	fetchCtx := context.WithoutCancel(ctx)
	result := s.group.DoChan(key, func() (any, error) {
		return nil, s.fetch(fetchCtx, generation)
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: list jobs: %w", domain.ErrFetch, ctx.Err())
	case res := <-result:
		return res.Err
	}
}

func (s *JobSnapshotStore) fetch(ctx context.Context, generation uint64) error {
	sequence := s.sequence.Add(1)

	requestCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	jobs, err := s.jobs.ListJobs(requestCtx, s.accountID)
	s.metrics.observeRefresh("jobs", err)
	if err != nil {
		return fmt.Errorf("%w: list jobs: %w", domain.ErrFetch, err)
	}

	next := &Snapshot{
		Jobs:       append([]domain.Job(nil), jobs...),
		FetchedAt:  s.clock.Now(),
		Sequence:   sequence,
		Generation: generation,
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	if prev := s.current.Load(); prev != nil && prev.Sequence > sequence {
		log.WithFields(log.Fields{
			"account":  s.accountID,
			"sequence": sequence,
			"stored":   prev.Sequence,
		}).Debug("discarding job list older than stored snapshot")
		return nil
	}
	s.current.Store(next)
	s.metrics.observeSnapshot(*next, domain.CountActive(next.Jobs, next.FetchedAt))

	return nil
}

// Invalidate marks the snapshot stale. The next Refresh starts a new fetch instead of joining
// one that began before the call.
func (s *JobSnapshotStore) Invalidate() {
	s.generation.Add(1)
}

func (s *JobSnapshotStore) Snapshot() Snapshot {
	if snapshot := s.current.Load(); snapshot != nil {
		return *snapshot
	}
	return Snapshot{}
}

func (s *JobSnapshotStore) Loaded() bool {
	return s.current.Load() != nil
}

// IsStale reports whether the snapshot should be re-fetched before it is trusted for admission.
// A non-positive maxAge treats every snapshot as stale.
func (s *JobSnapshotStore) IsStale(maxAge time.Duration) bool {
	snapshot := s.current.Load()
	if snapshot == nil {
		return true
	}
	if snapshot.Generation < s.generation.Load() {
		return true
	}
	if maxAge <= 0 {
		return true
	}
	return s.clock.Now().Sub(snapshot.FetchedAt) > maxAge
}

func (s *JobSnapshotStore) ActiveJobs() []domain.Job {
	return domain.ActiveJobs(s.Snapshot().Jobs, s.clock.Now())
}

func (s *JobSnapshotStore) CountActive() int {
	return domain.CountActive(s.Snapshot().Jobs, s.clock.Now())
}
