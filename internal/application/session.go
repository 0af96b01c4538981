package application

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

type SessionConfig struct {
	AccountID       domain.AccountID
	RequestTimeout  time.Duration
	StaleAfter      time.Duration
	PollInterval    time.Duration
	StopConcurrency int
}

// Session wires the caches and controllers for a single account. Nothing is shared between sessions.
type Session struct {
	cfg       SessionConfig
	clock     ports.Clock
	Plans     *PlanResolver
	Snapshots *JobSnapshotStore
	Admission *AdmissionController
	Canceller *BulkCanceller
	Poller    *Poller
}

func NewSession(cfg SessionConfig, jobs ports.JobService, plans ports.PlanService, catalog *domain.PlanCatalog, clock ports.Clock, metrics *Metrics) *Session {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}

	resolver := NewPlanResolver(plans, catalog, cfg.AccountID, clock, cfg.RequestTimeout, metrics)
	snapshots := NewJobSnapshotStore(jobs, cfg.AccountID, clock, cfg.RequestTimeout, metrics)

	admission := NewAdmissionController(AdmissionConfig{
		AccountID:     cfg.AccountID,
		StaleAfter:    cfg.StaleAfter,
		LaunchTimeout: cfg.RequestTimeout,
	}, jobs, resolver, snapshots, metrics)

	return &Session{
		cfg:       cfg,
		clock:     clock,
		Plans:     resolver,
		Snapshots: snapshots,
		Admission: admission,
		Canceller: NewBulkCanceller(cfg.AccountID, jobs, snapshots, cfg.RequestTimeout, cfg.StopConcurrency, metrics),
		Poller:    NewPoller(cfg.PollInterval, resolver, snapshots),
	}
}

func (s *Session) AccountID() domain.AccountID {
	return s.cfg.AccountID
}

// Status refreshes both caches and reports what admission would currently see. Either refresh
// may fail; the error joins both failures and the returned Status holds whatever is cached.
func (s *Session) Status(ctx context.Context) (Status, error) {
	var errs error
	if err := s.Plans.Refresh(ctx); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := s.Snapshots.Refresh(ctx); err != nil {
		errs = errors.Join(errs, err)
	}

	return s.CurrentStatus(), errs
}

// CurrentStatus reads the caches without any network call.
func (s *Session) CurrentStatus() Status {
	now := s.clock.Now()
	state, planLoaded := s.Plans.State()
	snapshot := s.Snapshots.Snapshot()
	catalog := s.Plans.Catalog()

	return Status{
		AccountID:    s.cfg.AccountID,
		Now:          now,
		PlanLoaded:   planLoaded,
		PlanState:    state,
		PlanExpired:  planLoaded && state.Expired(now, catalog.GracePeriod()),
		Effective:    catalog.Effective(state, now),
		JobsLoaded:   s.Snapshots.Loaded(),
		Jobs:         snapshot.Jobs,
		ActiveJobs:   domain.ActiveJobs(snapshot.Jobs, now),
		SnapshotAsOf: snapshot.FetchedAt,
	}
}
