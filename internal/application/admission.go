package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

const DefaultStaleAfter = 5 * time.Second

type AdmissionConfig struct {
	AccountID     domain.AccountID
	StaleAfter    time.Duration
	LaunchTimeout time.Duration
}

// AdmissionController is the only path by which launch and stop requests reach the job service.
type AdmissionController struct {
	jobs      ports.JobService
	plans     *PlanResolver
	snapshots *JobSnapshotStore
	metrics   *Metrics
	cfg       AdmissionConfig
	newKey    func() string

	mu sync.Mutex
}

func NewAdmissionController(cfg AdmissionConfig, jobs ports.JobService, plans *PlanResolver, snapshots *JobSnapshotStore, metrics *Metrics) *AdmissionController {
	if cfg.LaunchTimeout <= 0 {
		cfg.LaunchTimeout = DefaultRequestTimeout
	}

	return &AdmissionController{
		jobs:      jobs,
		plans:     plans,
		snapshots: snapshots,
		metrics:   metrics,
		cfg:       cfg,
		newKey:    uuid.NewString,
	}
}

// Check runs admission without launching anything.
func (c *AdmissionController) Check(ctx context.Context, req domain.LaunchRequest) (domain.Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.decide(ctx, req)
}

// Submit launches req if the account's effective plan admits it. A rejection is returned as a
// *domain.RejectionError and never reaches the job service.
func (c *AdmissionController) Submit(ctx context.Context, req domain.LaunchRequest) (domain.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	decision, err := c.decide(ctx, req)
	if err != nil {
		return domain.Job{}, err
	}
	if !decision.Accepted() {
		return domain.Job{}, decision.Err()
	}

	launchCtx, cancel := context.WithTimeout(ctx, c.cfg.LaunchTimeout)
	defer cancel()
	launchCtx = ports.WithIdempotencyKey(launchCtx, c.newKey())

	job, err := c.jobs.LaunchJob(launchCtx, c.cfg.AccountID, req)
	c.metrics.observeLaunch(err)
	if err != nil {
		return domain.Job{}, fmt.Errorf("%w: launch job: %w", domain.ErrSubmission, err)
	}

	log.WithFields(log.Fields{
		"account": c.cfg.AccountID,
		"job":     job.ID,
		"plan":    decision.Plan.ID,
	}).Info("job launched")

	c.reconcile(ctx, "launch")

	return job, nil
}

// Stop asks the job service to stop one job and reconciles the snapshot.
func (c *AdmissionController) Stop(ctx context.Context, jobID domain.JobID) error {
	if strings.TrimSpace(string(jobID)) == "" {
		return fmt.Errorf("%w: job id is required", domain.ErrInvalidRequest)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stopCtx, cancel := context.WithTimeout(ctx, c.cfg.LaunchTimeout)
	defer cancel()
	stopCtx = ports.WithIdempotencyKey(stopCtx, c.newKey())

	err := c.jobs.StopJob(stopCtx, c.cfg.AccountID, jobID)
	c.metrics.observeStop(err)
	if err != nil {
		return fmt.Errorf("%w: stop job %s: %w", domain.ErrSubmission, jobID, err)
	}

	c.reconcile(ctx, "stop")

	return nil
}

func (c *AdmissionController) decide(ctx context.Context, req domain.LaunchRequest) (domain.Decision, error) {
	if decision, invalid := invalidRequest(req, domain.PlanTier{}); invalid {
		c.metrics.observeDecision(decision)
		return decision, nil
	}

	plan, err := c.plans.Effective(ctx, c.cfg.StaleAfter)
	if err != nil {
		return domain.Decision{}, err
	}

	if c.snapshots.IsStale(c.cfg.StaleAfter) {
		if err := c.snapshots.Refresh(ctx); err != nil {
			if !c.snapshots.Loaded() {
				return domain.Decision{}, err
			}
			log.WithError(err).WithField("account", c.cfg.AccountID).Warn("job refresh failed, admitting against last known snapshot")
			c.metrics.observeStaleFallback()
		}
	}

	decision := EvaluateQuota(req, plan, c.snapshots.CountActive())
	c.metrics.observeDecision(decision)
	log.WithFields(log.Fields{
		"account":  c.cfg.AccountID,
		"plan":     plan.ID,
		"accepted": decision.Accepted(),
		"reason":   decision.Reason,
	}).Debug("admission decision")

	return decision, nil
}

func (c *AdmissionController) reconcile(ctx context.Context, after string) {
	c.snapshots.Invalidate()
	if err := c.snapshots.Refresh(ctx); err != nil {
		log.WithError(err).WithField("after", after).Warn("job snapshot reconciliation failed")
	}
}
