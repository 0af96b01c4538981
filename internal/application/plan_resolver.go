package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

// PlanResolver caches the account's plan assignment and resolves the tier that applies now.
type PlanResolver struct {
	plans     ports.PlanService
	catalog   *domain.PlanCatalog
	accountID domain.AccountID
	clock     ports.Clock
	timeout   time.Duration
	metrics   *Metrics

	mu        sync.RWMutex
	state     domain.AccountPlanState
	fetchedAt time.Time
	loaded    bool
	group     singleflight.Group
}

func NewPlanResolver(plans ports.PlanService, catalog *domain.PlanCatalog, accountID domain.AccountID, clock ports.Clock, timeout time.Duration, metrics *Metrics) *PlanResolver {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if catalog == nil {
		catalog = domain.DefaultPlanCatalog()
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &PlanResolver{
		plans:     plans,
		catalog:   catalog,
		accountID: accountID,
		clock:     clock,
		timeout:   timeout,
		metrics:   metrics,
	}
}

func (r *PlanResolver) Refresh(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)
	result := r.group.DoChan("plan", func() (any, error) {
		return nil, r.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: get account plan: %w", domain.ErrFetch, ctx.Err())
	case res := <-result:
		return res.Err
	}
}

func (r *PlanResolver) fetch(ctx context.Context) error {
	requestCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	state, err := r.plans.GetAccountPlan(requestCtx, r.accountID)
	r.metrics.observeRefresh("plan", err)
	if err != nil {
		return fmt.Errorf("%w: get account plan: %w", domain.ErrFetch, err)
	}

	r.mu.Lock()
	r.state = state
	r.fetchedAt = r.clock.Now()
	r.loaded = true
	r.mu.Unlock()

	return nil
}

func (r *PlanResolver) State() (domain.AccountPlanState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, r.loaded
}

func (r *PlanResolver) Catalog() *domain.PlanCatalog {
	return r.catalog
}

func (r *PlanResolver) isStale(maxAge time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded || maxAge <= 0 {
		return true
	}
	return r.clock.Now().Sub(r.fetchedAt) > maxAge
}

// Effective returns the tier governing admission, re-fetching the plan when it is older than
// maxAge. A failed fetch falls back to the cached state; without one the fetch error is returned.
func (r *PlanResolver) Effective(ctx context.Context, maxAge time.Duration) (domain.PlanTier, error) {
	if r.isStale(maxAge) {
		if err := r.Refresh(ctx); err != nil {
			if _, loaded := r.State(); !loaded {
				return domain.PlanTier{}, err
			}
			log.WithError(err).WithField("account", r.accountID).Warn("plan refresh failed, using cached plan")
			r.metrics.observeStaleFallback()
		}
	}

	state, _ := r.State()
	return r.catalog.Effective(state, r.clock.Now()), nil
}
