package domain

import (
	"fmt"
	"sort"
	"time"
)

// PlanCatalog is the single table of tier limits. It is built once and never mutated.
type PlanCatalog struct {
	tiers       map[PlanID]PlanTier
	gracePeriod time.Duration
}

func NewPlanCatalog(gracePeriod time.Duration, tiers ...PlanTier) (*PlanCatalog, error) {
	if gracePeriod < 0 {
		return nil, fmt.Errorf("%w: grace period must not be negative", ErrInvalidPlan)
	}

	byID := make(map[PlanID]PlanTier, len(tiers))
	for _, tier := range tiers {
		tier.ID = NormalizePlanID(tier.ID)
		if err := tier.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byID[tier.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate plan %s", ErrInvalidPlan, tier.ID)
		}
		byID[tier.ID] = tier
	}

	if _, ok := byID[PlanFree]; !ok {
		return nil, fmt.Errorf("%w: catalog must define the %s plan", ErrInvalidPlan, PlanFree)
	}

	return &PlanCatalog{tiers: byID, gracePeriod: gracePeriod}, nil
}

func DefaultPlanTiers() []PlanTier {
	return []PlanTier{
		{ID: PlanFree, MaxConcurrent: 1, MaxDurationSeconds: 60, Methods: NewMethodSet("dns", "udp", "tcp")},
		{ID: PlanPro, MaxConcurrent: 3, MaxDurationSeconds: 300, Methods: NewMethodSet("dns", "udp", "tcp", "http", "tls")},
		{ID: PlanUltimate, MaxConcurrent: 10, MaxDurationSeconds: 1800, Methods: AllMethods()},
	}
}

func DefaultPlanCatalog() *PlanCatalog {
	catalog, err := NewPlanCatalog(0, DefaultPlanTiers()...)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Resolve fails closed: unknown identifiers get the free tier.
func (c *PlanCatalog) Resolve(id PlanID) PlanTier {
	if tier, ok := c.Lookup(id); ok {
		return tier
	}
	return c.tiers[PlanFree]
}

func (c *PlanCatalog) Lookup(id PlanID) (PlanTier, bool) {
	tier, ok := c.tiers[NormalizePlanID(id)]
	return tier, ok
}

func (c *PlanCatalog) IsAllowedMethod(tier PlanTier, method string) bool {
	return tier.Methods.Contains(method)
}

// Effective resolves the tier that governs quota decisions for state at now.
func (c *PlanCatalog) Effective(state AccountPlanState, now time.Time) PlanTier {
	return c.Resolve(state.EffectiveTierID(now, c.gracePeriod))
}

func (c *PlanCatalog) GracePeriod() time.Duration {
	return c.gracePeriod
}

func (c *PlanCatalog) Tiers() []PlanTier {
	tiers := make([]PlanTier, 0, len(c.tiers))
	for _, tier := range c.tiers {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].MaxConcurrent == tiers[j].MaxConcurrent {
			return tiers[i].ID < tiers[j].ID
		}
		return tiers[i].MaxConcurrent < tiers[j].MaxConcurrent
	})
	return tiers
}
