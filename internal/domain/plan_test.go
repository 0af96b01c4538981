package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodSet(t *testing.T) {
	set := NewMethodSet(" UDP", "dns", "", "udp")

	assert.False(t, set.All())
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"dns", "udp"}, set.List())
	assert.Equal(t, "dns, udp", set.String())
	assert.True(t, set.Contains("Udp "))
	assert.False(t, set.Contains("http"))

	all := AllMethods()
	assert.True(t, all.Contains("anything"))
	assert.Nil(t, all.List())
	assert.Equal(t, "all", all.String())
}

func TestPlanTierValidate(t *testing.T) {
	tests := []struct {
		name string
		tier PlanTier
		want string
	}{
		{name: "valid", tier: PlanTier{ID: "x", MaxConcurrent: 1, MaxDurationSeconds: 1, Methods: AllMethods()}},
		{name: "missing id", tier: PlanTier{MaxConcurrent: 1, MaxDurationSeconds: 1, Methods: AllMethods()}, want: "invalid plan: id is required"},
		{name: "zero concurrency", tier: PlanTier{ID: "x", MaxDurationSeconds: 1, Methods: AllMethods()}, want: "invalid plan: plan x: max concurrent must be at least 1"},
		{name: "zero duration", tier: PlanTier{ID: "x", MaxConcurrent: 1, Methods: AllMethods()}, want: "invalid plan: plan x: max duration must be at least 1 second"},
		{name: "no methods", tier: PlanTier{ID: "x", MaxConcurrent: 1, MaxDurationSeconds: 1, Methods: NewMethodSet()}, want: "invalid plan: plan x: no methods allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tier.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidPlan)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestAccountPlanStateExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		state   AccountPlanState
		grace   time.Duration
		expired bool
		tier    PlanID
	}{
		{name: "future expiry", state: AccountPlanState{Tier: PlanPro, ExpiresAt: now.Add(time.Hour)}, tier: PlanPro},
		{name: "expires exactly now", state: AccountPlanState{Tier: PlanPro, ExpiresAt: now}, tier: PlanPro},
		{name: "past expiry", state: AccountPlanState{Tier: PlanPro, ExpiresAt: now.Add(-time.Second)}, expired: true, tier: PlanFree},
		{name: "within grace", state: AccountPlanState{Tier: PlanPro, ExpiresAt: now.Add(-time.Minute)}, grace: time.Hour, tier: PlanPro},
		{name: "no expiry", state: AccountPlanState{Tier: PlanUltimate}, tier: PlanUltimate},
		{name: "free never expires", state: AccountPlanState{Tier: PlanFree, ExpiresAt: now.Add(-time.Hour)}, tier: PlanFree},
		{name: "empty tier is free", state: AccountPlanState{}, tier: PlanFree},
		{name: "tier is normalized", state: AccountPlanState{Tier: " PRO "}, tier: PlanPro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.state.Expired(now, tt.grace))
			assert.Equal(t, tt.tier, tt.state.EffectiveTierID(now, tt.grace))
		})
	}
}

func TestCatalogResolveFailsClosed(t *testing.T) {
	catalog := DefaultPlanCatalog()

	assert.Equal(t, PlanFree, catalog.Resolve("enterprise").ID)
	assert.Equal(t, PlanFree, catalog.Resolve("").ID)
	assert.Equal(t, PlanPro, catalog.Resolve("Pro").ID)

	_, ok := catalog.Lookup("enterprise")
	assert.False(t, ok)
}

func TestCatalogDefaults(t *testing.T) {
	catalog := DefaultPlanCatalog()

	free := catalog.Resolve(PlanFree)
	assert.Equal(t, 1, free.MaxConcurrent)
	assert.Equal(t, time.Minute, free.MaxDuration())
	assert.True(t, catalog.IsAllowedMethod(free, "DNS"))
	assert.False(t, catalog.IsAllowedMethod(free, "http"))

	pro := catalog.Resolve(PlanPro)
	assert.Equal(t, 3, pro.MaxConcurrent)
	assert.Equal(t, 300, pro.MaxDurationSeconds)
	assert.True(t, catalog.IsAllowedMethod(pro, "tls"))

	ultimate := catalog.Resolve(PlanUltimate)
	assert.Equal(t, 10, ultimate.MaxConcurrent)
	assert.True(t, catalog.IsAllowedMethod(ultimate, "whatever"))

	ids := make([]PlanID, 0, 3)
	for _, tier := range catalog.Tiers() {
		ids = append(ids, tier.ID)
	}
	assert.Equal(t, []PlanID{PlanFree, PlanPro, PlanUltimate}, ids)
}

func TestCatalogEffectiveUsesGracePeriod(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	catalog, err := NewPlanCatalog(2*time.Hour, DefaultPlanTiers()...)
	require.NoError(t, err)

	state := AccountPlanState{Tier: PlanPro, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, PlanPro, catalog.Effective(state, now).ID)
	assert.Equal(t, PlanFree, catalog.Effective(state, now.Add(2*time.Hour)).ID)
	assert.Equal(t, PlanFree, DefaultPlanCatalog().Effective(state, now).ID)
}

func TestNewPlanCatalogRejectsBadTables(t *testing.T) {
	pro := PlanTier{ID: PlanPro, MaxConcurrent: 3, MaxDurationSeconds: 300, Methods: AllMethods()}
	free := PlanTier{ID: PlanFree, MaxConcurrent: 1, MaxDurationSeconds: 60, Methods: NewMethodSet("dns")}

	_, err := NewPlanCatalog(0, pro)
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "must define the free plan")

	_, err = NewPlanCatalog(0, free, pro, PlanTier{ID: "PRO", MaxConcurrent: 5, MaxDurationSeconds: 5, Methods: AllMethods()})
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "duplicate plan pro")

	_, err = NewPlanCatalog(-time.Second, free)
	require.ErrorIs(t, err, ErrInvalidPlan)
}

func TestMethodSetMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(NewMethodSet("UDP", "dns"))
	require.NoError(t, err)
	assert.JSONEq(t, `["dns","udp"]`, string(raw))

	raw, err = json.Marshal(AllMethods())
	require.NoError(t, err)
	assert.JSONEq(t, `"all"`, string(raw))
}
