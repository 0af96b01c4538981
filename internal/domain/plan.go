package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

type PlanID string

const (
	PlanFree     PlanID = "free"
	PlanPro      PlanID = "pro"
	PlanUltimate PlanID = "ultimate"
)

// MethodSet is either the wildcard "all" or a finite set of lower-cased method names.
type MethodSet struct {
	all     bool
	methods map[string]struct{}
}

func AllMethods() MethodSet {
	return MethodSet{all: true}
}

func NewMethodSet(methods ...string) MethodSet {
	set := MethodSet{methods: make(map[string]struct{}, len(methods))}
	for _, method := range methods {
		normalized := NormalizeMethod(method)
		if normalized == "" {
			continue
		}
		set.methods[normalized] = struct{}{}
	}
	return set
}

func (s MethodSet) All() bool {
	return s.all
}

func (s MethodSet) Contains(method string) bool {
	if s.all {
		return true
	}
	_, ok := s.methods[NormalizeMethod(method)]
	return ok
}

func (s MethodSet) Len() int {
	return len(s.methods)
}

func (s MethodSet) List() []string {
	if s.all {
		return nil
	}
	methods := make([]string, 0, len(s.methods))
	for method := range s.methods {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

func (s MethodSet) String() string {
	if s.all {
		return "all"
	}
	return strings.Join(s.List(), ", ")
}

func (s MethodSet) MarshalJSON() ([]byte, error) {
	if s.all {
		return json.Marshal("all")
	}
	return json.Marshal(s.List())
}

func NormalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

func NormalizePlanID(id PlanID) PlanID {
	return PlanID(strings.ToLower(strings.TrimSpace(string(id))))
}

type PlanTier struct {
	ID                 PlanID
	MaxConcurrent      int
	MaxDurationSeconds int
	Methods            MethodSet
}

func (t PlanTier) Validate() error {
	if strings.TrimSpace(string(t.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPlan)
	}
	if t.MaxConcurrent < 1 {
		return fmt.Errorf("%w: plan %s: max concurrent must be at least 1", ErrInvalidPlan, t.ID)
	}
	if t.MaxDurationSeconds < 1 {
		return fmt.Errorf("%w: plan %s: max duration must be at least 1 second", ErrInvalidPlan, t.ID)
	}
	if !t.Methods.All() && t.Methods.Len() == 0 {
		return fmt.Errorf("%w: plan %s: no methods allowed", ErrInvalidPlan, t.ID)
	}

	return nil
}

func (t PlanTier) MaxDuration() time.Duration {
	return time.Duration(t.MaxDurationSeconds) * time.Second
}

// AccountPlanState is the plan assignment reported by the plan service.
// A zero ExpiresAt means the plan does not expire.
type AccountPlanState struct {
	Tier      PlanID
	ExpiresAt time.Time
}

// Expired reports whether the stored tier no longer applies at now. The free tier never expires.
func (s AccountPlanState) Expired(now time.Time, grace time.Duration) bool {
	if s.StoredTier() == PlanFree || s.ExpiresAt.IsZero() {
		return false
	}
	if grace < 0 {
		grace = 0
	}
	return s.ExpiresAt.Add(grace).Before(now)
}

// EffectiveTierID degrades to free once the plan has expired. The stored tier is left untouched.
func (s AccountPlanState) EffectiveTierID(now time.Time, grace time.Duration) PlanID {
	if s.Expired(now, grace) {
		return PlanFree
	}
	return s.StoredTier()
}

func (s AccountPlanState) StoredTier() PlanID {
	tier := NormalizePlanID(s.Tier)
	if tier == "" {
		return PlanFree
	}
	return tier
}
