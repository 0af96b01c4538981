package application

import (
	"time"

	"github.com/bnema/jobgate/internal/domain"
)

type Status struct {
	AccountID    domain.AccountID
	Now          time.Time
	PlanLoaded   bool
	PlanState    domain.AccountPlanState
	PlanExpired  bool
	Effective    domain.PlanTier
	JobsLoaded   bool
	Jobs         []domain.Job
	ActiveJobs   []domain.Job
	SnapshotAsOf time.Time
}

// SlotsFree is how many more jobs the effective plan admits right now.
func (s Status) SlotsFree() int {
	free := s.Effective.MaxConcurrent - len(s.ActiveJobs)
	if free < 0 {
		return 0
	}
	return free
}

func (s Status) SnapshotAge() time.Duration {
	if s.SnapshotAsOf.IsZero() {
		return 0
	}
	return s.Now.Sub(s.SnapshotAsOf)
}
