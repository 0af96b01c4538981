package application

import (
	"strconv"
	"strings"

	"github.com/bnema/jobgate/internal/domain"
)

// EvaluateQuota decides whether req fits plan given activeCount running jobs.
// Rules are checked in a fixed order and the first failing one is reported.
func EvaluateQuota(req domain.LaunchRequest, plan domain.PlanTier, activeCount int) domain.Decision {
	if decision, invalid := invalidRequest(req, plan); invalid {
		return decision
	}
	if activeCount >= plan.MaxConcurrent {
		return domain.Reject(domain.ReasonConcurrencyExceeded, plan, strconv.Itoa(activeCount))
	}
	if req.DurationSeconds > plan.MaxDurationSeconds {
		return domain.Reject(domain.ReasonDurationExceeded, plan, strconv.Itoa(req.DurationSeconds)+"s")
	}
	if !plan.Methods.Contains(req.Method) {
		return domain.Reject(domain.ReasonMethodNotAllowed, plan, req.Method)
	}

	return domain.Accept(plan)
}

func invalidRequest(req domain.LaunchRequest, plan domain.PlanTier) (domain.Decision, bool) {
	err := req.Validate()
	if err == nil {
		return domain.Decision{}, false
	}
	return domain.Reject(domain.ReasonInvalidRequest, plan, strings.ReplaceAll(err.Error(), "\n", "; ")), true
}
