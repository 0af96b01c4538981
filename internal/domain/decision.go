package domain

import (
	"fmt"
	"strings"
)

type RejectReason string

const (
	ReasonNone                RejectReason = ""
	ReasonInvalidRequest      RejectReason = "invalid_request"
	ReasonConcurrencyExceeded RejectReason = "concurrency_exceeded"
	ReasonDurationExceeded    RejectReason = "duration_exceeded"
	ReasonMethodNotAllowed    RejectReason = "method_not_allowed"
)

func (r RejectReason) Sentinel() error {
	switch r {
	case ReasonInvalidRequest:
		return ErrInvalidRequest
	case ReasonConcurrencyExceeded:
		return ErrConcurrencyExceeded
	case ReasonDurationExceeded:
		return ErrDurationExceeded
	case ReasonMethodNotAllowed:
		return ErrMethodNotAllowed
	default:
		return nil
	}
}

// Decision is the outcome of an admission check. The zero value accepts.
type Decision struct {
	Reason RejectReason
	Plan   PlanTier
	Detail string
}

func Accept(plan PlanTier) Decision {
	return Decision{Plan: plan}
}

func Reject(reason RejectReason, plan PlanTier, detail string) Decision {
	return Decision{Reason: reason, Plan: plan, Detail: detail}
}

func (d Decision) Accepted() bool {
	return d.Reason == ReasonNone
}

// Err returns nil when accepted and a *RejectionError otherwise.
func (d Decision) Err() error {
	if d.Accepted() {
		return nil
	}
	return &RejectionError{Reason: d.Reason, Plan: d.Plan, Detail: d.Detail}
}

type RejectionError struct {
	Reason RejectReason
	Plan   PlanTier
	Detail string
}

func (e *RejectionError) Error() string {
	plan := strings.ToUpper(string(e.Plan.ID))
	switch e.Reason {
	case ReasonInvalidRequest:
		if e.Detail == "" {
			return "please fill in all fields"
		}
		return "please fill in all fields: " + e.Detail
	case ReasonConcurrencyExceeded:
		return fmt.Sprintf("your %s plan allows only %d concurrent jobs; stop a running job or upgrade your plan", plan, e.Plan.MaxConcurrent)
	case ReasonDurationExceeded:
		return fmt.Sprintf("your %s plan allows max %ds duration; requested %s", plan, e.Plan.MaxDurationSeconds, e.Detail)
	case ReasonMethodNotAllowed:
		return fmt.Sprintf("method %q is not available in your %s plan; upgrade to access more methods", e.Detail, plan)
	default:
		return string(e.Reason)
	}
}

func (e *RejectionError) Is(target error) bool {
	return target == e.Reason.Sentinel()
}
