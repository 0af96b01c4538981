package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid launch request")
	ErrConcurrencyExceeded = errors.New("concurrent job limit reached")
	ErrDurationExceeded    = errors.New("duration exceeds plan limit")
	ErrMethodNotAllowed    = errors.New("method not allowed by plan")

	ErrFetch      = errors.New("fetch failed")
	ErrSubmission = errors.New("submission failed")

	ErrInvalidPlan = errors.New("invalid plan")
	ErrUnknownJob  = errors.New("job not found")
)
