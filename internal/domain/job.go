package domain

import "time"

type AccountID string
type JobID string
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusStopped   JobStatus = "stopped"
	JobStatusCompleted JobStatus = "completed"
)

// Job is a read-only copy of a record owned by the job service.
type Job struct {
	ID              JobID
	Target          string
	Port            int
	Method          string
	DurationSeconds int
	Status          JobStatus
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// Expiry returns when the job stops counting against quota. When the service did not report an
// expiry it is derived from the creation time and duration; ok is false if neither is known.
func (j Job) Expiry() (time.Time, bool) {
	if !j.ExpiresAt.IsZero() {
		return j.ExpiresAt, true
	}
	if !j.CreatedAt.IsZero() && j.DurationSeconds > 0 {
		return j.CreatedAt.Add(time.Duration(j.DurationSeconds) * time.Second), true
	}
	return time.Time{}, false
}

// IsActive reports whether the job counts against quota at now: running and not yet expired.
// A running job with no known expiry is counted.
func (j Job) IsActive(now time.Time) bool {
	if j.Status != JobStatusRunning {
		return false
	}
	expiry, ok := j.Expiry()
	if !ok {
		return true
	}
	return expiry.After(now)
}

// Remaining is the time left before the job expires, zero when expired or unknown.
func (j Job) Remaining(now time.Time) time.Duration {
	expiry, ok := j.Expiry()
	if !ok || !expiry.After(now) {
		return 0
	}
	return expiry.Sub(now)
}

func ActiveJobs(jobs []Job, now time.Time) []Job {
	active := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if job.IsActive(now) {
			active = append(active, job)
		}
	}
	return active
}

func CountActive(jobs []Job, now time.Time) int {
	count := 0
	for _, job := range jobs {
		if job.IsActive(now) {
			count++
		}
	}
	return count
}
