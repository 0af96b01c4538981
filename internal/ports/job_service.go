package ports

import (
	"context"

	"github.com/bnema/jobgate/internal/domain"
)

// JobService is the external job runner. It is the only source of truth for job status.
type JobService interface {
	ListJobs(ctx context.Context, accountID domain.AccountID) ([]domain.Job, error)
	LaunchJob(ctx context.Context, accountID domain.AccountID, req domain.LaunchRequest) (domain.Job, error)
	StopJob(ctx context.Context, accountID domain.AccountID, jobID domain.JobID) error
}
