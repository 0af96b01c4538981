package jobservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
	"github.com/bnema/jobgate/internal/version"
)

const (
	jobsPath            = "jobs"
	settingsPath        = "settings"
	maxResponseBytes    = 1 << 20
	defaultTimeout      = 10 * time.Second
	headerAccountID     = "X-Account-Id"
	headerIdempotency   = "Idempotency-Key"
	actionStart         = "start"
	actionStop          = "stop"
	contentTypeJSON     = "application/json"
	userAgentProductKey = "jobgate"
)

var (
	ErrUnauthorized = errors.New("job service rejected credentials")
	ErrUnsuccessful = errors.New("job service reported failure")
)

// Client talks to the job and plan services over JSON/HTTP.
type Client struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.JobService  = Client{}
	_ ports.PlanService = Client{}
)

func (c Client) ListJobs(ctx context.Context, accountID domain.AccountID) ([]domain.Job, error) {
	var payload listJobsResponse
	if err := c.do(ctx, http.MethodGet, jobsPath, accountID, nil, &payload); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("list jobs: %w", unsuccessful(payload.Error))
	}

	jobs := make([]domain.Job, 0, len(payload.Jobs))
	for _, job := range payload.Jobs {
		jobs = append(jobs, job.toDomain())
	}

	return jobs, nil
}

func (c Client) LaunchJob(ctx context.Context, accountID domain.AccountID, req domain.LaunchRequest) (domain.Job, error) {
	body := launchJobRequest{
		Action:   actionStart,
		Target:   strings.TrimSpace(req.Target),
		Port:     req.Port,
		Duration: req.DurationSeconds,
		Method:   strings.ToUpper(strings.TrimSpace(req.Method)),
	}

	var payload launchJobResponse
	if err := c.do(ctx, http.MethodPost, jobsPath, accountID, body, &payload); err != nil {
		return domain.Job{}, fmt.Errorf("launch job: %w", err)
	}
	if !payload.Success {
		return domain.Job{}, fmt.Errorf("launch job: %w", unsuccessful(payload.Error))
	}
	if payload.Job == nil || payload.Job.ID == "" {
		return domain.Job{}, errors.New("launch job: response missing job")
	}

	return payload.Job.toDomain(), nil
}

func (c Client) StopJob(ctx context.Context, accountID domain.AccountID, jobID domain.JobID) error {
	body := stopJobRequest{Action: actionStop, JobID: string(jobID)}

	var payload stopJobResponse
	err := c.do(ctx, http.MethodPost, jobsPath, accountID, body, &payload)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("stop job %s: %w", jobID, domain.ErrUnknownJob)
		}
		return fmt.Errorf("stop job %s: %w", jobID, err)
	}
	if !payload.Success {
		return fmt.Errorf("stop job %s: %w", jobID, unsuccessful(payload.Error))
	}

	return nil
}

func (c Client) GetAccountPlan(ctx context.Context, accountID domain.AccountID) (domain.AccountPlanState, error) {
	var payload settingsResponse
	if err := c.do(ctx, http.MethodGet, settingsPath, accountID, nil, &payload); err != nil {
		return domain.AccountPlanState{}, fmt.Errorf("get account plan: %w", err)
	}

	return domain.AccountPlanState{
		Tier:      domain.PlanID(payload.Plan),
		ExpiresAt: payload.PlanExpiresAt.Time,
	}, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

func (c Client) do(ctx context.Context, method, path string, accountID domain.AccountID, body any, out any) error {
	if strings.TrimSpace(string(accountID)) == "" {
		return errors.New("account id is required")
	}

	endpoint, err := buildAPIURL(c.BaseURL, path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", userAgentProductKey+"/"+version.Version)
	req.Header.Set(headerAccountID, string(accountID))
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if key, ok := ports.IdempotencyKey(ctx); ok {
		req.Header.Set(headerIdempotency, key)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeStatusError(resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

func decodeStatusError(resp *http.Response) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err == nil {
		statusErr.Message = payload.Error
		if statusErr.Message == "" {
			statusErr.Message = payload.Message
		}
	}

	return statusErr
}

func unsuccessful(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrUnsuccessful
	}
	return fmt.Errorf("%w: %s", ErrUnsuccessful, message)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", errors.New("service base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse service base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("service base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("service base url host is required")
	}

	return parsed.JoinPath(path).String(), nil
}
