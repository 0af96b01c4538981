package jobservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/jobgate/internal/domain"
)

var naiveTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// flexibleID accepts job ids encoded as JSON numbers or strings.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*id = flexibleID(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("decode job id: %w", err)
	}
	*id = flexibleID(number.String())
	return nil
}

// flexibleTime accepts RFC 3339 timestamps and zone-less ISO 8601 timestamps, which are read as UTC.
type flexibleTime struct {
	time.Time
}

func (t *flexibleTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := parseTimestamp(strings.TrimSpace(*raw))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t flexibleTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func parseTimestamp(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed.UTC(), nil
	}
	for _, layout := range naiveTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", raw)
}

type jobPayload struct {
	ID        flexibleID   `json:"id"`
	Target    string       `json:"target"`
	Port      int          `json:"port"`
	Method    string       `json:"method"`
	Duration  int          `json:"duration"`
	Status    string       `json:"status"`
	ExpiresAt flexibleTime `json:"expires_at"`
	CreatedAt flexibleTime `json:"created_at"`
}

func (p jobPayload) toDomain() domain.Job {
	return domain.Job{
		ID:              domain.JobID(p.ID),
		Target:          p.Target,
		Port:            p.Port,
		Method:          domain.NormalizeMethod(p.Method),
		DurationSeconds: p.Duration,
		Status:          domain.JobStatus(strings.ToLower(strings.TrimSpace(p.Status))),
		ExpiresAt:       p.ExpiresAt.Time,
		CreatedAt:       p.CreatedAt.Time,
	}
}

type listJobsResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Jobs    []jobPayload `json:"jobs"`
	Error   string       `json:"error"`
}

type launchJobRequest struct {
	Action   string `json:"action"`
	Target   string `json:"target"`
	Port     int    `json:"port"`
	Duration int    `json:"duration"`
	Method   string `json:"method"`
}

type launchJobResponse struct {
	Success bool        `json:"success"`
	Job     *jobPayload `json:"job"`
	Error   string      `json:"error"`
}

type stopJobRequest struct {
	Action string `json:"action"`
	JobID  string `json:"job_id"`
}

type stopJobResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Error   string `json:"error"`
}

type settingsResponse struct {
	Plan          string       `json:"plan"`
	PlanExpiresAt flexibleTime `json:"plan_expires_at"`
	Error         string       `json:"error"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
