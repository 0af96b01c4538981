package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const maxPort = 65535

type LaunchRequest struct {
	Target          string
	Port            int
	DurationSeconds int
	Method          string
}

// ParseLaunchRequest builds a request from free-text input. Fields that do not parse are left
// zero so that validation rejects them.
func ParseLaunchRequest(target, port, duration, method string) LaunchRequest {
	return LaunchRequest{
		Target:          strings.TrimSpace(target),
		Port:            parsePositiveInt(port),
		DurationSeconds: parsePositiveInt(duration),
		Method:          strings.TrimSpace(method),
	}
}

func (r LaunchRequest) Validate() error {
	var problems []error
	if strings.TrimSpace(r.Target) == "" {
		problems = append(problems, errors.New("target is required"))
	}
	if r.Port < 1 || r.Port > maxPort {
		problems = append(problems, fmt.Errorf("port must be between 1 and %d", maxPort))
	}
	if r.DurationSeconds < 1 {
		problems = append(problems, errors.New("duration must be a positive number of seconds"))
	}
	if strings.TrimSpace(r.Method) == "" {
		problems = append(problems, errors.New("method is required"))
	}

	return errors.Join(problems...)
}

func parsePositiveInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
