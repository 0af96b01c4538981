package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/jobgate/internal/domain"
)

func TestUserMessage(t *testing.T) {
	pro := domain.DefaultPlanCatalog().Resolve(domain.PlanPro)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "concurrency",
			err:  domain.Reject(domain.ReasonConcurrencyExceeded, pro, "").Err(),
			want: "your PRO plan allows only 3 concurrent jobs; stop a running job or upgrade your plan",
		},
		{
			name: "duration wrapped",
			err:  fmt.Errorf("submit: %w", domain.Reject(domain.ReasonDurationExceeded, pro, "301s").Err()),
			want: "your PRO plan allows max 300s duration; requested 301s",
		},
		{
			name: "method",
			err:  domain.Reject(domain.ReasonMethodNotAllowed, pro, "syn").Err(),
			want: `method "syn" is not available in your PRO plan; upgrade to access more methods`,
		},
		{
			name: "fetch",
			err:  fmt.Errorf("%w: list jobs: %w", domain.ErrFetch, errors.New("dial tcp: refused")),
			want: MessageUnreachable,
		},
		{
			name: "submission",
			err:  fmt.Errorf("%w: launch job: %w", domain.ErrSubmission, errors.New("502")),
			want: MessageUnreachable,
		},
		{name: "other", err: errors.New("account id is required"), want: "account id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
