package application

import (
	"errors"

	"github.com/bnema/jobgate/internal/domain"
)

const MessageUnreachable = "could not reach service, try again"

// UserMessage maps err to the text shown to the user. Each rejection keeps its own message;
// every I/O failure collapses to MessageUnreachable.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rejection *domain.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Error()
	}

	switch {
	case errors.Is(err, domain.ErrFetch), errors.Is(err, domain.ErrSubmission):
		return MessageUnreachable
	default:
		return err.Error()
	}
}
