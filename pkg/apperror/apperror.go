package apperror

import (
	"errors"
	"fmt"
)

// Kind is the stable error code reported to clients.
type Kind string

const (
	KindConfiguration       Kind = "configuration_error"
	KindInvalidQuery        Kind = "invalid_query"
	KindUnprofessional      Kind = "unprofessional_request"
	KindInsufficientContext Kind = "insufficient_context"
	KindUpstreamRateLimit   Kind = "upstream_rate_limit"
	KindUpstreamFailure     Kind = "upstream_failure"
	KindAnalyticsFailure    Kind = "analytics_failure"
	KindBadRequest          Kind = "bad_request"
	KindUnauthorized        Kind = "unauthorized"
	KindInternal            Kind = "internal_error"
)

// Error carries a Kind, a user-facing message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
