package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited indicates the gateway answered HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded, please try again in a moment")
	// ErrQuotaExhausted indicates the gateway answered HTTP 402.
	ErrQuotaExhausted = errors.New("ai credits exhausted, please add credits to continue")
	// ErrEmptyContent is returned for blank submissions.
	ErrEmptyContent = &ValidationError{Field: "content", Message: "please enter content to analyze"}
	// ErrUnauthenticated is returned when analysis needs an identity and none is present.
	ErrUnauthenticated = errors.New("please login to use ai analysis")
	// ErrSuperseded marks a result discarded because a newer analysis was started.
	ErrSuperseded = errors.New("analysis superseded by a newer request")
)

// ValidationError is a local input problem; no network call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// GatewayError is any non-2xx answer other than 429/402, or a transport
// failure (StatusCode 0).
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ai gateway unreachable: %s", e.Body)
	}
	return fmt.Sprintf("ai gateway error: %d", e.StatusCode)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
