package source

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownSeries is returned for identifiers that neither the catalog nor
// a provider prefix can resolve.
var ErrUnknownSeries = errors.New("unknown series")

// APIError represents a non-2xx response from an upstream source.
type APIError struct {
	Source     string `json:"-"`
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("%s api error: status=%d code=%s message=%s", e.Source, e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("%s api error: status=%d message=%s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api error: status=%d", e.Source, e.StatusCode)
}

// AuthError indicates a rejected credential (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// NotFoundError indicates the requested series or indicator does not exist.
type NotFoundError struct{ *APIError }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("series not found: %s", e.APIError.Error())
}

// ServerError indicates 5xx errors from the provider.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

// UnavailableError means a source cannot be queried at all, typically
// because its credential is not configured. No request is made.
type UnavailableError struct {
	Source string
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Source, e.Reason)
}

// EmptyPayloadError means the upstream answered successfully but carried no
// observations.
type EmptyPayloadError struct {
	Source string
	ID     string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("%s returned no observations for %s", e.Source, e.ID)
}

// IsUnavailable reports whether err is, or wraps, an *UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
