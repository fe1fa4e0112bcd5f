// README: AI sentinel errors, upstream status errors, and the typed delegate result.
package ai

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDisabled means no provider is configured.
	ErrDisabled = errors.New("ai: disabled")
	// ErrEmptyResponse means the provider answered without usable text.
	ErrEmptyResponse = errors.New("ai: empty response")
	// ErrUnknownProvider is returned by NewCompleter.
	ErrUnknownProvider = errors.New("ai: unknown provider")
)

// StatusError carries the HTTP status an upstream call failed with.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai: %s returned HTTP %d: %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("ai: %s returned HTTP %d", e.Provider, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Reason says why the delegate produced no answer.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonDisabled     Reason = "disabled"
	ReasonUnavailable  Reason = "unavailable"
	ReasonTimeout      Reason = "timeout"
	ReasonRateLimited  Reason = "rate_limited"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonUpstream     Reason = "upstream"
	ReasonEmpty        Reason = "empty"
)

// Result is either Text (success) or a non-empty Reason (failure).
type Result struct {
	Text   string
	Reason Reason
}

func (r Result) OK() bool { return r.Reason == ReasonNone }

func reasonForStatus(code int) Reason {
	switch code {
	case http.StatusTooManyRequests:
		return ReasonRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ReasonUnauthorized
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ReasonTimeout
	default:
		return ReasonUpstream
	}
}
