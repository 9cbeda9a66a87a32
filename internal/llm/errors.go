package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrMissingCredential is returned per request when the provider needs an API
// key and none was configured.
var ErrMissingCredential = errors.New("inference credential is not configured")

// Kind classifies why a remote inference call failed
type Kind string

const (
	KindUnavailable  Kind = "unavailable"
	KindTimeout      Kind = "timeout"
	KindUpstream     Kind = "upstream"
	KindMalformed    Kind = "malformed_response"
	KindUnauthorized Kind = "unauthorized"
)

// Error is the single failure type surfaced by generators
type Error struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s inference call failed (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s inference call failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is an inference timeout
func IsTimeout(err error) bool {
	var llmErr *Error
	return errors.As(err, &llmErr) && llmErr.Kind == KindTimeout
}

// transportError wraps a failure that happened before a response arrived
func transportError(provider string, err error) *Error {
	kind := KindUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// statusError wraps a non-200 reply from the provider
func statusError(provider string, status int, body []byte) *Error {
	kind := KindUpstream
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindUnauthorized
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		kind = KindTimeout
	}
	return &Error{Kind: kind, Provider: provider, StatusCode: status, Err: fmt.Errorf("%s", truncate(string(body), 512))}
}

func malformedError(provider string, err error) *Error {
	return &Error{Kind: KindMalformed, Provider: provider, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
