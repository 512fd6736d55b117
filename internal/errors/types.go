// Package errors classifies failures of the model and image upstreams so
// callers can decide between reporting an error and taking their fallback.
package errors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Kind is the classification of an upstream failure.
type Kind int

const (
	// KindPermanent is caused by the request itself (auth, bad payload).
	KindPermanent Kind = iota
	// KindTransient may succeed on a later request.
	KindTransient
	// KindDegraded means the upstream is short-circuited.
	KindDegraded
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindDegraded:
		return "degraded"
	default:
		return "permanent"
	}
}

// UpstreamError carries a classified upstream failure.
type UpstreamError struct {
	Kind Kind
	// Status is the HTTP status when the failure was a response.
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewTransientError(err error, message string) *UpstreamError {
	return &UpstreamError{Kind: KindTransient, Err: err, Message: message}
}

func NewPermanentError(err error, message string) *UpstreamError {
	return &UpstreamError{Kind: KindPermanent, Err: err, Message: message}
}

func NewDegradedError(err error, message string) *UpstreamError {
	return &UpstreamError{Kind: KindDegraded, Err: err, Message: message}
}

// FromHTTPStatus classifies a non-2xx response. The body is kept, shortened,
// for the log line.
func FromHTTPStatus(status int, body string) error {
	snippet := strings.TrimSpace(body)
	if len(snippet) > 300 {
		snippet = snippet[:300] + "..."
	}
	kind := KindPermanent
	switch status {
	case http.StatusTooManyRequests, http.StatusRequestTimeout,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = KindTransient
	}
	return &UpstreamError{Kind: kind, Status: status, Err: fmt.Errorf("http status %d: %s", status, snippet)}
}

// KindOf classifies err. Network failures are transient, everything
// unrecognised is permanent.
func KindOf(err error) Kind {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Kind
	}
	if err != nil && (isNetworkError(err) || isSyscallError(err)) {
		return KindTransient
	}
	return KindPermanent
}

func IsTransient(err error) bool { return err != nil && KindOf(err) == KindTransient }

func IsDegraded(err error) bool { return err != nil && KindOf(err) == KindDegraded }

// IsPermanent reports a failure caused by the request. Unclassified errors
// count only when their text names an auth or validation problem.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Kind == KindPermanent
	}
	lower := strings.ToLower(err.Error())
	for _, pattern := range []string{"unauthorized", "forbidden", "bad request", "invalid"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "connection reset", "timeout", "deadline exceeded", "broken pipe", "no such host"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func isSyscallError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE,
		syscall.ETIMEDOUT, syscall.ENETUNREACH, syscall.EHOSTUNREACH:
		return true
	}
	return false
}
