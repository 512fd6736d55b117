package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/logging"
)

type breakerTransport struct {
	base    http.RoundTripper
	breaker *cerrors.CircuitBreaker
}

// NewWithCircuitBreaker builds a client whose transport stops calling the
// upstream named by name after repeated 5xx/429 responses or network errors.
// While open, requests fail fast with a degraded UpstreamError.
func NewWithCircuitBreaker(timeout time.Duration, logger logging.Logger, name string, config cerrors.CircuitBreakerConfig) *http.Client {
	client := New(timeout, logger)
	client.Transport = WrapTransport(client.Transport, name, config)
	return client
}

// WrapTransport guards base with a named circuit breaker.
func WrapTransport(base http.RoundTripper, name string, config cerrors.CircuitBreakerConfig) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if name == "" {
		name = "upstream"
	}
	return &breakerTransport{base: base, breaker: cerrors.NewCircuitBreaker(name, config)}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.breaker.Allow(); err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(req)
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		// the caller gave up; says nothing about upstream health
		return nil, err
	case err != nil:
		t.breaker.Mark(err)
		return nil, err
	case countsAsFailure(resp.StatusCode):
		t.breaker.Mark(fmt.Errorf("http status %d", resp.StatusCode))
	default:
		t.breaker.Mark(nil)
	}
	return resp, nil
}

func countsAsFailure(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
