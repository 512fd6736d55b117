package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromHTTPStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusUnauthorized, false},
		{http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		err := FromHTTPStatus(tc.status, "body")
		assert.Equal(t, tc.transient, IsTransient(err), "status %d", tc.status)
		assert.Equal(t, !tc.transient, IsPermanent(err), "status %d", tc.status)
	}
}

func TestFromHTTPStatusTruncatesBody(t *testing.T) {
	t.Parallel()

	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	err := FromHTTPStatus(http.StatusInternalServerError, string(long))
	assert.Less(t, len(err.Error()), 400)
}

func TestNetworkErrorsAreTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTransient(fmt.Errorf("dial tcp: connection refused")))
	assert.True(t, IsTransient(fmt.Errorf("wrap: %w", context.DeadlineExceeded)))
	assert.False(t, IsTransient(nil))
	assert.Equal(t, KindPermanent, KindOf(fmt.Errorf("unauthorized")))
}
