package imagesearch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/httpclient"
	"cassandra/internal/logging"

	"github.com/stretchr/testify/require"
)

func TestDownloaderFetchCaches(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	d := NewDownloader(logging.Nop())
	for i := 0; i < 2; i++ {
		data, err := d.Fetch(context.Background(), srv.URL+"/a.png")
		require.NoError(t, err)
		require.Equal(t, "png-bytes", string(data))
	}
	require.EqualValues(t, 1, hits.Load())
}

func TestDownloaderRejectsLargeBodies(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer srv.Close()

	d := NewDownloader(logging.Nop())
	d.maxBytes = 16
	_, err := d.Fetch(context.Background(), srv.URL)
	require.True(t, httpclient.IsResponseTooLarge(err))
}

func TestDownloaderReportsStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewDownloader(logging.Nop()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestDownloaderDoesNotRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewDownloader(logging.Nop()).Fetch(context.Background(), srv.URL)
	require.True(t, cerrors.IsTransient(err))
	require.EqualValues(t, 1, hits.Load())
}
