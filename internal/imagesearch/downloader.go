package imagesearch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/httpclient"
	"cassandra/internal/logging"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// MaxImageBytes caps a single downloaded picture.
	MaxImageBytes = 20 << 20

	downloadTimeout   = 30 * time.Second
	downloadCacheSize = 32
	downloadCacheTTL  = 30 * time.Minute
)

// Downloader fetches pictures by URL and keeps recent ones in memory.
type Downloader struct {
	http     *http.Client
	cache    *expirable.LRU[string, []byte]
	maxBytes int64
}

func NewDownloader(logger logging.Logger) *Downloader {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("image-download")
	}
	return &Downloader{
		http:     httpclient.NewWithCircuitBreaker(downloadTimeout, logger, "image-download", cerrors.DefaultCircuitBreakerConfig()),
		cache:    expirable.NewLRU[string, []byte](downloadCacheSize, nil, downloadCacheTTL),
		maxBytes: MaxImageBytes,
	}
}

// Fetch downloads url in a single attempt, refusing bodies over 20 MiB.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := d.cache.Get(url); ok {
		return data, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, cerrors.FromHTTPStatus(resp.StatusCode, "")
	}
	if resp.ContentLength > d.maxBytes {
		return nil, httpclient.ResponseTooLargeError{Limit: d.maxBytes}
	}
	data, err := httpclient.ReadAllWithLimit(resp.Body, d.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	d.cache.Add(url, data)
	return data, nil
}
