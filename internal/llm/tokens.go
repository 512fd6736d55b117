package llm

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce   sync.Once
	encodingLoaded = make(chan struct{})
	encoding       atomic.Pointer[tiktoken.Tiktoken]
)

// loadEncoding fetches cl100k_base in the background. The first load may
// download the BPE ranks, so callers never wait on it.
func loadEncoding() {
	encodingOnce.Do(func() {
		go func() {
			defer close(encodingLoaded)
			if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
				encoding.Store(enc)
			}
		}()
	})
}

// WarmTokenizer starts loading the encoding and waits until it is ready or
// ctx is done. It reports whether exact counting is available.
func WarmTokenizer(ctx context.Context) bool {
	loadEncoding()
	select {
	case <-encodingLoaded:
		return encoding.Load() != nil
	case <-ctx.Done():
		return false
	}
}

// CountTokens counts prompt tokens with the cl100k_base encoding. Until the
// encoding has loaded, or when it cannot be loaded, it falls back to
// EstimateTokens.
func CountTokens(text string) int {
	loadEncoding()
	if enc := encoding.Load(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return EstimateTokens(text)
}

// EstimateTokens returns max(runes/4, words).
func EstimateTokens(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	estimate := len([]rune(trimmed)) / 4
	if words := len(strings.Fields(trimmed)); estimate < words {
		estimate = words
	}
	return estimate
}
