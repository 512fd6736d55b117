// Package imagesearch finds slide backgrounds and closing pictures on Pexels
// and downloads them.
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/httpclient"
	"cassandra/internal/logging"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultBaseURL = "https://api.pexels.com/v1"

	defaultSearchTimeout  = 10 * time.Second
	closingSearchTimeout  = 15 * time.Second
	maxPerPage            = 80
	maxSearchResponseSize = 8 << 20

	thankYouQuery    = "thank you gratitude appreciation"
	thankYouMaxPages = 3

	searchCacheSize = 128
	searchCacheTTL  = 10 * time.Minute
)

// ErrNoAPIKey is returned by every search when no Pexels key is configured.
var ErrNoAPIKey = errors.New("pexels api key not configured")

// closingTerms are tried in random order when a deck needs a closing picture.
var closingTerms = []string{"thank you", "gratitude", "appreciation", "colorful abstract", "beautiful nature"}

// Photo is one search hit in the shape the web UI consumes.
type Photo struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	ThumbURL     string `json:"thumb_url"`
	SmallURL     string `json:"small_url"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
	// OriginalURL backs up URL when large2x is missing.
	OriginalURL string `json:"-"`
}

// Query is a Pexels search request. Zero fields are omitted.
type Query struct {
	Text        string
	Color       string
	Orientation string
	Size        string
	PerPage     int
	Page        int
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("query", q.Text)
	if q.Color != "" {
		v.Set("color", q.Color)
	}
	if q.Orientation != "" {
		v.Set("orientation", q.Orientation)
	}
	if q.Size != "" {
		v.Set("size", q.Size)
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(min(q.PerPage, maxPerPage)))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Config configures the Pexels client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Pexels search API.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
	cache   *expirable.LRU[string, []Photo]
	logger  logging.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Client.
type Option func(*Client)

// WithRand fixes the random source used to pick closing pictures.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithHTTPClient replaces the breaker-guarded default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(cfg Config, logger logging.Logger, opts ...Option) *Client {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("pexels")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSearchTimeout
	}
	c := &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		// per-request deadlines come from the context; the client cap covers the slower closing search
		http:   httpclient.NewWithCircuitBreaker(closingSearchTimeout, logger, "pexels", cerrors.DefaultCircuitBreakerConfig()),
		cache:  expirable.NewLRU[string, []Photo](searchCacheSize, nil, searchCacheTTL),
		logger: logger,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type searchResponse struct {
	Photos []struct {
		ID           int64  `json:"id"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Original string `json:"original"`
			Large2x  string `json:"large2x"`
			Medium   string `json:"medium"`
			Small    string `json:"small"`
		} `json:"src"`
	} `json:"photos"`
}

// Search runs one query with the default timeout. Results are cached by
// query parameters.
func (c *Client) Search(ctx context.Context, q Query) ([]Photo, error) {
	return c.search(ctx, q, c.timeout)
}

func (c *Client) search(ctx context.Context, q Query, timeout time.Duration) ([]Photo, error) {
	if !c.Enabled() {
		return nil, ErrNoAPIKey
	}
	params := q.values()
	key := params.Encode()
	if photos, ok := c.cache.Get(key); ok {
		return photos, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("build pexels request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadAllWithLimit(resp.Body, maxSearchResponseSize)
	if err != nil {
		return nil, fmt.Errorf("read pexels response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, cerrors.FromHTTPStatus(resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}
	photos := make([]Photo, 0, len(decoded.Photos))
	for _, p := range decoded.Photos {
		photos = append(photos, Photo{
			ID:           p.ID,
			URL:          p.Src.Large2x,
			ThumbURL:     p.Src.Medium,
			SmallURL:     p.Src.Small,
			Photographer: p.Photographer,
			Alt:          p.Alt,
			OriginalURL:  p.Src.Original,
		})
	}
	c.cache.Add(key, photos)
	return photos, nil
}

// Backgrounds searches landscape backgrounds. A supported colour is added to
// the query text and as a filter.
func (c *Client) Backgrounds(ctx context.Context, color, query string, count int) ([]Photo, error) {
	if strings.TrimSpace(query) == "" {
		query = "abstract background"
	}
	q := Query{Text: query, Orientation: "landscape", Size: "large", PerPage: count}
	if color = strings.ToLower(strings.TrimSpace(color)); IsSupportedColor(color) {
		q.Text = color + " " + query
		q.Color = color
	}
	photos, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return withAlt(photos, "Background by %s"), nil
}

// ThankYouImages gathers up to maxResults closing pictures over at most
// three pages of 80.
func (c *Client) ThankYouImages(ctx context.Context, maxResults int) ([]Photo, error) {
	if maxResults <= 0 {
		maxResults = 100
	}
	pages := min((maxResults+maxPerPage-1)/maxPerPage, thankYouMaxPages)
	var all []Photo
	for page := 1; page <= pages && len(all) < maxResults; page++ {
		photos, err := c.Search(ctx, Query{
			Text:        thankYouQuery,
			Orientation: "landscape",
			Size:        "large",
			PerPage:     maxPerPage,
			Page:        page,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, withAlt(photos, "Thank you image by %s")...)
		if len(photos) == 0 {
			break
		}
	}
	if len(all) > maxResults {
		all = all[:maxResults]
	}
	return all, nil
}

// FindClosingImage tries up to three random closing terms and returns the
// URL of a random hit.
func (c *Client) FindClosingImage(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", ErrNoAPIKey
	}
	terms := append([]string(nil), closingTerms...)
	c.randMu.Lock()
	c.rand.Shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })
	c.randMu.Unlock()

	var lastErr error
	for _, term := range terms[:3] {
		photos, err := c.search(ctx, Query{Text: term, Orientation: "landscape", PerPage: 20}, closingSearchTimeout)
		if err != nil {
			lastErr = err
			c.logger.Debug("closing search %q failed: %v", term, err)
			continue
		}
		if len(photos) == 0 {
			continue
		}
		c.randMu.Lock()
		photo := photos[c.rand.IntN(len(photos))]
		c.randMu.Unlock()
		if photo.URL != "" {
			return photo.URL, nil
		}
		if photo.OriginalURL != "" {
			return photo.OriginalURL, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no closing image found")
}

func withAlt(photos []Photo, format string) []Photo {
	out := make([]Photo, len(photos))
	for i, p := range photos {
		if p.Alt == "" {
			p.Alt = fmt.Sprintf(format, p.Photographer)
		}
		out[i] = p
	}
	return out
}
