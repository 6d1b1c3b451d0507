package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/"

	// DefaultMaxRetries bounds both generic transport failures and 429
	// rate-limit responses; the two are distinguished in logs only.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the blocking backoff between attempts.
	DefaultRetryDelay = 5 * time.Second
)

var errInvalidURL = errors.New("invalid request URL")

// RequestError describes a failed request against the metadata service.
type RequestError struct {
	URL         string
	Status      int
	RateLimited bool
	Err         error
}

func (e *RequestError) Error() string {
	switch {
	case e.RateLimited:
		return fmt.Sprintf("tmdb: rate limited (429) requesting %s", e.URL)
	case e.Status != 0:
		return fmt.Sprintf("tmdb: unexpected status %d requesting %s", e.Status, e.URL)
	default:
		return fmt.Sprintf("tmdb: request %s failed: %v", e.URL, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Doer is the subset of *http.Client the metadata client needs. It exists so
// tests can substitute a stub transport (matches http.Client exactly).
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Zero values fall back to sensible defaults;
// APIKey is the only required field.
type Options struct {
	APIKey       string
	Language     string
	BaseURL      string
	ImageBaseURL string
	MaxRetries   int
	RetryDelay   time.Duration
	HTTPClient   Doer
	Logger       zerolog.Logger
}

// Client performs cached, retried requests against the TMDB API. The
// response cache is process-scoped and never persisted; a cache hit
// short-circuits validation, rate limiting, and the retry loop entirely.
// The cache is write-once-read-many and the client is driven by a single
// goroutine, so no locking beyond go-cache's own is needed.
type Client struct {
	apiKey       string
	language     string
	baseURL      string
	imageBaseURL string
	maxRetries   int
	retryDelay   time.Duration
	http         Doer
	cache        *gocache.Cache
	limiter      *rateLimiter
	log          zerolog.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		apiKey:       opts.APIKey,
		language:     opts.Language,
		baseURL:      opts.BaseURL,
		imageBaseURL: opts.ImageBaseURL,
		maxRetries:   opts.MaxRetries,
		retryDelay:   opts.RetryDelay,
		http:         opts.HTTPClient,
		cache:        gocache.New(gocache.NoExpiration, 0),
		limiter:      newRateLimiter(38, 10*time.Second),
		log:          opts.Logger,
	}
	if c.language == "" {
		c.language = "en-US"
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.imageBaseURL == "" {
		c.imageBaseURL = defaultImageBaseURL
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryDelay == 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// request performs an HTTP request with caching and a bounded retry loop.
// Successful response bodies are cached under (method, url, sorted params);
// failures never reach the cache-write path.
func (c *Client) request(ctx context.Context, method, rawURL string, params map[string]string) ([]byte, error) {
	if rawURL == "" || !(strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")) {
		return nil, &RequestError{URL: rawURL, Err: errInvalidURL}
	}

	key := cacheKey(method, rawURL, params)
	if cached, found := c.cache.Get(key); found {
		return cached.([]byte), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			time.Sleep(c.retryDelay)
		}
		c.limiter.wait()

		body, err := c.do(ctx, method, u.String())
		if err == nil {
			c.cache.Set(key, body, gocache.NoExpiration)
			return body, nil
		}
		lastErr = err

		var reqErr *RequestError
		rateLimited := errors.As(err, &reqErr) && reqErr.RateLimited
		c.log.Warn().
			Str("url", rawURL).
			Int("attempt", attempt).
			Int("max_retries", c.maxRetries).
			Bool("rate_limited", rateLimited).
			Err(err).
			Msg("tmdb request failed")
	}
	return nil, lastErr
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, method, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &RequestError{URL: fullURL, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RequestError{URL: fullURL, Status: resp.StatusCode, RateLimited: true}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{URL: fullURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: fullURL, Err: err}
	}
	return body, nil
}

// get requests a path relative to the API base URL and decodes the JSON
// response into v. A body that fails to decode is evicted from the cache so
// a later identical call reaches the network again.
func (c *Client) get(ctx context.Context, path string, params map[string]string, v any) error {
	rawURL := c.baseURL + path
	body, err := c.request(ctx, http.MethodGet, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		c.cache.Delete(cacheKey(http.MethodGet, rawURL, params))
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return nil
}

// ImageURL combines the image base URL, a size token, and an opaque image
// path fragment into a downloadable URL. Returns "" for an empty path.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + size + path
}

// cacheKey builds the cache key from the method, bare URL, and the caller's
// params in sorted order. Credentials and language are added at request
// build time and deliberately excluded.
func cacheKey(method, rawURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(rawURL)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
