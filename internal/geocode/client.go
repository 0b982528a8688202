// Package geocode is a thin client of a Nominatim-compatible search API used
// to place a marker for a checked address. Lookups are cached for the
// process lifetime, rate limited, and cancellable per session.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"usittel_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "UsittelCoverage/1.0"
)

// ErrRateLimited means the outbound limiter could not grant a request slot
// before the caller's deadline. No request was sent.
var ErrRateLimited = errors.New("geocoder rate limit would exceed deadline")

// Options configures the HTTP client.
type Options struct {
	BaseURL       string
	UserAgent     string
	CountryCodes  string
	Limit         int
	RatePerSecond float64
	HTTPTimeout   time.Duration
}

// Client issues search requests against the geocoding API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	countryCodes string
	limit        int
	limiter      *rate.Limiter
	timeout      time.Duration
	log          *logger.Logger
}

// NewClient creates a search client. Zero option values fall back to the
// public Nominatim endpoint, 5 results, 1 request per second and an 8s
// per-request timeout.
func NewClient(opts Options, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}
	rps := opts.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:   &http.Client{},
		baseURL:      baseURL,
		userAgent:    userAgent,
		countryCodes: opts.CountryCodes,
		limit:        limit,
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		timeout:      timeout,
		log:          log,
	}
}

// SearchURL builds the fully-formed request URL for a free-text query. The
// URL doubles as the cache key, so parameters are encoded in sorted order.
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.limit))
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}
	return fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
}

// Interval is the spacing the outbound limiter enforces between requests.
func (c *Client) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(c.limiter.Limit()))
}

// Search performs one GET against a URL built by SearchURL. Waiting for the
// rate limiter is bounded by ctx; the request itself by the per-request
// timeout.
func (c *Client) Search(ctx context.Context, reqURL string) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("geocoder upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocoder payload: %w", err)
	}
	return places, nil
}
