// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package omdb verifies movie suggestions against the OMDb API.

A title lookup is two-step: an exact title (and year) match first, and when
OMDb reports no match, a title search whose first hit is fetched by IMDb ID.
Successful lookups are cached in memory for a configurable TTL.

API Reference: https://www.omdbapi.com/
*/
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/cache"
	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/metrics"
	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/upstream"
)

const (
	service = "omdb"

	DefaultBaseURL       = "https://www.omdbapi.com/"
	DefaultPosterBaseURL = "https://img.omdbapi.com/"
	DefaultPosterHeight  = 600

	defaultPoster     = "https://via.placeholder.com/300x450?text=No+Poster+Available"
	placeholderPrefix = "https://via.placeholder.com/300x450?text="

	maxErrorBody = 16 << 10
)

// MsgMissingKey is returned when no API key is configured.
const MsgMissingKey = "OMDb API key is not configured."

// Verifier is implemented by Client.
type Verifier interface {
	LookupByTitle(ctx context.Context, title string, year int) (*models.VerifiedMovie, error)
	PosterURL(imdbID string) string
	DefaultPosterURL() string
	PlaceholderPosterURL(title string) string
}

var _ Verifier = (*Client)(nil)

// Config configures a Client.
type Config struct {
	APIKey        string
	BaseURL       string
	PosterBaseURL string
	PosterHeight  int
	// PosterAPI prefers the poster image API over the poster URL in the record.
	PosterAPI bool
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// SearchResult is one hit from a title search.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// Client is an OMDb API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *upstream.Breaker[struct{}]
	cache      *cache.TTL[*models.VerifiedMovie]
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreakerSettings overrides the circuit breaker tuning.
func WithBreakerSettings(s upstream.BreakerSettings) Option {
	return func(c *Client) { c.breaker = upstream.NewBreaker[struct{}](service, s) }
}

// NewClient creates a Client. Empty URLs fall back to the public OMDb hosts.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PosterBaseURL == "" {
		cfg.PosterBaseURL = DefaultPosterBaseURL
	}
	if cfg.PosterHeight <= 0 {
		cfg.PosterHeight = DefaultPosterHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache.NewTTL[*models.VerifiedMovie](cfg.CacheTTL, 5000),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = upstream.NewBreaker[struct{}](service, upstream.DefaultBreakerSettings())
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// PosterAPIEnabled reports whether verified records should use PosterURL.
func (c *Client) PosterAPIEnabled() bool {
	return c.cfg.PosterAPI
}

// CleanupCache drops expired cache entries.
func (c *Client) CleanupCache() int {
	return c.cache.Cleanup()
}

// PosterURL builds the poster image API URL for an IMDb ID. No request is made.
func (c *Client) PosterURL(imdbID string) string {
	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("h", strconv.Itoa(c.cfg.PosterHeight))
	q.Set("apikey", c.cfg.APIKey)
	return withQuery(c.cfg.PosterBaseURL, q)
}

// DefaultPosterURL is the generic "no poster" image.
func (c *Client) DefaultPosterURL() string {
	return defaultPoster
}

// PlaceholderPosterURL is a placeholder image labelled with title. The same
// title always yields the same URL.
func (c *Client) PlaceholderPosterURL(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return defaultPoster
	}
	return placeholderPrefix + url.QueryEscape(title)
}

// LookupByTitle finds the movie best matching title. year 0 means unknown.
func (c *Client) LookupByTitle(ctx context.Context, title string, year int) (*models.VerifiedMovie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &upstream.NotFoundError{Service: service, Query: title}
	}
	if !c.Configured() {
		return nil, upstream.NewClientError(service, MsgMissingKey, nil)
	}

	key := "t:" + strings.ToLower(title) + "|" + strconv.Itoa(year)
	if m, ok := c.cachedGet(key); ok {
		return m, nil
	}

	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	var rec record
	err := c.call(ctx, "lookup_title", params, &rec)
	if err == nil {
		m := rec.toModel()
		c.cache.Set(key, m)
		c.cache.Set("i:"+m.IMDbID, m)
		return m, nil
	}
	if !upstream.IsNotFound(err) {
		return nil, err
	}

	c.logger(ctx).Debug().Str("title", title).Int("year", year).Msg("[OMDB] Exact match failed, falling back to search")

	results, err := c.Search(ctx, title, year)
	if err != nil {
		return nil, err
	}
	m, err := c.GetByID(ctx, results[0].IMDbID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, m)
	return m, nil
}

// Search returns movie hits for title. It fails with NotFoundError when
// there are none.
func (c *Client) Search(ctx context.Context, title string, year int) ([]SearchResult, error) {
	if !c.Configured() {
		return nil, upstream.NewClientError(service, MsgMissingKey, nil)
	}
	params := url.Values{}
	params.Set("s", title)
	params.Set("type", "movie")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	var sr searchResponse
	if err := c.call(ctx, "search", params, &sr); err != nil {
		return nil, err
	}
	hits := make([]SearchResult, 0, len(sr.Search))
	for _, r := range sr.Search {
		if r.IMDbID != "" {
			hits = append(hits, r)
		}
	}
	if len(hits) == 0 {
		return nil, &upstream.NotFoundError{Service: service, Query: title}
	}
	return hits, nil
}

// GetByID fetches the full record for an IMDb ID.
func (c *Client) GetByID(ctx context.Context, imdbID string) (*models.VerifiedMovie, error) {
	if !c.Configured() {
		return nil, upstream.NewClientError(service, MsgMissingKey, nil)
	}
	key := "i:" + imdbID
	if m, ok := c.cachedGet(key); ok {
		return m, nil
	}

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var rec record
	if err := c.call(ctx, "get_by_id", params, &rec); err != nil {
		return nil, err
	}
	m := rec.toModel()
	c.cache.Set(key, m)
	return m, nil
}

func (c *Client) cachedGet(key string) (*models.VerifiedMovie, bool) {
	m, ok := c.cache.Get(key)
	if ok {
		metrics.UpstreamCacheHits.WithLabelValues(service).Inc()
		cp := *m
		cp.Ratings = append([]models.Rating(nil), m.Ratings...)
		return &cp, true
	}
	metrics.UpstreamCacheMisses.WithLabelValues(service).Inc()
	return nil, false
}

// call performs one GET under the circuit breaker and decodes the body into
// out. OMDb answers most failures with 200 and Response "False".
func (c *Client) call(ctx context.Context, op string, params url.Values, out responder) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.get(ctx, params, out)
	})
	metrics.RecordUpstreamCall(service, op, upstream.Outcome(err), time.Since(start))

	if err != nil && !upstream.IsNotFound(err) {
		c.logger(ctx).Warn().Err(err).Str("operation", op).Msg("[OMDB] Request failed")
	}
	return err
}

func (c *Client) get(ctx context.Context, params url.Values, out responder) error {
	params.Set("apikey", c.cfg.APIKey)
	reqURL := withQuery(c.cfg.BaseURL, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return upstream.NewClientError(service, "Failed to build request.", fmt.Errorf("create omdb request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return upstream.NewNetworkError(service, errors.New(logging.SanitizeURL(err.Error())))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil {
			msg = env.Error
		}
		if resp.StatusCode == http.StatusNotFound && (msg == "" || isNotFoundMessage(msg)) {
			return &upstream.NotFoundError{Service: service, Query: queryOf(params)}
		}
		return upstream.NewServerError(service, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &upstream.FormatError{Service: service, Err: fmt.Errorf("decode omdb response: %w", err)}
	}
	env := out.status()
	if strings.EqualFold(env.Response, "True") {
		return nil
	}
	if isNotFoundMessage(env.Error) {
		return &upstream.NotFoundError{Service: service, Query: queryOf(params)}
	}
	return upstream.NewServerError(service, resp.StatusCode, env.Error)
}

func (c *Client) logger(ctx context.Context) *zerolog.Logger {
	l := logging.CtxWith(ctx).Str("component", service).Logger()
	return &l
}

// isNotFoundMessage recognises OMDb's "no such title" answers.
func isNotFoundMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "not found") ||
		strings.Contains(m, "incorrect imdb id") ||
		strings.Contains(m, "too many results")
}

func queryOf(params url.Values) string {
	for _, k := range []string{"t", "s", "i"} {
		if v := params.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func withQuery(base string, q url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
