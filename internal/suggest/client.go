// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package suggest asks an OpenAI-compatible chat completion API (Groq by
// default) for a movie in a given genre.
//
// Every call makes exactly one HTTP request. To keep repeated calls for the
// same genre from converging on the same film, each request carries a random
// seed, a random nonce and a randomly chosen "angle" in the prompt.
package suggest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/metrics"
	"github.com/tomtom215/reelpick/internal/models"
	"github.com/tomtom215/reelpick/internal/upstream"
)

const (
	service = "suggest"

	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"

	chatCompletionsPath = "/chat/completions"
	maxErrorBody        = 64 << 10
)

// MsgMissingKey is returned when no API key is configured.
const MsgMissingKey = "API key is not configured. Set GROQ_API_KEY and try again."

// Suggester is implemented by Client.
type Suggester interface {
	Suggest(ctx context.Context, genre, language string) (*models.Suggestion, error)
}

var _ Suggester = (*Client)(nil)

// Config configures a Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// JSONMode sets response_format to json_object.
	JSONMode bool
}

// Client talks to the chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *upstream.Breaker[*models.Suggestion]

	rngMu sync.Mutex
	rng   *rand.Rand
	nonce func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRand fixes the source used for seeds and angles.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) { c.rng = r }
}

// WithNonce replaces the per-request nonce generator.
func WithNonce(fn func() string) Option {
	return func(c *Client) { c.nonce = fn }
}

// WithBreakerSettings overrides the circuit breaker tuning.
func WithBreakerSettings(s upstream.BreakerSettings) Option {
	return func(c *Client) { c.breaker = upstream.NewBreaker[*models.Suggestion](service, s) }
}

// NewClient creates a Client. Empty fields fall back to Groq defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // prompt variety, not security
		nonce:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = upstream.NewBreaker[*models.Suggestion](service, upstream.DefaultBreakerSettings())
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

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	Seed           int64           `json:"seed"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

// Suggest asks the model for one movie in genre. language may be empty.
func (c *Client) Suggest(ctx context.Context, genre, language string) (*models.Suggestion, error) {
	logger := c.logger(ctx)

	if !c.Configured() {
		err := upstream.NewClientError(service, MsgMissingKey, nil)
		metrics.RecordUpstreamCall(service, "chat_completion", upstream.Outcome(err), 0)
		logger.Warn().Msg("[SUGGEST] API key not configured")
		return nil, err
	}

	seed, angle := c.variety()
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(genre, language, angle, c.nonce())},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Seed:        seed,
	}
	if c.cfg.JSONMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	s, err := c.breaker.Execute(func() (*models.Suggestion, error) {
		return c.complete(ctx, &req)
	})
	metrics.RecordUpstreamCall(service, "chat_completion", upstream.Outcome(err), time.Since(start))
	if err != nil {
		logger.Warn().Err(err).Str("genre", genre).Str("kind", string(upstream.KindOf(err))).Msg("[SUGGEST] Suggestion failed")
		return nil, err
	}

	if s.Language == "" && !anyLanguage[strings.ToLower(strings.TrimSpace(language))] {
		s.Language = language
	}
	logger.Debug().
		Str("genre", genre).
		Str("title", s.Title).
		Str("year", s.Year).
		Int64("seed", seed).
		Dur("duration", time.Since(start)).
		Msg("[SUGGEST] Suggestion received")
	return s, nil
}

func (c *Client) complete(ctx context.Context, payload *chatRequest) (*models.Suggestion, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, upstream.NewClientError(service, "Failed to build request.", fmt.Errorf("marshal chat request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, upstream.NewClientError(service, "Failed to build request.", fmt.Errorf("create chat request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.NewNetworkError(service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env errorEnvelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			msg = strings.TrimSpace(env.Error.Message)
		}
		e := upstream.NewServerError(service, resp.StatusCode, msg)
		if msg == "" && len(raw) > 0 {
			e.Err = errors.New(logging.Truncate(string(raw), 200))
		}
		return nil, e
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, &upstream.FormatError{Service: service, Err: fmt.Errorf("decode chat response: %w", err)}
	}
	if cr.Error != nil && cr.Error.Message != "" {
		return nil, upstream.NewServerError(service, resp.StatusCode, cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, &upstream.FormatError{Service: service, Err: errors.New("no choices in response")}
	}

	content := cr.Choices[0].Message.Content
	s, err := parseSuggestion(content)
	if err != nil {
		return nil, &upstream.FormatError{Service: service, Snippet: logging.Truncate(content, 200), Err: err}
	}
	return s, nil
}

// variety picks the per-request seed and prompt angle.
func (c *Client) variety() (int64, string) {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Int64N(1 << 31), angles[c.rng.IntN(len(angles))]
}

func (c *Client) logger(ctx context.Context) *zerolog.Logger {
	l := logging.CtxWith(ctx).Str("component", service).Logger()
	return &l
}
