// Package client provides the Entrez E-utilities HTTP client with retry,
// payload caching, and error classification.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqfetch/entrez-client/pkg/cache"
)

// Prometheus metrics for Entrez client operations.
var (
	entrezRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_requests_total",
		Help: "Total Entrez requests by endpoint and status",
	}, []string{"endpoint", "status"})

	entrezRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entrez_request_duration_seconds",
		Help:    "Entrez request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	entrezErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_errors_total",
		Help: "Total Entrez errors by class",
	}, []string{"class"})

	entrezRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_retries_total",
		Help: "Total number of retry attempts by endpoint",
	}, []string{"endpoint"})

	entrezRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entrez_retry_backoff_seconds",
		Help:    "Backoff duration for retries by endpoint",
		Buckets: []float64{1, 5, 10, 20, 30, 60},
	}, []string{"endpoint"})

	entrezRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by endpoint",
	}, []string{"endpoint"})
)

const (
	// DefaultBaseURL is the NCBI E-utilities endpoint root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// FetchPageSize is the fixed number of records requested per efetch
	// page against a posted session (retmax).
	FetchPageSize = 100

	endpointPost  = "epost"
	endpointFetch = "efetch"
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the E-utilities service. Defaults to DefaultBaseURL.
	BaseURL string

	// Tool identifies this client to NCBI (tool parameter).
	Tool string

	// Email is the caller contact address (email parameter). NCBI
	// requires it for bulk access. It may be set after construction via
	// SetEmail; epost and direct efetch validate it per call.
	Email string

	// Redis enables the optional direct-fetch payload cache when set.
	// A nil client disables caching entirely.
	Redis *redis.Client

	// CacheTTL is the lifetime of cached payloads.
	CacheTTL time.Duration

	// Retry configures the per-call retry policy.
	Retry RetryConfig

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(tool, email string) Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Tool:     tool,
		Email:    email,
		CacheTTL: 24 * time.Hour,
		Retry:    DefaultRetryConfig(),
		Timeout:  60 * time.Second,
	}
}

// Client is the Entrez E-utilities client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Session is the server-issued handle returned by epost. It references a
// posted accession batch so that subsequent efetch calls can page through
// it without resending the identifiers. Errors carries informational
// per-identifier problems reported by the service; it is not a failure
// signal.
type Session struct {
	QueryKey string
	WebEnv   string
	Errors   []string
}

// New creates a new Entrez client. An empty Email is legal here; calls
// that require it fail individually until SetEmail provides one.
func New(cfg Config) (*Client, error) {
	if cfg.Tool == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	logger := log.With().Str("component", "entrez-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cacheManager,
		config:     cfg,
		logger:     logger,
	}, nil
}

// SetEmail sets the caller contact address. It takes effect on the next
// call that validates the identity precondition.
func (c *Client) SetEmail(email string) {
	c.config.Email = email
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// requireEmail validates the caller-identity precondition. It is checked
// at the start of every call path that needs it, not once globally, so a
// reconfiguration mid-run takes effect on the next call.
func (c *Client) requireEmail(endpoint string) error {
	if c.config.Email != "" {
		return nil
	}
	entrezErrorsTotal.WithLabelValues(string(ErrorClassConfig)).Inc()
	c.logger.Error().
		Str("endpoint", endpoint).
		Msg("Email address for Entrez is not set")
	return ErrEmailNotSet
}

// Post submits a batch of accession numbers to the given database and
// returns the session handle for paginated fetching. The handle is only
// valid for the batch that produced it.
func (c *Client) Post(ctx context.Context, db string, ids []string) (*Session, error) {
	if err := c.requireEmail(endpointPost); err != nil {
		return nil, err
	}

	form := url.Values{
		"db":    {db},
		"id":    {strings.Join(ids, ",")},
		"tool":  {c.config.Tool},
		"email": {c.config.Email},
	}

	body, err := c.call(ctx, endpointPost, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/epost.fcgi", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	session, err := parseEPostResult(body)
	if err != nil {
		entrezErrorsTotal.WithLabelValues(string(ErrorClassFatal)).Inc()
		return nil, fmt.Errorf("epost response: %w", err)
	}

	c.logger.Debug().
		Str("db", db).
		Int("ids", len(ids)).
		Str("query_key", session.QueryKey).
		Msg("Posted accession batch")

	return session, nil
}

// FetchHistory requests one page of FetchPageSize records from a posted
// session, starting at the given record offset. Section and format are
// passed through as rettype and retmode.
func (c *Client) FetchHistory(ctx context.Context, db string, session *Session, section, format string, start int) ([]byte, error) {
	query := url.Values{
		"db":        {db},
		"query_key": {session.QueryKey},
		"WebEnv":    {session.WebEnv},
		"rettype":   {section},
		"retmode":   {format},
		"retstart":  {strconv.Itoa(start)},
		"retmax":    {strconv.Itoa(FetchPageSize)},
		"tool":      {c.config.Tool},
		"email":     {c.config.Email},
	}

	return c.call(ctx, endpointFetch, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet,
			c.config.BaseURL+"/efetch.fcgi?"+query.Encode(), nil)
	})
}

// FetchDirect requests all records of an explicit accession batch in one
// call, bypassing the post/session protocol. This is the only path that
// works for WGS accessions. When a payload cache is configured, an
// identical earlier fetch is served from Redis.
func (c *Client) FetchDirect(ctx context.Context, db string, ids []string, section, format string) ([]byte, error) {
	if err := c.requireEmail(endpointFetch); err != nil {
		return nil, err
	}

	key := cache.Key{DB: db, Section: section, Format: format, IDs: ids}
	if c.cache != nil {
		if entry, err := c.cache.Get(ctx, key); err == nil {
			c.logger.Debug().
				Str("db", db).
				Int("ids", len(ids)).
				Msg("Direct fetch served from cache")
			return entry.Data, nil
		} else if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Msg("Cache get error")
		}
	}

	query := url.Values{
		"db":      {db},
		"id":      {strings.Join(ids, ",")},
		"rettype": {section},
		"retmode": {format},
		"tool":    {c.config.Tool},
		"email":   {c.config.Email},
	}

	body, err := c.call(ctx, endpointFetch, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet,
			c.config.BaseURL+"/efetch.fcgi?"+query.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		entry := cache.NewEntry(body, c.config.CacheTTL)
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache payload")
		}
	}

	return body, nil
}

// call executes one remote call under the retry policy and returns the
// response payload. build is invoked once per attempt so each attempt
// carries a fresh request.
func (c *Client) call(ctx context.Context, endpoint string, build func() (*http.Request, error)) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		entrezRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var payload []byte

	err := retryWithBackoff(ctx, c.config.Retry, endpoint, func() error {
		req, err := build()
		if err != nil {
			return &EntrezError{Class: ErrorClassFatal, Endpoint: endpoint, Message: "build request", Err: err}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Connection-level failures abort without retry.
			entrezErrorsTotal.WithLabelValues(string(ErrorClassFatal)).Inc()
			entrezRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			return &EntrezError{Class: ErrorClassFatal, Endpoint: endpoint, Message: "connection failed", Err: err}
		}
		defer resp.Body.Close()

		entrezRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 && resp.StatusCode <= 599 {
			entrezErrorsTotal.WithLabelValues(string(ErrorClassTransient)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Msg("Entrez request error")
			return &EntrezError{
				StatusCode: resp.StatusCode,
				Class:      ErrorClassTransient,
				Endpoint:   endpoint,
				Message:    resp.Status,
			}
		}

		payload, err = io.ReadAll(resp.Body)
		if err != nil {
			entrezErrorsTotal.WithLabelValues(string(ErrorClassFatal)).Inc()
			return &EntrezError{Class: ErrorClassFatal, Endpoint: endpoint, Message: "read response body", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}
