// Package client provides the HTTP transport for the catalog API: list,
// detail-by-id and detail-by-name requests with typed failures.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for API requests.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_api_requests_total",
		Help: "Total API requests by operation and status",
	}, []string{"op", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokedex_api_request_duration_seconds",
		Help:    "API request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"op"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_api_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

// Operation names used in errors, logs and metric labels.
const (
	OpList         = "list"
	OpDetailByID   = "detail_by_id"
	OpDetailByName = "detail_by_name"
)

// Defaults for the public API.
const (
	DefaultBaseURL    = "https://pokeapi.co/api/v2"
	DefaultResource   = "pokemon"
	DefaultUserAgent  = "pokedex-client/0.1.0"
	DefaultLimit      = 20
	DefaultOffset     = 0
	DefaultImageBase  = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork"
	DefaultSpriteBase = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"
)

// Client issues read-only requests against the catalog API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without trailing slash
	BaseURL string

	// Resource is the collection path segment (e.g. "pokemon")
	Resource string

	UserAgent string

	// Timeout for a single request; 0 means no client-side timeout
	Timeout time.Duration

	// Image bases used by ImageURL and SpriteURL
	ImageBase  string
	SpriteBase string
}

// DefaultConfig returns the configuration for the public PokeAPI.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Resource:   DefaultResource,
		UserAgent:  DefaultUserAgent,
		ImageBase:  DefaultImageBase,
		SpriteBase: DefaultSpriteBase,
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Resource == "" {
		return nil, fmt.Errorf("resource is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageBase == "" {
		cfg.ImageBase = DefaultImageBase
	}
	if cfg.SpriteBase == "" {
		cfg.SpriteBase = DefaultSpriteBase
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.With().Str("component", "pokedex-client").Logger(),
	}, nil
}

// FetchList fetches one page of the list endpoint.
// limit <= 0 falls back to DefaultLimit, offset < 0 to DefaultOffset.
func (c *Client) FetchList(ctx context.Context, limit, offset int) (*ListPage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var page ListPage
	if err := c.getJSON(ctx, OpList, c.resourcePath(""), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchByID fetches the detail record for a positive numeric id.
func (c *Client) FetchByID(ctx context.Context, id int) (*ItemDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%s %d: %w", OpDetailByID, id, ErrInvalidID)
	}
	return c.fetchDetail(ctx, OpDetailByID, strconv.Itoa(id))
}

// FetchByName fetches the detail record by name. The name is lower-cased
// before it is embedded in the path.
func (c *Client) FetchByName(ctx context.Context, name string) (*ItemDetail, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%s: %w", OpDetailByName, ErrInvalidName)
	}
	return c.fetchDetail(ctx, OpDetailByName, url.PathEscape(name))
}

// ImageURL returns the official artwork URL for id. The asset is not checked.
func (c *Client) ImageURL(id int) string {
	return fmt.Sprintf("%s/%d.png", c.config.ImageBase, id)
}

// SpriteURL returns the sprite URL for id. The asset is not checked.
func (c *Client) SpriteURL(id int) string {
	return fmt.Sprintf("%s/%d.png", c.config.SpriteBase, id)
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) fetchDetail(ctx context.Context, op, segment string) (*ItemDetail, error) {
	var detail ItemDetail
	if err := c.getJSON(ctx, op, c.resourcePath(segment), nil, &detail); err != nil {
		return nil, err
	}
	if len(detail.Types) == 0 {
		return nil, fmt.Errorf("%s %s: %w", op, segment, ErrMalformedDetail)
	}
	return &detail, nil
}

func (c *Client) resourcePath(segment string) string {
	p := c.config.BaseURL + "/" + c.config.Resource
	if segment != "" {
		p += "/" + segment
	}
	return p
}

// getJSON performs a single GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, rawURL string, query url.Values, out any) error {
	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}()

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug().
		Str("op", op).
		Str("url", rawURL).
		Str("request_id", requestID).
		Msg("Executing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Str("request_id", requestID).Msg("HTTP request failed")
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return &APIError{Op: op, ErrorClass: ErrorClassNetwork, Err: err}
	}
	defer resp.Body.Close()

	apiRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		apiErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("op", op).
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("API request error")

		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			ErrorClass: class,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// statusText returns the reason phrase of resp, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
