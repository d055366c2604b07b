// Package tmdb provides a rate-limited client for the TMDB movie and TV catalog.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// TMDB allows around 50 requests per second; stay well under it.
	defaultRPS   = 20
	defaultBurst = 40

	// HTTP client settings
	defaultTimeout = 30 * time.Second
)

// Client is a rate-limited TMDB API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	apiKey      string
	baseURL     string

	// Genre names rarely change, so each media type's id-to-name table is
	// fetched once and cached for the life of the client.
	genreMu     sync.Mutex
	genresByTyp map[string]map[int64]string
}

// NewClient creates a new TMDB client. The apiKey is a v4 read access token
// sent as a bearer credential.
func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:      logger,
		apiKey:      apiKey,
		baseURL:     baseURL,
		genresByTyp: make(map[string]map[int64]string),
	}
}

// doRequest executes an HTTP GET against the API with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
