// Package social fetches agent posts from the supported social platforms.
package social

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"molenker/internal/domain"
)

// DefaultTimeout bounds a single outbound request.
const DefaultTimeout = 15 * time.Second

// ErrUpstreamStatus is returned when a platform answers with a non-2xx status.
// Transport failures are wrapped separately so callers can tell them apart.
var ErrUpstreamStatus = errors.New("upstream returned non-success status")

// Searcher lists recent posts containing the trigger.
type Searcher interface {
	Search(ctx context.Context) ([]domain.Post, error)
}

// PostFetcher retrieves a single post with caller-supplied credentials.
type PostFetcher interface {
	FetchPost(ctx context.Context, postID, credential string) (*domain.Post, error)
}

// StatusError carries the upstream status code and wraps ErrUpstreamStatus.
type StatusError struct {
	Source domain.Source
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Source, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// ClientOption configures the platform clients.
type ClientOption func(*baseClient)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *baseClient) {
		c.client = client
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *baseClient) {
		c.client.Timeout = d
	}
}

// WithLimiter shares an outbound rate limiter between clients.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *baseClient) {
		c.limiter = l
	}
}

// NewLimiter returns a limiter allowing perSecond requests with a burst of one.
// A non-positive rate disables limiting.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

type baseClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func newBaseClient(baseURL string, opts []ClientOption) baseClient {
	c := baseClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// get performs a rate-limited GET and returns the body of a 2xx response.
func (c *baseClient) get(ctx context.Context, source domain.Source, url string, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Source: source, Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
