// Package fetcher downloads raw HTML over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrNetwork covers connection failures, timeouts, and error statuses.
	ErrNetwork = errors.New("network failure")

	// ErrRateLimited is returned when the remote side answers 429.
	ErrRateLimited = errors.New("rate limited")
)

const (
	userAgent      = "linkstash/1.0"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 10 << 20
)

type Fetcher struct {
	client *http.Client
}

// New builds a Fetcher with a default timeout-bound HTTP client.
func New() *Fetcher {
	return NewWithClient(&http.Client{Timeout: defaultTimeout})
}

// NewWithClient wires a custom HTTP client (tests, proxies).
func NewWithClient(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{client: client}
}

// Get downloads the page at rawURL. Transport errors and non-2xx statuses
// wrap ErrNetwork; a 429 wraps ErrRateLimited so callers can tell provider
// backpressure apart from hard failures.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	return body, nil
}
