// Package provider is an HTTP client for the external search/crawl service.
// The service is a black box to the rest of the pipeline; only the request
// and response shapes here are relied upon.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/linkstash/models"
)

// ErrProvider covers unreachable, erroring, or malformed provider responses.
var ErrProvider = errors.New("search provider failure")

const defaultTimeout = 30 * time.Second

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient builds a provider client for the given API endpoint.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type mapRequest struct {
	URL    string `json:"url"`
	Search string `json:"search,omitempty"`
}

type linkPayload struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type searchResponse struct {
	Data struct {
		Web []linkPayload `json:"web"`
	} `json:"data"`
}

type mapResponse struct {
	Data struct {
		Links []linkPayload `json:"links"`
	} `json:"data"`
}

// Search runs a web search and returns the provider's result links.
func (c *Client) Search(ctx context.Context, query string) ([]models.CandidateLink, error) {
	var resp searchResponse
	if err := c.post(ctx, "/v2/search", searchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return toCandidates(resp.Data.Web), nil
}

// MapLinks asks the provider to enumerate indexable links under seedURL,
// optionally narrowed by a filter string.
func (c *Client) MapLinks(ctx context.Context, seedURL, filter string) ([]models.CandidateLink, error) {
	var resp mapResponse
	if err := c.post(ctx, "/v2/map", mapRequest{URL: seedURL, Search: filter}, &resp); err != nil {
		return nil, err
	}
	return toCandidates(resp.Data.Links), nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrProvider, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrProvider, err)
	}

	return nil
}

func toCandidates(links []linkPayload) []models.CandidateLink {
	out := make([]models.CandidateLink, 0, len(links))
	for _, l := range links {
		if l.URL == "" {
			continue
		}
		out = append(out, models.CandidateLink{
			URL:         l.URL,
			Title:       l.Title,
			Description: l.Description,
		})
	}
	return out
}
