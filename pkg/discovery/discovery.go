// Package discovery turns a search query or a seed URL into a deduplicated
// candidate list for the user to pick from.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
)

var (
	// ErrEmptyQuery rejects blank search input before any provider call.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrInvalidSeedURL rejects seed URLs that are not absolute http(s).
	ErrInvalidSeedURL = errors.New("seed url is not a valid absolute URL")

	// ErrNoSearcher is returned when no search provider is configured.
	ErrNoSearcher = errors.New("no search provider configured")
)

// Searcher is the external web-search capability.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.CandidateLink, error)
}

// Mapper enumerates indexable links under a seed URL.
type Mapper interface {
	MapLinks(ctx context.Context, seedURL, filter string) ([]models.CandidateLink, error)
}

// Service wires the provider-backed capabilities with a local crawl fallback.
// searcher and mapper may be nil; fetch must not be.
type Service struct {
	searcher Searcher
	mapper   Mapper
	fetch    *fetcher.Fetcher
	logger   *slog.Logger
}

func NewService(searcher Searcher, mapper Mapper, fetch *fetcher.Fetcher, logger *slog.Logger) *Service {
	return &Service{
		searcher: searcher,
		mapper:   mapper,
		fetch:    fetch,
		logger:   logger,
	}
}

// SearchByQuery runs a web search and returns deduplicated candidates.
func (s *Service) SearchByQuery(ctx context.Context, query string) ([]models.CandidateLink, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if s.searcher == nil {
		return nil, ErrNoSearcher
	}

	links, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	deduped := Dedupe(links)
	s.debug("search done", "query", query, "raw", len(links), "candidates", len(deduped))
	return deduped, nil
}

// DiscoverFromSite enumerates links under seedURL, optionally narrowed by a
// filter substring. Uses the provider's map capability when configured and
// falls back to crawling the seed page's anchors locally. An empty result is
// not an error.
func (s *Service) DiscoverFromSite(ctx context.Context, seedURL, filter string) ([]models.CandidateLink, error) {
	cleaned := common.SanitizeURL(seedURL)
	if !common.ValidateURL(cleaned) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeedURL, seedURL)
	}

	if s.mapper != nil {
		links, err := s.mapper.MapLinks(ctx, cleaned, filter)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", cleaned, err)
		}
		deduped := Dedupe(links)
		s.debug("site map done", "seed", cleaned, "candidates", len(deduped))
		return deduped, nil
	}

	links, err := s.crawlSeedPage(ctx, cleaned, filter)
	if err != nil {
		return nil, err
	}
	deduped := Dedupe(links)
	s.debug("site crawl done", "seed", cleaned, "candidates", len(deduped))
	return deduped, nil
}

// crawlSeedPage extracts same-scheme anchors from the seed page itself.
func (s *Service) crawlSeedPage(ctx context.Context, seedURL, filter string) ([]models.CandidateLink, error) {
	base, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeedURL, seedURL)
	}

	rawHTML, err := s.fetch.Get(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", seedURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return nil, fmt.Errorf("crawl %s: failed to parse page: %w", seedURL, err)
	}

	var links []models.CandidateLink
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveHref(base, href)
		if resolved == "" {
			return
		}
		if filter != "" && !strings.Contains(resolved, filter) {
			return
		}
		links = append(links, models.CandidateLink{
			URL:   resolved,
			Title: strings.TrimSpace(sel.Text()),
		})
	})

	return links, nil
}

// resolveHref absolutizes href against base and drops non-http(s) targets.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// Dedupe drops candidates with repeated URLs, keeping the first occurrence
// and preserving insertion order.
func Dedupe(links []models.CandidateLink) []models.CandidateLink {
	seen := make(map[string]struct{}, len(links))
	out := make([]models.CandidateLink, 0, len(links))
	for _, link := range links {
		if _, ok := seen[link.URL]; ok {
			continue
		}
		seen[link.URL] = struct{}{}
		out = append(out, link)
	}
	return out
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
