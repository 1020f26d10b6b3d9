package discover

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/discovery"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
	"github.com/dtnitsch/linkstash/pkg/provider"
)

// DiscoverAction finds candidate links from a search query or a seed site and
// prints them for the user to pick from. Nothing is imported.
func DiscoverAction(c *cli.Context) error {
	cfg, logger, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	query := c.String("query")
	site := c.String("site")
	if query != "" && site != "" {
		fmt.Fprintln(os.Stderr, "Error: Cannot use both --query and --site")
		fmt.Fprintln(os.Stderr, "Use --query for web search, or --site to enumerate links under a URL")
		os.Exit(1)
	}
	if query == "" && site == "" {
		fmt.Fprintln(os.Stderr, "Error: No discovery source provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  linkstash discover --query "distributed consensus"`)
		fmt.Fprintln(os.Stderr, `  linkstash discover --site https://example.com/blog --filter /posts/`)
		os.Exit(1)
	}

	svc := NewDiscoveryService(cfg, logger)

	var links []models.CandidateLink
	if query != "" {
		links, err = svc.SearchByQuery(c.Context, query)
	} else {
		links, err = svc.DiscoverFromSite(c.Context, site, c.String("filter"))
	}
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(links, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal candidates: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(links) == 0 {
		fmt.Println("No candidates found")
		return nil
	}

	for i, link := range links {
		fmt.Printf("%3d. %s\n", i+1, link.URL)
		if link.Title != "" {
			fmt.Printf("     %s\n", link.Title)
		}
		if link.Description != "" {
			fmt.Printf("     %s\n", link.Description)
		}
	}
	fmt.Printf("\nTotal: %d candidates\n", len(links))
	fmt.Printf("\nTip: Use 'linkstash import --urls \"<url1>,<url2>\"' to save them\n")

	return nil
}

// NewDiscoveryService wires the provider-backed search/map capabilities when
// an endpoint is configured, leaving the local crawl fallback otherwise.
func NewDiscoveryService(cfg *models.Config, logger *slog.Logger) *discovery.Service {
	fetch := fetcher.New()

	var searcher discovery.Searcher
	var mapper discovery.Mapper
	if cfg.Search.Endpoint != "" {
		client := provider.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey)
		searcher = client
		mapper = client
	}

	return discovery.NewService(searcher, mapper, fetch, logger)
}
