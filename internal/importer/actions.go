package importer

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/internal/discover"
	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/extractor"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
	"github.com/dtnitsch/linkstash/pkg/ingest"
	"github.com/dtnitsch/linkstash/pkg/store"
)

// ImportAction runs a bulk import over an explicit URL list, search results,
// or a site's links. Progress is printed per URL as each fetch completes; a
// failed URL never aborts the rest of the batch.
func ImportAction(c *cli.Context) error {
	cfg, logger, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	urls, err := resolveImportURLs(c, cfg, logger)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs to import")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  linkstash import --urls "https://example.com,https://example.org"`)
		fmt.Fprintln(os.Stderr, `  linkstash import --query "distributed consensus"`)
		fmt.Fprintln(os.Stderr, `  linkstash import --site https://example.com/blog --filter /posts/`)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	workers := cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	pages := ingest.NewPageFetcher(fetcher.New(), extractor.New())
	orch := ingest.New(pages, st, workers, logger)

	progress, batchID, err := orch.Run(c.Context, cfg.Owner, urls)
	if err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}

	var succeeded, failed int
	for event := range progress {
		marker := "ok"
		if event.Status == models.ProgressFailure {
			marker = "FAILED"
			failed++
		} else {
			succeeded++
		}
		fmt.Printf("[%d/%d] %-6s %s\n", event.Completed, event.Total, marker, event.URL)
	}

	fmt.Printf("\nBatch %s: imported %d URLs with %d failures\n", batchID, succeeded, failed)
	if failed > 0 {
		fmt.Printf("Tip: Use 'linkstash items --status failed' to inspect failures\n")
	}
	if succeeded == 0 {
		os.Exit(2)
	}

	return nil
}

// resolveImportURLs picks the batch input: an explicit --urls list, or the
// candidates a discovery run yields for --query/--site.
func resolveImportURLs(c *cli.Context, cfg *models.Config, logger *slog.Logger) ([]string, error) {
	sources := 0
	for _, flag := range []string{"urls", "query", "site"} {
		if c.IsSet(flag) {
			sources++
		}
	}
	if sources > 1 {
		fmt.Fprintln(os.Stderr, "Error: Use exactly one of --urls, --query, or --site")
		os.Exit(1)
	}

	if c.IsSet("urls") {
		return strings.Split(c.String("urls"), ","), nil
	}

	svc := discover.NewDiscoveryService(cfg, logger)

	var links []models.CandidateLink
	var err error
	switch {
	case c.IsSet("query"):
		links, err = svc.SearchByQuery(c.Context, c.String("query"))
	case c.IsSet("site"):
		links, err = svc.DiscoverFromSite(c.Context, c.String("site"), c.String("filter"))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	urls := make([]string, len(links))
	for i, link := range links {
		urls[i] = link.URL
	}
	return urls, nil
}

// BatchesAction lists recent import batches with their outcome counts.
func BatchesAction(c *cli.Context) error {
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	batches, err := st.ListBatches(c.Context, cfg.Owner, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	if len(batches) == 0 {
		fmt.Println("No batches found")
		return nil
	}

	fmt.Printf("%-38s %-20s %-8s %-8s %-8s\n", "Batch", "Created", "URLs", "Success", "Failed")
	fmt.Println(strings.Repeat("-", 86))
	for _, b := range batches {
		fmt.Printf("%-38s %-20s %-8d %-8d %-8d\n",
			b.BatchID,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.URLCount,
			b.SuccessCount,
			b.FailedCount,
		)
	}
	fmt.Printf("\nTotal: %d batches\n", len(batches))

	return nil
}
