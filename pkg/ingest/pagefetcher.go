package ingest

import (
	"context"

	"github.com/dtnitsch/linkstash/pkg/extractor"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
)

// webPageFetcher composes the HTTP fetcher with the content extractor into
// the single fetch+extract step the orchestrator applies per URL.
type webPageFetcher struct {
	fetch   *fetcher.Fetcher
	extract *extractor.Extractor
}

func NewPageFetcher(f *fetcher.Fetcher, e *extractor.Extractor) PageFetcher {
	return &webPageFetcher{fetch: f, extract: e}
}

func (w *webPageFetcher) FetchPage(ctx context.Context, pageURL string) (*extractor.Extraction, error) {
	rawHTML, err := w.fetch.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return w.extract.Extract(pageURL, rawHTML)
}
