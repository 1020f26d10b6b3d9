package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
)

type fakeSearcher struct {
	links []models.CandidateLink
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]models.CandidateLink, error) {
	return f.links, f.err
}

type fakeMapper struct {
	links  []models.CandidateLink
	gotURL string
}

func (f *fakeMapper) MapLinks(ctx context.Context, seedURL, filter string) ([]models.CandidateLink, error) {
	f.gotURL = seedURL
	return f.links, nil
}

func TestSearchByQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects blank query", func(t *testing.T) {
		svc := NewService(&fakeSearcher{}, nil, fetcher.New(), nil)
		if _, err := svc.SearchByQuery(ctx, "   "); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("SearchByQuery() = %v, want ErrEmptyQuery", err)
		}
	})

	t.Run("rejects when no provider configured", func(t *testing.T) {
		svc := NewService(nil, nil, fetcher.New(), nil)
		if _, err := svc.SearchByQuery(ctx, "golang"); !errors.Is(err, ErrNoSearcher) {
			t.Errorf("SearchByQuery() = %v, want ErrNoSearcher", err)
		}
	})

	t.Run("dedupes results keeping first occurrence", func(t *testing.T) {
		searcher := &fakeSearcher{links: []models.CandidateLink{
			{URL: "https://example.com/a", Title: "First A"},
			{URL: "https://example.com/b", Title: "B"},
			{URL: "https://example.com/a", Title: "Second A"},
		}}
		svc := NewService(searcher, nil, fetcher.New(), nil)

		links, err := svc.SearchByQuery(ctx, "golang")
		if err != nil {
			t.Fatalf("SearchByQuery() failed: %v", err)
		}
		if len(links) != 2 {
			t.Fatalf("got %d links, want 2", len(links))
		}
		if links[0].Title != "First A" {
			t.Errorf("first occurrence lost: %+v", links[0])
		}
	})

	t.Run("propagates provider failure", func(t *testing.T) {
		searcher := &fakeSearcher{err: errors.New("provider down")}
		svc := NewService(searcher, nil, fetcher.New(), nil)
		if _, err := svc.SearchByQuery(ctx, "golang"); err == nil {
			t.Error("SearchByQuery() succeeded, want provider error")
		}
	})
}

func TestDiscoverFromSite_RejectsBadSeed(t *testing.T) {
	svc := NewService(nil, nil, fetcher.New(), nil)

	for _, seed := range []string{"", "not a url", "ftp://example.com"} {
		if _, err := svc.DiscoverFromSite(context.Background(), seed, ""); !errors.Is(err, ErrInvalidSeedURL) {
			t.Errorf("DiscoverFromSite(%q) = %v, want ErrInvalidSeedURL", seed, err)
		}
	}
}

func TestDiscoverFromSite_UsesMapperWhenConfigured(t *testing.T) {
	mapper := &fakeMapper{links: []models.CandidateLink{
		{URL: "https://example.com/posts/1"},
		{URL: "https://example.com/posts/1"},
	}}
	svc := NewService(nil, mapper, fetcher.New(), nil)

	links, err := svc.DiscoverFromSite(context.Background(), "https://example.com/blog", "/posts/")
	if err != nil {
		t.Fatalf("DiscoverFromSite() failed: %v", err)
	}
	if mapper.gotURL != "https://example.com/blog" {
		t.Errorf("mapper got seed %q", mapper.gotURL)
	}
	if len(links) != 1 {
		t.Errorf("got %d links, want 1 after dedupe", len(links))
	}
}

func TestDiscoverFromSite_CrawlFallback(t *testing.T) {
	page := `<html><body>
		<a href="/posts/one">Post One</a>
		<a href="posts/two">Post Two</a>
		<a href="https://other.example.com/posts/three">Elsewhere</a>
		<a href="/about">About</a>
		<a href="#section">Skip fragment</a>
		<a href="mailto:hi@example.com">Skip mail</a>
		<a href="/posts/one#comments">Post One comments</a>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	svc := NewService(nil, nil, fetcher.New(), nil)

	links, err := svc.DiscoverFromSite(context.Background(), server.URL, "/posts/")
	if err != nil {
		t.Fatalf("DiscoverFromSite() failed: %v", err)
	}

	// /posts/one (fragment variant dedupes into it), /posts/two, and the
	// external /posts/three. /about misses the filter; mailto and bare
	// fragments are dropped outright.
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3: %+v", len(links), links)
	}
	if links[0].URL != server.URL+"/posts/one" {
		t.Errorf("first link = %q", links[0].URL)
	}
	if links[0].Title != "Post One" {
		t.Errorf("anchor text lost: %q", links[0].Title)
	}
}

func TestDedupe_EmptyInput(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
}
